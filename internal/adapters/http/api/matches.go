// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/pickup/internal/domain/match"
)

// defaultMatchLimit bounds GET /matches when no limit is given.
const defaultMatchLimit = 10

// MatchDependencies defines the interface for player discovery.
type MatchDependencies interface {
	FindMatches(ctx context.Context, playerID string, mode match.Mode, limit int) ([]match.Match, error)
}

// MatchesHandler handles player discovery requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleGetMatches handles GET /matches?player_id=X&mode=similar&limit=N requests.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matches"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	playerID := q.Get("player_id")
	if playerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	mode := match.Mode(q.Get("mode"))
	if mode == "" {
		mode = match.ModeSimilar
	}
	limit := defaultMatchLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	matches, err := h.deps.FindMatches(r.Context(), playerID, mode, limit)
	if err != nil {
		switch {
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, match.ErrUnknownMode):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
