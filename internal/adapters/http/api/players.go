// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/pickup/internal/domain/model"
)

// PlayerDependencies defines the interface for player registration and lookup.
type PlayerDependencies interface {
	RegisterPlayer(ctx context.Context, state model.PlayerRatingState) error
	GetPlayer(ctx context.Context, playerID string) (model.PlayerRatingState, error)
}

// PlayersHandler handles player requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandlePostPlayer handles POST /players requests.
func (h *PlayersHandler) HandlePostPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_player"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.RegisterPlayer(r.Context(), req.toState()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	state, err := h.deps.GetPlayer(r.Context(), req.PlayerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// HandleGetPlayer handles GET /players/{player_id} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /players/
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	state, err := h.deps.GetPlayer(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, state)
}
