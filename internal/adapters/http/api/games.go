// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/pickup/internal/app"
	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/rating"
)

// GameDependencies defines the interface for rating a completed game.
type GameDependencies interface {
	RateGame(ctx context.Context, outcome model.GameOutcome) (map[string]model.RatingDelta, error)
}

// GamesHandler handles completed-game submissions.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// gameResponse is the acknowledgment for a rated game.
type gameResponse struct {
	Status    string                       `json:"status"`
	Duplicate bool                         `json:"duplicate"`
	Deltas    map[string]model.RatingDelta `json:"deltas,omitempty"`
}

// HandlePostGame handles POST /games requests. Replays of an
// already-rated outcome id are acknowledged without re-rating.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	deltas, err := h.deps.RateGame(r.Context(), req.toOutcome())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateOutcome):
			writeJSON(w, http.StatusOK, gameResponse{Status: "duplicate", Duplicate: true})
		case isNotFound(err), errors.Is(err, rating.ErrUnknownPlayer):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, rating.ErrInvalidOutcome):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{Status: "rated", Deltas: deltas})
}
