// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/pickup/internal/domain/balance"
	"github.com/okian/pickup/internal/domain/model"
)

// TeamDependencies defines the interface for roster splitting.
type TeamDependencies interface {
	AssignTeams(ctx context.Context, roster []string, gameType model.GameType) (model.TeamAssignment, error)
}

// TeamsHandler handles team assignment requests.
type TeamsHandler struct {
	deps TeamDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandlePostTeams handles POST /teams requests.
func (h *TeamsHandler) HandlePostTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_teams"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req teamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	assignment, err := h.deps.AssignTeams(r.Context(), req.Roster, model.GameType(req.GameType))
	if err != nil {
		switch {
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, balance.ErrRosterIncomplete), errors.Is(err, balance.ErrInvalidRoster):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}
