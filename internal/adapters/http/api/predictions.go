// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/pickup/internal/domain/predict"
)

// PredictDependencies defines the interface for win probability queries.
type PredictDependencies interface {
	Predict(ctx context.Context, sideA, sideB []string) (float64, predict.Lines, error)
}

// PredictHandler handles win probability requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// predictResponse carries the probability and the derived lines.
type predictResponse struct {
	WinProbabilityA float64       `json:"win_probability_a"`
	Lines           predict.Lines `json:"lines"`
}

// HandlePostPredict handles POST /predict requests.
func (h *PredictHandler) HandlePostPredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sidesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, lines, err := h.deps.Predict(r.Context(), req.SideA, req.SideB)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{WinProbabilityA: p, Lines: lines})
}
