// Package predict estimates win probabilities for two sides. A baseline
// logistic estimator is always available; a learned logistic-regression
// estimator can be trained offline and swapped in atomically, with
// silent fallback to the baseline whenever it cannot serve.
package predict

import (
	"context"

	"github.com/okian/pickup/internal/domain/model"
)

// Probability outputs are clipped to this open interval; a prediction is
// never exactly 0 or 1.
const (
	minProbability = 0.001
	maxProbability = 0.999
)

// Estimator returns P(side A wins) strictly within (0,1), with
// Predict(A,B) = 1 - Predict(B,A).
type Estimator interface {
	Predict(ctx context.Context, sideA, sideB []model.PlayerRatingState) (float64, error)
}

func clip(p float64) float64 {
	if p < minProbability {
		return minProbability
	}
	if p > maxProbability {
		return maxProbability
	}
	return p
}
