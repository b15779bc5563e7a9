package predict

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/pickup/internal/domain/model"
)

// Baseline coefficients. The logistic scale matches the rating engine:
// a 4-point rating gap is one decade of odds, so a 1-point gap is a
// modest favorite (~64%). Auxiliary weights are small fixed nudges.
const (
	defaultBaselineScale = 4.0
	heightWeight         = 0.02 // per inch of mean height advantage
	scoringWeight        = 0.04 // per point of mean recent scoring advantage
)

// BaselineOption applies a configuration option to the Baseline.
type BaselineOption func(*Baseline)

// WithBaselineScale sets the logistic scale in rating points per decade
// of odds.
func WithBaselineScale(scale float64) BaselineOption {
	return func(b *Baseline) {
		if scale > 0 {
			b.scale = scale
		}
	}
}

// WithAuxiliaryFeatures toggles the height/scoring blend. Disabled, the
// estimate is a pure function of mean rating difference.
func WithAuxiliaryFeatures(enabled bool) BaselineOption {
	return func(b *Baseline) {
		b.useAux = enabled
	}
}

// Baseline is the closed-form logistic estimator. Always available.
type Baseline struct {
	scale  float64
	useAux bool
}

// NewBaseline constructs a Baseline estimator.
func NewBaseline(opts ...BaselineOption) *Baseline {
	b := &Baseline{
		scale:  defaultBaselineScale,
		useAux: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Predict returns P(side A wins) from aggregate mean ratings, optionally
// blended with height and recent-scoring deltas. The logit is built from
// antisymmetric differences only, so Predict(A,B) + Predict(B,A) == 1
// holds exactly.
func (b *Baseline) Predict(_ context.Context, sideA, sideB []model.PlayerRatingState) (float64, error) {
	if len(sideA) == 0 || len(sideB) == 0 {
		return 0, fmt.Errorf("%w: baseline predict", ErrEmptySide)
	}

	logit := math.Ln10 * (meanRating(sideA) - meanRating(sideB)) / b.scale

	if b.useAux {
		if hA, okA := meanHeight(sideA); okA {
			if hB, okB := meanHeight(sideB); okB {
				logit += heightWeight * (hA - hB)
			}
		}
		logit += scoringWeight * (meanScoring(sideA) - meanScoring(sideB))
	}

	return clip(1.0 / (1.0 + math.Exp(-logit))), nil
}

// Expected is the raw two-rating Elo expectation, shared with display
// paths that report a 1v1 probability directly from two ratings.
func (b *Baseline) Expected(ratingA, ratingB float64) float64 {
	return clip(1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/b.scale)))
}

func meanRating(side []model.PlayerRatingState) float64 {
	sum := 0.0
	for _, p := range side {
		sum += p.Rating
	}
	return sum / float64(len(side))
}

// meanHeight returns the side's mean height and whether every player has
// one recorded. Heights are nullable; a single missing value drops the
// feature for both sides rather than skewing the delta.
func meanHeight(side []model.PlayerRatingState) (float64, bool) {
	sum := 0.0
	for _, p := range side {
		if p.HeightInches <= 0 {
			return 0, false
		}
		sum += p.HeightInches
	}
	return sum / float64(len(side)), true
}

// meanScoring averages recent points per game across all recorded game
// types, weighted by games played. Players without stats contribute the
// neutral zero.
func meanScoring(side []model.PlayerRatingState) float64 {
	sum := 0.0
	for _, p := range side {
		points, games := 0.0, 0
		for _, s := range p.RecentStats {
			points += s.Points * float64(s.Games)
			games += s.Games
		}
		if games > 0 {
			sum += points / float64(games)
		}
	}
	return sum / float64(len(side))
}
