// Package rating implements the incremental skill-rating update: an
// Elo-style formula over side mean ratings with a per-player decaying
// K-factor, margin-of-victory nudge, and saturating confidence.
package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/pickup/internal/domain/model"
)

// Engine computes rating updates. It is pure: callers supply the current
// states and persist the mutated ones, so the read-modify-write boundary
// lives with the caller (the repository serializes per player).
type Engine struct {
	kBase           float64
	scale           float64
	decayFloor      float64
	decayTau        float64
	marginMax       float64
	marginNudge     float64
	confidenceShape float64
	sandbagBoost    float64

	typeWeights map[model.GameType]float64
}

// NewEngine constructs an Engine with default calibration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		kBase:           defaultKBase,
		scale:           defaultScale,
		decayFloor:      defaultDecayFloor,
		decayTau:        defaultDecayTau,
		marginMax:       defaultMarginMax,
		marginNudge:     defaultMarginNudge,
		confidenceShape: defaultConfidenceShape,
		sandbagBoost:    defaultSandbagBoost,
		typeWeights:     defaultTypeWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Update applies one completed outcome to the supplied player states,
// mutating them in place, and returns the per-player deltas. states must
// hold an entry for every id on both sides. recentPerf carries each
// player's recent performance scores, newest first, snapshotted by the
// caller before any locks are taken; it feeds sandbagging detection and
// may be nil to disable the check.
func (e *Engine) Update(ctx context.Context, outcome model.GameOutcome, states map[string]*model.PlayerRatingState, recentPerf map[string][]float64) (map[string]model.RatingDelta, error) {
	if err := validate(outcome); err != nil {
		return nil, err
	}
	for _, id := range append(append([]string{}, outcome.SideA...), outcome.SideB...) {
		if states[id] == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
	}

	// Effective pre-game ratings: a brand-new player's first sample is
	// anchored to the opposing side's strength, never a self-reported
	// value. Experienced-player means break the circularity when both
	// sides hold new players.
	expMeanA := experiencedMean(outcome.SideA, states)
	expMeanB := experiencedMean(outcome.SideB, states)
	effective := make(map[string]float64, len(states))
	for _, id := range outcome.SideA {
		effective[id] = effectiveRating(states[id], expMeanB)
	}
	for _, id := range outcome.SideB {
		effective[id] = effectiveRating(states[id], expMeanA)
	}

	meanA := meanOf(outcome.SideA, effective)
	meanB := meanOf(outcome.SideB, effective)

	expectedA := e.expectedScore(meanA, meanB)
	actualA := e.actualScore(outcome)

	deltas := make(map[string]model.RatingDelta, len(states))
	e.applySide(outcome, outcome.SideA, actualA, expectedA, effective, states, recentPerf, deltas)
	e.applySide(outcome, outcome.SideB, 1-actualA, 1-expectedA, effective, states, recentPerf, deltas)
	return deltas, nil
}

// applySide updates every player on one side with that side's actual and
// expected scores.
func (e *Engine) applySide(outcome model.GameOutcome, side []string, actual, expected float64, effective map[string]float64, states map[string]*model.PlayerRatingState, recentPerf map[string][]float64, deltas map[string]model.RatingDelta) {
	won := actual > 0.5
	for _, id := range side {
		st := states[id]
		old := effective[id]
		oldConfidence := st.Confidence

		k := e.kFactor(st.GamesRated, outcome.GameType)
		if won && DetectSandbagging(*st, recentPerf[id]) {
			k *= e.sandbagBoost
		}

		delta := k * (actual - expected)
		// The margin nudge can put a heavy favorite's actual score below
		// its expectation even in a win; the outcome direction still rules.
		if won {
			delta = math.Max(delta, 0)
		} else {
			delta = math.Min(delta, 0)
		}

		st.Rating = clampRating(old + delta)
		st.GamesRated++
		if won {
			st.Wins++
		} else {
			st.Losses++
		}
		if c := e.confidence(st.GamesRated); c > st.Confidence {
			st.Confidence = c
		}

		deltas[id] = model.RatingDelta{
			PlayerID:      id,
			OldRating:     old,
			NewRating:     st.Rating,
			OldConfidence: oldConfidence,
			NewConfidence: st.Confidence,
		}
	}
}

// DetectSandbagging runs a z-score check of recent performance scores
// against the held rating. Requires at least five rated games, a winning
// record, and performance more than 1.5 standard deviations above rating.
func DetectSandbagging(st model.PlayerRatingState, recentPerformance []float64) bool {
	if st.GamesRated < 5 || len(recentPerformance) < 3 {
		return false
	}
	if st.WinRate() < 0.65 {
		return false
	}
	mean := 0.0
	for _, p := range recentPerformance {
		mean += p
	}
	mean /= float64(len(recentPerformance))

	variance := 0.0
	for _, p := range recentPerformance {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(recentPerformance))
	std := math.Max(math.Sqrt(variance), 0.3)

	return (mean-st.Rating)/std > 1.5
}

func validate(o model.GameOutcome) error {
	if !o.GameType.Valid() {
		return fmt.Errorf("%w: unknown game type %q", ErrInvalidOutcome, o.GameType)
	}
	if len(o.SideA) == 0 || len(o.SideB) == 0 {
		return fmt.Errorf("%w: empty side", ErrInvalidOutcome)
	}
	if o.ScoreA == o.ScoreB {
		return fmt.Errorf("%w: scores tied at %d", ErrInvalidOutcome, o.ScoreA)
	}
	return nil
}

// experiencedMean averages the ratings of players with rated history,
// falling back to the default rating when a side is entirely new.
func experiencedMean(side []string, states map[string]*model.PlayerRatingState) float64 {
	sum, n := 0.0, 0
	for _, id := range side {
		if st := states[id]; st.GamesRated > 0 {
			sum += st.Rating
			n++
		}
	}
	if n == 0 {
		return model.DefaultRating
	}
	return sum / float64(n)
}

// effectiveRating returns the pre-game rating used in the formula: the
// stored rating for experienced players, the opposing side's experienced
// mean for first-timers.
func effectiveRating(st *model.PlayerRatingState, opponentMean float64) float64 {
	if st.GamesRated == 0 {
		return opponentMean
	}
	return st.Rating
}

func meanOf(side []string, ratings map[string]float64) float64 {
	sum := 0.0
	for _, id := range side {
		sum += ratings[id]
	}
	return sum / float64(len(side))
}

func clampRating(r float64) float64 {
	return math.Max(model.MinRating, math.Min(model.MaxRating, r))
}
