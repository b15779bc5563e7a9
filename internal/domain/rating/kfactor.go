package rating

import (
	"math"

	"github.com/okian/pickup/internal/domain/model"
)

// Default update constants. The decay curve is calibrated so an
// established player's K after roughly 25 rated games retains about 8%
// of the first-game impact.
const (
	defaultKBase           = 2.0
	defaultScale           = 4.0 // rating points per decade of odds
	defaultDecayFloor      = 0.05
	defaultDecayTau        = 7.0
	defaultMarginMax       = 15.0
	defaultMarginNudge     = 0.1
	defaultConfidenceShape = 6.0
	defaultSandbagBoost    = 1.5
)

// defaultTypeWeights makes 1v1 results carry the most weight, full 5v5
// next, and the short formats less (more variance per possession).
func defaultTypeWeights() map[model.GameType]float64 {
	return map[model.GameType]float64{
		model.OneOnOne:     1.2,
		model.FiveOnFive:   1.0,
		model.ThreeOnThree: 0.85,
		model.TwoOnTwo:     0.7,
	}
}

// decay returns the experience multiplier for a player with gamesRated
// prior rated games. Monotonically decreasing toward the floor.
func (e *Engine) decay(gamesRated int) float64 {
	return e.decayFloor + (1-e.decayFloor)*math.Exp(-float64(gamesRated)/e.decayTau)
}

// kFactor combines base scale, experience decay, and game-type weight.
func (e *Engine) kFactor(gamesRated int, gameType model.GameType) float64 {
	weight, ok := e.typeWeights[gameType]
	if !ok {
		weight = 1.0
	}
	return e.kBase * e.decay(gamesRated) * weight
}

// expectedScore is the Elo expectation for side A given side mean ratings.
func (e *Engine) expectedScore(meanA, meanB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (meanB-meanA)/e.scale))
}

// confidence maps a rated-game count onto [0,1), saturating toward 1.
// Strictly increasing in gamesRated, so confidence never decreases.
func (e *Engine) confidence(gamesRated int) float64 {
	return 1.0 - 1.0/(1.0+float64(gamesRated)/e.confidenceShape)
}

// actualScore maps the outcome onto [0,1] for side A. A win is worth at
// least 0.9 and at most 1.0 depending on margin; a loss mirrors that.
// The nudge is bounded so no single game swings a rating past K.
func (e *Engine) actualScore(o model.GameOutcome) float64 {
	marginFrac := math.Min(float64(o.Margin())/e.marginMax, 1.0)
	if o.SideAWon() {
		return (1 - e.marginNudge) + e.marginNudge*marginFrac
	}
	return e.marginNudge * (1 - marginFrac)
}
