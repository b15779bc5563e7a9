package rating

import "github.com/okian/pickup/internal/domain/model"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKBase sets the base K-factor.
func WithKBase(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.kBase = k
		}
	}
}

// WithScale sets the logistic scale: the rating gap worth one decade of
// odds in the expected-score formula.
func WithScale(scale float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithDecay sets the experience-decay floor and time constant.
func WithDecay(floor, tau float64) Option {
	return func(e *Engine) {
		if floor > 0 && floor < 1 {
			e.decayFloor = floor
		}
		if tau > 0 {
			e.decayTau = tau
		}
	}
}

// WithTypeWeights overrides per-game-type K multipliers.
func WithTypeWeights(weights map[model.GameType]float64) Option {
	return func(e *Engine) {
		for gt, w := range weights {
			if w > 0 {
				e.typeWeights[gt] = w
			}
		}
	}
}

// WithMarginNudge sets the bounded margin-of-victory adjustment and the
// margin at which the adjustment saturates.
func WithMarginNudge(nudge, marginMax float64) Option {
	return func(e *Engine) {
		if nudge >= 0 && nudge <= 0.5 {
			e.marginNudge = nudge
		}
		if marginMax > 0 {
			e.marginMax = marginMax
		}
	}
}

// WithConfidenceShape sets the saturation constant of the confidence curve.
func WithConfidenceShape(c float64) Option {
	return func(e *Engine) {
		if c > 0 {
			e.confidenceShape = c
		}
	}
}
