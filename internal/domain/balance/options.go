package balance

import "math/rand"

// Option applies a configuration option to the Balancer.
type Option func(*Balancer)

// WithExhaustiveLimit sets the largest roster searched exhaustively.
func WithExhaustiveLimit(limit int) Option {
	return func(b *Balancer) {
		if limit > 0 {
			b.exhaustiveLimit = limit
		}
	}
}

// WithSampleBudget bounds how many random partitions the sampled
// strategy evaluates for large rosters.
func WithSampleBudget(budget int) Option {
	return func(b *Balancer) {
		if budget > 0 {
			b.sampleBudget = budget
		}
	}
}

// WithRand sets the random source for sampled search. Tests use a
// seeded source for reproducibility.
func WithRand(rng *rand.Rand) Option {
	return func(b *Balancer) {
		if rng != nil {
			b.rng = rng
		}
	}
}
