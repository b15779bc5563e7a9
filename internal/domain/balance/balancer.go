// Package balance partitions a full roster into two sides whose
// predicted win probability sits as close to even as possible.
// Exhaustive search for small rosters, bounded random sampling above
// that, and a deterministic snake-draft greedy floor when estimation is
// unavailable.
package balance

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/predict"
	"github.com/okian/pickup/pkg/metrics"
)

// Strategy labels recorded on the returned assignment.
const (
	StrategyExhaustive = "exhaustive"
	StrategySampled    = "sampled"
	StrategyGreedy     = "greedy"
)

// Default search bounds. Ten players (5v5) is 126 distinct partitions
// with the mirror dedup, well inside exhaustive reach.
const (
	defaultExhaustiveLimit = 10
	defaultSampleBudget    = 500
)

// Balancer searches balanced partitions against an estimator.
type Balancer struct {
	estimator predict.Estimator

	exhaustiveLimit int
	sampleBudget    int
	rng             *rand.Rand
}

// New constructs a Balancer over the given estimator.
func New(estimator predict.Estimator, opts ...Option) *Balancer {
	b := &Balancer{
		estimator:       estimator,
		exhaustiveLimit: defaultExhaustiveLimit,
		sampleBudget:    defaultSampleBudget,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // partition sampling, not crypto
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Assign splits a full roster into two equal sides minimizing
// |P(A wins) - 0.5|. The roster must hold exactly twice the per-side
// count for the game type. The returned assignment is computed once and
// carries the win probability measured at assignment time.
func (b *Balancer) Assign(ctx context.Context, roster []model.PlayerRatingState, gameType model.GameType) (model.TeamAssignment, error) {
	sideSize := gameType.SideSize()
	if sideSize == 0 {
		return model.TeamAssignment{}, fmt.Errorf("%w: unknown game type %q", ErrInvalidRoster, gameType)
	}
	if len(roster) != 2*sideSize {
		return model.TeamAssignment{}, fmt.Errorf("%w: %s needs %d players, roster has %d", ErrRosterIncomplete, gameType, 2*sideSize, len(roster))
	}
	seen := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		if _, dup := seen[p.PlayerID]; dup {
			return model.TeamAssignment{}, fmt.Errorf("%w: duplicate player %s", ErrInvalidRoster, p.PlayerID)
		}
		seen[p.PlayerID] = struct{}{}
	}

	// Stable id order makes the whole search deterministic for a frozen
	// roster and set of ratings.
	sorted := make([]model.PlayerRatingState, len(roster))
	copy(sorted, roster)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PlayerID < sorted[j].PlayerID })

	var (
		sideA    []model.PlayerRatingState
		winProb  float64
		strategy string
	)
	if len(sorted) <= b.exhaustiveLimit {
		sideA, winProb = b.exhaustive(ctx, sorted, sideSize)
		strategy = StrategyExhaustive
	} else {
		sideA, winProb = b.sampled(ctx, sorted, sideSize)
		strategy = StrategySampled
	}
	if sideA == nil {
		sideA = b.greedy(sorted)
		winProb = b.probability(ctx, sideA, complement(sorted, sideA))
		strategy = StrategyGreedy
	}
	metrics.RecordAssignment(strategy)

	sideB := complement(sorted, sideA)
	return model.TeamAssignment{
		AssignmentID:    uuid.New().String(),
		GameType:        gameType,
		SideA:           ids(sideA),
		SideB:           ids(sideB),
		WinProbabilityA: winProb,
		Strategy:        strategy,
	}, nil
}

// exhaustive enumerates every distinct partition. The lowest id is
// pinned to side A, which halves the space by deduplicating mirror
// splits; only |P - 0.5| matters for selection. Combinations are
// generated in lexicographic order and improvements are strict, so the
// winner is the lexicographically smallest best side-A id set.
func (b *Balancer) exhaustive(ctx context.Context, sorted []model.PlayerRatingState, sideSize int) ([]model.PlayerRatingState, float64) {
	var (
		bestA         []model.PlayerRatingState
		bestProb      float64
		bestImbalance = math.Inf(1)
		evaluated     int
	)

	indices := make([]int, sideSize)
	// roster[0] always sits in slot 0 of side A.
	combinations(len(sorted)-1, sideSize-1, func(rest []int) {
		indices[0] = 0
		for i, r := range rest {
			indices[i+1] = r + 1
		}
		sideA := pick(sorted, indices)
		p := b.probability(ctx, sideA, complementByIndex(sorted, indices))
		evaluated++
		if imbalance := math.Abs(p - 0.5); imbalance < bestImbalance {
			bestImbalance = imbalance
			bestProb = p
			bestA = sideA
		}
	})
	metrics.ObservePartitionsEvaluated(evaluated)
	return bestA, bestProb
}

// sampled draws bounded random balanced partitions, keeps the best, and
// keeps the greedy split as the floor candidate so sampling can never do
// worse than the draft heuristic.
func (b *Balancer) sampled(ctx context.Context, sorted []model.PlayerRatingState, sideSize int) ([]model.PlayerRatingState, float64) {
	bestA := b.greedy(sorted)
	bestProb := b.probability(ctx, bestA, complement(sorted, bestA))
	bestImbalance := math.Abs(bestProb - 0.5)

	order := make([]int, len(sorted))
	for i := range order {
		order[i] = i
	}
	for i := 0; i < b.sampleBudget; i++ {
		b.rng.Shuffle(len(order), func(x, y int) { order[x], order[y] = order[y], order[x] })
		indices := append([]int(nil), order[:sideSize]...)
		sort.Ints(indices)
		sideA := pick(sorted, indices)
		p := b.probability(ctx, sideA, complementByIndex(sorted, indices))
		if imbalance := math.Abs(p - 0.5); imbalance < bestImbalance {
			bestImbalance = imbalance
			bestProb = p
			bestA = sideA
		}
	}
	metrics.ObservePartitionsEvaluated(b.sampleBudget + 1)
	return bestA, bestProb
}

// greedy is the classic snake-draft heuristic: sort by rating
// descending and deal picks A,B,B,A,A,B,B,... so both sides interleave
// high and low rated players. Deterministic; the fallback whenever
// estimation is unavailable.
func (b *Balancer) greedy(roster []model.PlayerRatingState) []model.PlayerRatingState {
	byRating := make([]model.PlayerRatingState, len(roster))
	copy(byRating, roster)
	sort.Slice(byRating, func(i, j int) bool {
		if byRating[i].Rating != byRating[j].Rating {
			return byRating[i].Rating > byRating[j].Rating
		}
		return byRating[i].PlayerID < byRating[j].PlayerID
	})

	sideA := make([]model.PlayerRatingState, 0, len(roster)/2)
	for i, p := range byRating {
		if i%4 == 0 || i%4 == 3 {
			sideA = append(sideA, p)
		}
	}
	return sideA
}

// probability asks the estimator, treating failure as a dead-even split
// so the search can continue; estimators already degrade internally.
func (b *Balancer) probability(ctx context.Context, sideA, sideB []model.PlayerRatingState) float64 {
	p, err := b.estimator.Predict(ctx, sideA, sideB)
	if err != nil {
		return 0.5
	}
	return p
}

// combinations invokes fn with each k-subset of [0,n) in lexicographic
// order. fn must not retain the slice.
func combinations(n, k int, fn func([]int)) {
	if k == 0 {
		fn(nil)
		return
	}
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		fn(indices)
		i := k - 1
		for i >= 0 && indices[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

func pick(roster []model.PlayerRatingState, indices []int) []model.PlayerRatingState {
	out := make([]model.PlayerRatingState, len(indices))
	for i, idx := range indices {
		out[i] = roster[idx]
	}
	return out
}

func complementByIndex(roster []model.PlayerRatingState, indices []int) []model.PlayerRatingState {
	inA := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		inA[idx] = struct{}{}
	}
	out := make([]model.PlayerRatingState, 0, len(roster)-len(indices))
	for i, p := range roster {
		if _, ok := inA[i]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func complement(roster, sideA []model.PlayerRatingState) []model.PlayerRatingState {
	inA := make(map[string]struct{}, len(sideA))
	for _, p := range sideA {
		inA[p.PlayerID] = struct{}{}
	}
	out := make([]model.PlayerRatingState, 0, len(roster)-len(sideA))
	for _, p := range roster {
		if _, ok := inA[p.PlayerID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func ids(side []model.PlayerRatingState) []string {
	out := make([]string, len(side))
	for i, p := range side {
		out[i] = p.PlayerID
	}
	sort.Strings(out)
	return out
}
