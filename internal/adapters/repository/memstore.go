package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount        = 8
	defaultPerformanceWindow = 10
)

// shard holds a slice of the player population behind one lock.
type shard struct {
	mu      sync.RWMutex
	players map[string]*model.PlayerRatingState
	perf    map[string][]float64 // newest first, bounded by perfWindow
}

// MemStore is the sharded in-memory Store implementation. Multi-player
// updates acquire every involved shard lock in ascending shard order,
// so overlapping updates serialize without deadlocking.
type MemStore struct {
	shards     []*shard
	shardCount int
	perfWindow int
}

// NewMemStore creates a MemStore.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shardCount: defaultShardCount,
		perfWindow: defaultPerformanceWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			players: make(map[string]*model.PlayerRatingState),
			perf:    make(map[string][]float64),
		}
	}
	metrics.UpdateStoreShardCount(s.shardCount)
	return s
}

func (s *MemStore) shardFor(playerID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// shardIndex returns the shard slot for lock ordering.
func (s *MemStore) shardIndex(playerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(playerID))
	return int(h.Sum32()) % s.shardCount
}

// Put upserts one player's state.
func (s *MemStore) Put(_ context.Context, state model.PlayerRatingState) error {
	if state.PlayerID == "" {
		return fmt.Errorf("%w: empty player id", ErrNotFound)
	}
	sh := s.shardFor(state.PlayerID)
	sh.mu.Lock()
	cp := copyState(state)
	sh.players[state.PlayerID] = &cp
	sh.mu.Unlock()
	metrics.UpdateTotalPlayers(s.Count(context.Background()))
	return nil
}

// Get returns a copy of one player's state.
func (s *MemStore) Get(_ context.Context, playerID string) (model.PlayerRatingState, error) {
	sh := s.shardFor(playerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	st, ok := sh.players[playerID]
	if !ok {
		return model.PlayerRatingState{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return copyState(*st), nil
}

// GetMany returns copies for all ids in input order.
func (s *MemStore) GetMany(ctx context.Context, playerIDs []string) ([]model.PlayerRatingState, error) {
	out := make([]model.PlayerRatingState, 0, len(playerIDs))
	for _, id := range playerIDs {
		st, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Update runs fn over copies of the named players' states under every
// involved shard lock, and persists the mutated copies when fn succeeds.
func (s *MemStore) Update(_ context.Context, playerIDs []string, fn func(states map[string]*model.PlayerRatingState) error) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	locked := s.lockShards(playerIDs)
	defer unlockShards(locked)

	states := make(map[string]*model.PlayerRatingState, len(playerIDs))
	for _, id := range playerIDs {
		st, ok := s.shardFor(id).players[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		cp := copyState(*st)
		states[id] = &cp
	}

	if err := fn(states); err != nil {
		return err
	}

	for id, st := range states {
		cp := copyState(*st)
		s.shardFor(id).players[id] = &cp
	}
	return nil
}

// AppendPerformance records one performance score, newest first.
func (s *MemStore) AppendPerformance(_ context.Context, playerID string, score float64) {
	sh := s.shardFor(playerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	recent := append([]float64{score}, sh.perf[playerID]...)
	if len(recent) > s.perfWindow {
		recent = recent[:s.perfWindow]
	}
	sh.perf[playerID] = recent
}

// RecentPerformance returns up to limit recent scores, newest first.
func (s *MemStore) RecentPerformance(_ context.Context, playerID string, limit int) []float64 {
	sh := s.shardFor(playerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	recent := sh.perf[playerID]
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return append([]float64(nil), recent...)
}

// TopN returns the top-N entries ordered by rating desc, id asc on ties.
func (s *MemStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	entries := s.ranked()
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Rank returns one player's leaderboard row.
func (s *MemStore) Rank(_ context.Context, playerID string) (Entry, error) {
	for _, e := range s.ranked() {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
}

// All returns copies of every stored state, id-ascending.
func (s *MemStore) All(_ context.Context) []model.PlayerRatingState {
	out := make([]model.PlayerRatingState, 0, 64)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, st := range sh.players {
			out = append(out, copyState(*st))
		}
		sh.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Count returns the number of players tracked.
func (s *MemStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.players)
		sh.mu.RUnlock()
	}
	return total
}

// ranked snapshots the population sorted by rating desc, id asc.
func (s *MemStore) ranked() []Entry {
	states := s.All(context.Background())
	sort.Slice(states, func(i, j int) bool {
		if states[i].Rating != states[j].Rating {
			return states[i].Rating > states[j].Rating
		}
		return states[i].PlayerID < states[j].PlayerID
	})
	entries := make([]Entry, len(states))
	for i, st := range states {
		entries[i] = Entry{
			Rank:       i + 1,
			PlayerID:   st.PlayerID,
			Rating:     st.Rating,
			Confidence: st.Confidence,
			GamesRated: st.GamesRated,
		}
	}
	return entries
}

// lockShards write-locks the distinct shards covering the ids, in
// ascending shard order, and returns them for unlock.
func (s *MemStore) lockShards(playerIDs []string) []*shard {
	seen := make(map[int]struct{}, len(playerIDs))
	indices := make([]int, 0, len(playerIDs))
	for _, id := range playerIDs {
		idx := s.shardIndex(id)
		if _, ok := seen[idx]; !ok {
			seen[idx] = struct{}{}
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	locked := make([]*shard, 0, len(indices))
	for _, idx := range indices {
		s.shards[idx].mu.Lock()
		locked = append(locked, s.shards[idx])
	}
	return locked
}

func unlockShards(locked []*shard) {
	for i := len(locked) - 1; i >= 0; i-- {
		locked[i].mu.Unlock()
	}
}

// copyState deep-copies a state so callers never alias stored maps.
func copyState(st model.PlayerRatingState) model.PlayerRatingState {
	if st.RecentStats != nil {
		stats := make(map[model.GameType]model.StatAverages, len(st.RecentStats))
		for k, v := range st.RecentStats {
			stats[k] = v
		}
		st.RecentStats = stats
	}
	return st
}
