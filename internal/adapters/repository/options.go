package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithShardCount sets the number of shards in the store.
func WithShardCount(count int) Option {
	return func(s *MemStore) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithPerformanceWindow sets how many recent performance scores are
// retained per player.
func WithPerformanceWindow(window int) Option {
	return func(s *MemStore) {
		if window > 0 {
			s.perfWindow = window
		}
	}
}
