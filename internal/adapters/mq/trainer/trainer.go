// Package trainer retrains the learned win-probability model in the
// background. It drains completed-game samples off the queue on a fixed
// cadence, refits once enough games accumulate, and swaps the new model
// in atomically. The per-game rating path never waits on it.
package trainer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pickup/internal/adapters/mq/queue"
	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/predict"
	"github.com/okian/pickup/pkg/logger"
	"github.com/okian/pickup/pkg/metrics"
)

// Default trainer configuration constants.
const (
	defaultInterval   = 1 * time.Minute
	defaultMaxHistory = 5000
	shutdownTimeout   = 5 * time.Second
)

// Trainer owns the offline retraining loop.
type Trainer struct {
	queue  queue.Queue
	handle *predict.ModelHandle

	interval   time.Duration
	minSamples int
	maxHistory int

	mu      sync.Mutex
	history []model.TrainingSample

	shutdown chan struct{}
	done     chan struct{}

	log logger.Logger
}

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithInterval sets the retraining cadence.
func WithInterval(interval time.Duration) Option {
	return func(t *Trainer) {
		if interval > 0 {
			t.interval = interval
		}
	}
}

// WithMinSamples sets the completed-game count below which no model is
// trained.
func WithMinSamples(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.minSamples = n
		}
	}
}

// WithMaxHistory bounds the retained training corpus; the oldest games
// age out first.
func WithMaxHistory(n int) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.maxHistory = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(t *Trainer) {
		if log != nil {
			t.log = log
		}
	}
}

// New constructs a Trainer feeding the given model handle.
func New(q queue.Queue, handle *predict.ModelHandle, opts ...Option) *Trainer {
	t := &Trainer{
		queue:      q,
		handle:     handle,
		interval:   defaultInterval,
		minSamples: predict.MinTrainingGames,
		maxHistory: defaultMaxHistory,
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get().Named("trainer")
	}
	return t
}

// Run drives the retraining loop until ctx is canceled or Shutdown is
// called. A final drain-and-train pass runs on the way out.
func (t *Trainer) Run(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.shutdown:
			t.RetrainNow(context.Background())
			return
		case <-ticker.C:
			t.RetrainNow(ctx)
		}
	}
}

// Shutdown stops the loop, waiting up to the shutdown timeout.
func (t *Trainer) Shutdown(ctx context.Context) error {
	close(t.shutdown)
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("trainer shutdown timed out: %w", ctx.Err())
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("trainer shutdown timed out after %s", shutdownTimeout)
	}
}

// RetrainNow drains pending samples into the corpus and refits if the
// corpus clears the minimum. Exposed for tests and admin triggers.
func (t *Trainer) RetrainNow(ctx context.Context) {
	fresh := t.queue.Drain(ctx)

	t.mu.Lock()
	t.history = append(t.history, fresh...)
	if len(t.history) > t.maxHistory {
		t.history = append([]model.TrainingSample(nil), t.history[len(t.history)-t.maxHistory:]...)
	}
	corpus := append([]model.TrainingSample(nil), t.history...)
	t.mu.Unlock()

	if len(fresh) == 0 && t.handle.Load() != nil {
		// Nothing new since the last fit.
		return
	}
	if len(corpus) < t.minSamples {
		return
	}

	start := time.Now()
	m, err := predict.Train(corpus)
	if err != nil {
		metrics.RecordTrainerError()
		t.log.Warn(ctx, "model training failed", logger.Error(err))
		return
	}
	t.handle.Swap(m)
	metrics.RecordTrainerRun(float64(time.Since(start).Milliseconds()))
	t.log.Info(ctx, "learned model retrained",
		logger.Int("samples", m.Samples),
		logger.Float64("durationMs", float64(time.Since(start).Milliseconds())),
	)
}

// CorpusSize returns the number of retained training samples.
func (t *Trainer) CorpusSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history)
}
