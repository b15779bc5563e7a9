package predict

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/pkg/logger"
	"github.com/okian/pickup/pkg/metrics"
)

// Training configuration.
const (
	// MinTrainingGames gates the learned estimator: below this many
	// completed games the baseline serves alone.
	MinTrainingGames = 20

	trainEpochs       = 400
	trainLearningRate = 0.1
	trainL2           = 0.01

	// learnedBlend keeps a baseline floor under the learned output so a
	// badly fit model cannot fully invert an obvious mismatch.
	learnedBlend = 0.7
)

// Model is an immutable trained logistic-regression artifact over the
// antisymmetric feature vector. The zero bias is deliberate: with
// f(B,A) = -f(A,B), sigmoid(w·f) then satisfies the symmetry invariant
// exactly.
type Model struct {
	Weights   []float64
	Samples   int
	TrainedAt time.Time
}

// score returns sigmoid(w·f).
func (m *Model) score(features []float64) float64 {
	logit := 0.0
	for i, w := range m.Weights {
		logit += w * features[i]
	}
	return 1.0 / (1.0 + math.Exp(-logit))
}

// Train fits a Model on completed-game samples by batch gradient
// descent. It fails with ErrInsufficientData below MinTrainingGames.
// The skill-difference weight is floored at zero after fitting so that
// monotonicity in rating difference survives a noisy training set.
func Train(samples []model.TrainingSample) (*Model, error) {
	if len(samples) < MinTrainingGames {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(samples), MinTrainingGames)
	}
	for _, s := range samples {
		if len(s.Features) != FeatureCount {
			return nil, fmt.Errorf("%w: sample %s has %d features", ErrInsufficientData, s.OutcomeID, len(s.Features))
		}
	}

	weights := make([]float64, FeatureCount)
	n := float64(len(samples))

	for epoch := 0; epoch < trainEpochs; epoch++ {
		grad := make([]float64, FeatureCount)
		for _, s := range samples {
			logit := 0.0
			for i, w := range weights {
				logit += w * s.Features[i]
			}
			p := 1.0 / (1.0 + math.Exp(-logit))
			label := 0.0
			if s.SideAWon {
				label = 1.0
			}
			for i, f := range s.Features {
				grad[i] += (p - label) * f
			}
		}
		for i := range weights {
			weights[i] -= trainLearningRate * (grad[i]/n + trainL2*weights[i])
		}
	}

	if weights[featSkillDiff] < 0 {
		weights[featSkillDiff] = 0
	}

	return &Model{
		Weights:   weights,
		Samples:   len(samples),
		TrainedAt: time.Now().UTC(),
	}, nil
}

// ModelHandle is the atomically swappable holder for the current trained
// model. The trainer swaps in new artifacts; prediction paths load
// whatever is current without blocking.
type ModelHandle struct {
	current atomic.Pointer[Model]
}

// NewModelHandle returns an empty handle; Load is nil until a swap.
func NewModelHandle() *ModelHandle {
	return &ModelHandle{}
}

// Load returns the current model, or nil if none has been trained.
func (h *ModelHandle) Load() *Model {
	return h.current.Load()
}

// Swap installs a newly trained model. nil is ignored.
func (h *ModelHandle) Swap(m *Model) {
	if m != nil {
		h.current.Store(m)
	}
}

// Learned is the model-backed estimator. Every degradation path falls
// back to the baseline silently: a prediction is always returned for a
// valid roster.
type Learned struct {
	handle   *ModelHandle
	baseline *Baseline
	log      logger.Logger
}

// NewLearned wires the learned estimator over a model handle with a
// baseline fallback.
func NewLearned(handle *ModelHandle, baseline *Baseline, log logger.Logger) *Learned {
	return &Learned{
		handle:   handle,
		baseline: baseline,
		log:      log,
	}
}

// Predict blends the trained model with the baseline. Model absent or
// features unavailable, the baseline answer stands alone.
func (l *Learned) Predict(ctx context.Context, sideA, sideB []model.PlayerRatingState) (float64, error) {
	base, err := l.baseline.Predict(ctx, sideA, sideB)
	if err != nil {
		return 0, err
	}

	m := l.handle.Load()
	if m == nil {
		metrics.RecordPredictionFallback("model_unavailable")
		return base, nil
	}

	features, err := ExtractFeatures(sideA, sideB)
	if err != nil {
		metrics.RecordPredictionFallback("feature_extraction")
		if l.log != nil {
			l.log.Debug(ctx, "falling back to baseline estimator", logger.Error(err))
		}
		return base, nil
	}

	return clip(learnedBlend*m.score(features) + (1-learnedBlend)*base), nil
}
