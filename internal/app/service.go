// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pickup/internal/adapters/mq/queue"
	"github.com/okian/pickup/internal/adapters/mq/trainer"
	"github.com/okian/pickup/internal/adapters/repository"
	"github.com/okian/pickup/internal/config"
	"github.com/okian/pickup/internal/domain/balance"
	"github.com/okian/pickup/internal/domain/dedupe"
	"github.com/okian/pickup/internal/domain/match"
	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/internal/domain/predict"
	"github.com/okian/pickup/internal/domain/rating"
	"github.com/okian/pickup/pkg/logger"
	"github.com/okian/pickup/pkg/metrics"
)

// Service wires the rating engine, store, predictors, balancer and
// trainer behind one facade.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	deduper     dedupe.Deduper
	engine      *rating.Engine
	baseline    *predict.Baseline
	estimator   predict.Estimator
	modelHandle *predict.ModelHandle
	balancer    *balance.Balancer
	matcher     *match.Matcher
	sampleQueue queue.Queue
	trainer     *trainer.Trainer

	// Configuration
	cfg *config.Config

	// State
	started       bool
	cancelTrainer context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the full service configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.New(context.Background()),
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matchmaking service...")

	typeWeights, err := parseTypeWeights(s.cfg.TypeWeights)
	if err != nil {
		return err
	}

	// Initialize components
	s.store = repository.NewMemStore(
		repository.WithShardCount(s.cfg.ShardCount),
		repository.WithPerformanceWindow(s.cfg.PerformanceWindow),
	)
	metrics.UpdateStoreShardCount(s.cfg.ShardCount)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.cfg.DedupeSize),
	)
	s.engine = rating.NewEngine(
		rating.WithKBase(s.cfg.KBase),
		rating.WithScale(s.cfg.Scale),
		rating.WithDecay(s.cfg.DecayFloor, s.cfg.DecayTau),
		rating.WithMarginNudge(s.cfg.MarginNudge, s.cfg.MarginMax),
		rating.WithConfidenceShape(s.cfg.ConfidenceShape),
		rating.WithTypeWeights(typeWeights),
	)
	s.modelHandle = predict.NewModelHandle()
	s.baseline = predict.NewBaseline(
		predict.WithBaselineScale(s.cfg.Scale),
		predict.WithAuxiliaryFeatures(true),
	)
	s.estimator = predict.NewLearned(s.modelHandle, s.baseline, s.logger.Named("predict"))
	s.balancer = balance.New(s.estimator,
		balance.WithExhaustiveLimit(s.cfg.ExhaustiveLimit),
		balance.WithSampleBudget(s.cfg.SampleBudget),
	)
	s.matcher = match.New(
		match.WithSkillTolerance(s.cfg.SkillTolerance),
	)
	s.sampleQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.cfg.TrainingQueueSize),
	)
	s.trainer = trainer.New(s.sampleQueue, s.modelHandle,
		trainer.WithInterval(time.Duration(s.cfg.TrainIntervalSec)*time.Second),
		trainer.WithMinSamples(s.cfg.MinTrainingGames),
		trainer.WithMaxHistory(s.cfg.MaxTrainingHistory),
		trainer.WithLogger(s.logger.Named("trainer")),
	)

	trainerCtx, cancel := context.WithCancel(context.Background())
	s.cancelTrainer = cancel
	go s.trainer.Run(trainerCtx)

	s.started = true
	s.logger.Info(ctx, "matchmaking service started",
		logger.Int("shards", s.cfg.ShardCount),
		logger.Int("dedupeSize", s.cfg.DedupeSize),
		logger.Int("trainIntervalSec", s.cfg.TrainIntervalSec),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matchmaking service...")

	if s.trainer != nil {
		if err := s.trainer.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "trainer shutdown", logger.Error(err))
		}
	}
	if s.cancelTrainer != nil {
		s.cancelTrainer()
	}
	if s.sampleQueue != nil {
		_ = s.sampleQueue.Close()
	}

	s.started = false
	s.logger.Info(ctx, "matchmaking service stopped")
}

// RegisterPlayer upserts a player profile. A zero rating is replaced
// with the league default; self-reported skill never moves an existing
// rating.
func (s *Service) RegisterPlayer(ctx context.Context, state model.PlayerRatingState) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}
	if state.PlayerID == "" {
		return fmt.Errorf("%w: missing player id", repository.ErrNotFound)
	}
	if state.Rating == 0 {
		state.Rating = model.DefaultRating
	}
	if state.Rating < model.MinRating {
		state.Rating = model.MinRating
	}
	if state.Rating > model.MaxRating {
		state.Rating = model.MaxRating
	}

	if existing, err := s.store.Get(ctx, state.PlayerID); err == nil {
		// Re-registration updates the profile, never the earned state.
		state.Rating = existing.Rating
		state.Confidence = existing.Confidence
		state.GamesRated = existing.GamesRated
		state.Wins = existing.Wins
		state.Losses = existing.Losses
		state.RecentStats = existing.RecentStats
	}

	if err := s.store.Put(ctx, state); err != nil {
		return err
	}
	metrics.UpdateTotalPlayers(s.store.Count(ctx))
	return nil
}

// GetPlayer returns a copy of one player's state.
func (s *Service) GetPlayer(ctx context.Context, playerID string) (model.PlayerRatingState, error) {
	if err := s.ensureStarted(); err != nil {
		return model.PlayerRatingState{}, err
	}
	return s.store.Get(ctx, playerID)
}

// RateGame applies one completed game to every participant's rating
// under the store's locks. Replays of an already-rated outcome id
// return ErrDuplicateOutcome without touching any rating.
func (s *Service) RateGame(ctx context.Context, outcome model.GameOutcome) (map[string]model.RatingDelta, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	if s.deduper.SeenAndRecord(ctx, outcome.OutcomeID) {
		metrics.RecordOutcomeDuplicate()
		s.logger.Debug(ctx, "duplicate outcome skipped",
			logger.String("outcomeID", outcome.OutcomeID),
		)
		return nil, ErrDuplicateOutcome
	}

	ids := make([]string, 0, len(outcome.SideA)+len(outcome.SideB))
	ids = append(ids, outcome.SideA...)
	ids = append(ids, outcome.SideB...)

	// Pre-game snapshot; training features and performance context must
	// not see post-game ratings.
	pre, preErr := s.store.GetMany(ctx, ids)

	// Sandbagging detection needs the rolling performance windows, and
	// the engine runs inside the store's write locks, so the windows are
	// snapshotted here while no locks are held.
	recentPerf := make(map[string][]float64, len(ids))
	for _, id := range ids {
		if scores := s.store.RecentPerformance(ctx, id, 5); len(scores) > 0 {
			recentPerf[id] = scores
		}
	}

	var deltas map[string]model.RatingDelta
	err := s.store.Update(ctx, ids, func(states map[string]*model.PlayerRatingState) error {
		d, uerr := s.engine.Update(ctx, outcome, states, recentPerf)
		if uerr != nil {
			return uerr
		}
		deltas = d
		foldBoxScores(outcome, states)
		return nil
	})
	if err != nil {
		// The outcome was not applied; allow a corrected resubmission.
		s.deduper.Unrecord(ctx, outcome.OutcomeID)
		metrics.RecordOutcomeRejected()
		return nil, err
	}

	metrics.RecordRatingUpdates(len(deltas))
	for _, d := range deltas {
		metrics.ObserveRatingDelta(d.NewRating - d.OldRating)
	}

	if preErr == nil {
		s.recordPerformances(ctx, outcome, pre)
		s.enqueueTrainingSample(ctx, outcome, pre)
	}

	return deltas, nil
}

// Predict returns the win probability for side A plus derived lines.
func (s *Service) Predict(ctx context.Context, sideA, sideB []string) (float64, predict.Lines, error) {
	if err := s.ensureStarted(); err != nil {
		return 0, predict.Lines{}, err
	}

	statesA, err := s.store.GetMany(ctx, sideA)
	if err != nil {
		return 0, predict.Lines{}, err
	}
	statesB, err := s.store.GetMany(ctx, sideB)
	if err != nil {
		return 0, predict.Lines{}, err
	}

	p, err := s.estimator.Predict(ctx, statesA, statesB)
	if err != nil {
		return 0, predict.Lines{}, err
	}
	metrics.RecordPrediction()
	return p, predict.ToLines(p), nil
}

// AssignTeams splits a full roster into two sides as close to a coin
// flip as the estimator can make them.
func (s *Service) AssignTeams(ctx context.Context, roster []string, gameType model.GameType) (model.TeamAssignment, error) {
	if err := s.ensureStarted(); err != nil {
		return model.TeamAssignment{}, err
	}

	states, err := s.store.GetMany(ctx, roster)
	if err != nil {
		return model.TeamAssignment{}, err
	}
	return s.balancer.Assign(ctx, states, gameType)
}

// FindMatches returns up to limit candidates for a player, ranked by
// the requested discovery mode.
func (s *Service) FindMatches(ctx context.Context, playerID string, mode match.Mode, limit int) ([]match.Match, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	target, err := s.store.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matcher.Find(ctx, target, s.store.All(ctx), mode)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}
	return s.store.TopN(ctx, n)
}

// Rank returns the rank and rating for a given player id.
func (s *Service) Rank(ctx context.Context, playerID string) (repository.Entry, error) {
	if err := s.ensureStarted(); err != nil {
		return repository.Entry{}, err
	}
	return s.store.Rank(ctx, playerID)
}

// RetrainNow forces an immediate drain-and-train pass.
func (s *Service) RetrainNow(ctx context.Context) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}
	s.trainer.RetrainNow(ctx)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"shardCount": s.cfg.ShardCount,
		"dedupeSize": s.cfg.DedupeSize,
	}

	if s.started {
		totalPlayers := s.store.Count(ctx)
		queueLen := s.sampleQueue.Len(ctx)

		stats["totalPlayers"] = totalPlayers
		stats["trainingQueueLength"] = queueLen
		stats["trainingCorpusSize"] = s.trainer.CorpusSize()
		stats["modelTrained"] = s.modelHandle.Load() != nil

		// Update metrics
		metrics.UpdateTotalPlayers(totalPlayers)
		metrics.UpdateTrainingQueueSize(queueLen)
	}

	return stats
}

// MaxLeaderboardLimit exposes the configured leaderboard cap.
func (s *Service) MaxLeaderboardLimit() int {
	return s.cfg.MaxLeaderboardLimit
}

func (s *Service) ensureStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// recordPerformances scores each submitted box line against pre-game
// opponent strength and appends it to that player's rolling window.
func (s *Service) recordPerformances(ctx context.Context, outcome model.GameOutcome, pre []model.PlayerRatingState) {
	if len(outcome.Stats) == 0 {
		return
	}

	byID := make(map[string]model.PlayerRatingState, len(pre))
	for _, st := range pre {
		byID[st.PlayerID] = st
	}
	meanA := sideMean(outcome.SideA, byID)
	meanB := sideMean(outcome.SideB, byID)

	sideAWon := outcome.SideAWon()
	for _, id := range outcome.SideA {
		if line, ok := outcome.Stats[id]; ok {
			score := rating.PerformanceScore(line, outcome.GameType, sideAWon, meanB, byID[id].Position)
			s.store.AppendPerformance(ctx, id, score)
		}
	}
	for _, id := range outcome.SideB {
		if line, ok := outcome.Stats[id]; ok {
			score := rating.PerformanceScore(line, outcome.GameType, !sideAWon, meanA, byID[id].Position)
			s.store.AppendPerformance(ctx, id, score)
		}
	}
}

// enqueueTrainingSample extracts pre-game features for the learned
// model. Rosters missing physicals or stats are silently skipped.
func (s *Service) enqueueTrainingSample(ctx context.Context, outcome model.GameOutcome, pre []model.PlayerRatingState) {
	statesA := pre[:len(outcome.SideA)]
	statesB := pre[len(outcome.SideA):]

	features, err := predict.ExtractFeatures(statesA, statesB)
	if err != nil {
		return
	}
	s.sampleQueue.Enqueue(ctx, queue.Sample{
		OutcomeID: outcome.OutcomeID,
		Features:  features,
		SideAWon:  outcome.SideAWon(),
	})
}

// foldBoxScores merges submitted box lines into each player's rolling
// per-type averages. Runs inside the store's update callback.
func foldBoxScores(outcome model.GameOutcome, states map[string]*model.PlayerRatingState) {
	for id, line := range outcome.Stats {
		st, ok := states[id]
		if !ok {
			continue
		}
		if st.RecentStats == nil {
			st.RecentStats = make(map[model.GameType]model.StatAverages)
		}
		avg := st.RecentStats[outcome.GameType]
		n := float64(avg.Games)
		avg.Points = (avg.Points*n + float64(line.Points)) / (n + 1)
		avg.Rebounds = (avg.Rebounds*n + float64(line.Rebounds)) / (n + 1)
		avg.Assists = (avg.Assists*n + float64(line.Assists)) / (n + 1)
		avg.Steals = (avg.Steals*n + float64(line.Steals)) / (n + 1)
		avg.Blocks = (avg.Blocks*n + float64(line.Blocks)) / (n + 1)
		avg.Turnovers = (avg.Turnovers*n + float64(line.Turnovers)) / (n + 1)
		if line.FGAttempted > 0 {
			pct := float64(line.FGMade) / float64(line.FGAttempted)
			avg.FieldGoalPct = (avg.FieldGoalPct*n + pct) / (n + 1)
		}
		avg.Games++
		st.RecentStats[outcome.GameType] = avg
	}
}

func sideMean(side []string, byID map[string]model.PlayerRatingState) float64 {
	if len(side) == 0 {
		return model.DefaultRating
	}
	var sum float64
	for _, id := range side {
		sum += byID[id].Rating
	}
	return sum / float64(len(side))
}

func parseTypeWeights(raw map[string]float64) (map[model.GameType]float64, error) {
	weights := make(map[model.GameType]float64, len(raw))
	for k, v := range raw {
		gt := model.GameType(k)
		if !gt.Valid() {
			return nil, fmt.Errorf("%w: unknown game type %q", config.ErrInvalidConfig, k)
		}
		weights[gt] = v
	}
	return weights, nil
}
