// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ShardCount configures the number of shards in the rating store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DedupeSize bounds the rated-outcome idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// PerformanceWindow is how many recent performance scores are kept
	// per player for sandbagging detection.
	PerformanceWindow int `koanf:"performance_window"`

	// Rating engine calibration.
	KBase           float64            `koanf:"k_base"`
	Scale           float64            `koanf:"scale"`
	DecayFloor      float64            `koanf:"decay_floor"`
	DecayTau        float64            `koanf:"decay_tau"`
	MarginNudge     float64            `koanf:"margin_nudge"`
	MarginMax       float64            `koanf:"margin_max"`
	ConfidenceShape float64            `koanf:"confidence_shape"`
	TypeWeights     map[string]float64 `koanf:"type_weights"`

	// Balancer search bounds.
	ExhaustiveLimit int `koanf:"exhaustive_limit"`
	SampleBudget    int `koanf:"sample_budget"`

	// SkillTolerance gates similarity/complementary candidates.
	SkillTolerance float64 `koanf:"skill_tolerance"`

	// Trainer settings.
	TrainIntervalSec   int `koanf:"train_interval_sec"`
	MinTrainingGames   int `koanf:"min_training_games"`
	TrainingQueueSize  int `koanf:"training_queue_size"`
	MaxTrainingHistory int `koanf:"max_training_history"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use and
// currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		ShardCount:          8,
		MaxLeaderboardLimit: 100,
		DedupeSize:          50_000,
		PerformanceWindow:   10,
		KBase:               2.0,
		Scale:               4.0,
		DecayFloor:          0.05,
		DecayTau:            7.0,
		MarginNudge:         0.1,
		MarginMax:           15.0,
		ConfidenceShape:     6.0,
		TypeWeights: map[string]float64{
			"1v1": 1.2,
			"5v5": 1.0,
			"3v3": 0.85,
			"2v2": 0.7,
		},
		ExhaustiveLimit:    10,
		SampleBudget:       500,
		SkillTolerance:     1.5,
		TrainIntervalSec:   60,
		MinTrainingGames:   20,
		TrainingQueueSize:  10_000,
		MaxTrainingHistory: 5_000,
	}
}
