package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/pickup/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
				convey.So(cfg.KBase, convey.ShouldEqual, 2.0)
				convey.So(cfg.SkillTolerance, convey.ShouldEqual, 1.5)
				convey.So(cfg.TrainIntervalSec, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PICKUP_ADDR", ":8080")
			_ = os.Setenv("PICKUP_SHARD_COUNT", "16")
			_ = os.Setenv("PICKUP_K_BASE", "3.5")
			_ = os.Setenv("PICKUP_MIN_TRAINING_GAMES", "50")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 16)
				convey.So(cfg.KBase, convey.ShouldEqual, 3.5)
				convey.So(cfg.MinTrainingGames, convey.ShouldEqual, 50)
				convey.So(cfg.Scale, convey.ShouldEqual, 4.0) // untouched default
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
shard_count: 32
k_base: 1.5
skill_tolerance: 2.0
train_interval_sec: 120
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PICKUP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 32)
				convey.So(cfg.KBase, convey.ShouldEqual, 1.5)
				convey.So(cfg.SkillTolerance, convey.ShouldEqual, 2.0)
				convey.So(cfg.TrainIntervalSec, convey.ShouldEqual, 120)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
shard_count: 32
dedupe_size: 1000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PICKUP_CONFIG", tmpFile)
			_ = os.Setenv("PICKUP_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")    // Overridden by env
				convey.So(cfg.ShardCount, convey.ShouldEqual, 32)   // From file
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 1000) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PICKUP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PICKUP_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PICKUP_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-positive rating calibration", func() {
			_ = os.Setenv("PICKUP_K_BASE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "k_base and scale must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with decay floor out of range", func() {
			_ = os.Setenv("PICKUP_DECAY_FLOOR", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "decay_floor")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
performance_window: 20
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PICKUP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")           // From file
				convey.So(cfg.PerformanceWindow, convey.ShouldEqual, 20)   // From file
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)           // From defaults
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)      // From defaults
				convey.So(cfg.TypeWeights["1v1"], convey.ShouldEqual, 1.2) // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PICKUP_SHARD_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PICKUP_CONFIG",
		"PICKUP_ADDR",
		"PICKUP_LOG_LEVEL",
		"PICKUP_SHARD_COUNT",
		"PICKUP_DEDUPE_SIZE",
		"PICKUP_K_BASE",
		"PICKUP_SCALE",
		"PICKUP_DECAY_FLOOR",
		"PICKUP_MIN_TRAINING_GAMES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pickup-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
