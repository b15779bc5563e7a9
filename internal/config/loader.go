package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if PICKUP_CONFIG is set
//  3. env (prefix PICKUP_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PICKUP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: PICKUP_ADDR, PICKUP_K_BASE, ...
	// Map env keys like PICKUP_SHARD_COUNT -> shard_count (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PICKUP_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pickup_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.KBase <= 0 || cfg.Scale <= 0 {
		return nil, errors.New("k_base and scale must be positive")
	}
	if cfg.DecayFloor <= 0 || cfg.DecayFloor >= 1 || cfg.DecayTau <= 0 {
		return nil, errors.New("decay_floor must be in (0,1) and decay_tau positive")
	}
	return &cfg, nil
}
