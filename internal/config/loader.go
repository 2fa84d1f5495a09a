package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if VEGANAUT_CONFIG is set
//  3. env (prefix VEGANAUT_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("VEGANAUT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: VEGANAUT_ADDR, VEGANAUT_SHARD_COUNT, ...
	// Map env keys like VEGANAUT_SHARD_COUNT -> shard_count (flat keys).
	envProvider := env.Provider("VEGANAUT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "veganaut_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.DailyDecayPercent <= 0 || cfg.DailyDecayPercent >= 100 {
		return nil, fmt.Errorf("%w: daily_decay_percent must be in (0, 100)", ErrInvalidConfig)
	}
	if cfg.MaxTriggerDepth < 0 {
		return nil, fmt.Errorf("%w: max_trigger_depth must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}
