// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment overrides in Load.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DailyDecayPercent is the share of points lost per 24h, e.g. 10.
	DailyDecayPercent float64 `koanf:"daily_decay_percent"`

	// MaxTriggerDepth bounds derived-task cascades per submission.
	MaxTriggerDepth int `koanf:"max_trigger_depth"`

	// RetryQueueSize bounds the deferred score-update queue.
	RetryQueueSize int `koanf:"retry_queue_size"`

	// ReconcilerCount sets the number of reconciler workers.
	ReconcilerCount int `koanf:"reconciler_count"`

	// DedupeSize bounds the request-id idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the entity store.
	ShardCount int `koanf:"shard_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DailyDecayPercent: 10,
		MaxTriggerDepth:   1,
		RetryQueueSize:    10_000,
		ReconcilerCount:   2,
		DedupeSize:        50_000,
		ShardCount:        8,
	}
}
