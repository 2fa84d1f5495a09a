package worker

import "github.com/veganaut/veganaut-backend/pkg/logger"

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithName sets the reconciler name used in logs.
func WithName(name string) Option {
	return func(r *Reconciler) {
		if name != "" {
			r.name = name
			r.logger = r.logger.Named(name)
		}
	}
}

// WithMaxAttempts bounds how often one update is retried before it is
// dropped.
func WithMaxAttempts(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}
