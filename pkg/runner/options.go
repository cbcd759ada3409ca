package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the RunStore for persistence.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithHooks configures lifecycle hooks installed on every machine the runner builds.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.Hooks = hooks
	}
}

// WithMaxInputSize overrides the sanitizer size limit.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		r.MaxInputSize = n
	}
}

// WithIDGenerator replaces the run ID source (uuid by default).
func WithIDGenerator(gen func() string) Option {
	return func(r *Runner) {
		r.newID = gen
	}
}

// WithClock replaces the time source used for run timestamps.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		r.now = clock
	}
}
