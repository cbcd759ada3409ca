package observability

import (
	"log/slog"

	"github.com/aretw0/caesartm/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(e *domain.LoadEvent) {
			logger.Debug("tape_load", "key", e.Key, "input", e.Input)
		},
		OnStep: func(e *domain.StepEvent) {
			logger.Debug("transition",
				"key", e.Key,
				"step", e.Snapshot.Step,
				"read", e.Read.String(),
				"write", e.Action.Write.String(),
				"move", e.Action.Move.String(),
				"state", e.Action.Next,
				"tape", e.Snapshot.TapeString(),
			)
		},
		OnHalt: func(e *domain.HaltEvent) {
			logger.Debug("halt", "key", e.Key, "steps", e.Steps, "output", e.Output)
		},
	}
}
