package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLoad EventType = "load"
	EventStep EventType = "step"
	EventHalt EventType = "halt"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Key       int       `json:"key"`
}

// LoadEvent is emitted after a tape is loaded and snapshot 0 recorded.
type LoadEvent struct {
	EventBase
	Input string `json:"input"`
}

// StepEvent is emitted after each applied transition.
type StepEvent struct {
	EventBase
	Read     Symbol   `json:"read"`
	Action   Action   `json:"action"`
	Snapshot Snapshot `json:"snapshot"`
}

// HaltEvent is emitted once the machine reaches the halted state.
type HaltEvent struct {
	EventBase
	Steps  int    `json:"steps"`
	Output string `json:"output"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the machine's goroutine and must not retain
// the snapshot tape beyond the call unless they copy it.
type LifecycleHooks struct {
	OnLoad func(*LoadEvent)
	OnStep func(*StepEvent)
	OnHalt func(*HaltEvent)
}

// MergeHooks fans each callback out to every non-nil hook in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnLoad != nil {
			prev := merged.OnLoad
			merged.OnLoad = func(e *LoadEvent) {
				if prev != nil {
					prev(e)
				}
				h.OnLoad(e)
			}
		}
		if h.OnStep != nil {
			prev := merged.OnStep
			merged.OnStep = func(e *StepEvent) {
				if prev != nil {
					prev(e)
				}
				h.OnStep(e)
			}
		}
		if h.OnHalt != nil {
			prev := merged.OnHalt
			merged.OnHalt = func(e *HaltEvent) {
				if prev != nil {
					prev(e)
				}
				h.OnHalt(e)
			}
		}
	}
	return merged
}
