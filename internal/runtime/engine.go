package runtime

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/caesartm/internal/logging"
	"github.com/aretw0/caesartm/pkg/domain"
)

// Machine is the single-tape Turing machine runner.
// A Machine is not safe for concurrent use; build one per goroutine.
type Machine struct {
	table   domain.TransitionTable
	tape    []domain.Symbol
	head    int
	state   domain.StateID
	history []domain.Snapshot

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	clock  func() time.Time
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) MachineOption {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets the structured logger. Steps are logged at debug level.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(clock func() time.Time) MachineOption {
	return func(m *Machine) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMachine builds the transition table for key and returns a machine in the
// processing state with an empty tape. Call Load before Run.
func NewMachine(key int, opts ...MachineOption) *Machine {
	m := &Machine{
		table:  domain.BuildTable(key),
		state:  domain.StateProcessing,
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load replaces the tape with text followed by one blank, rewinds the head,
// resets the state and history, and records snapshot 0.
// text must already be restricted to A–Z.
func (m *Machine) Load(text string) {
	m.tape = append([]domain.Symbol(text), domain.Blank)
	m.head = 0
	m.state = domain.StateProcessing
	m.history = nil
	m.record()

	m.logger.Debug("Tape loaded", "key", m.table.Key(), "length", len(text))
	if m.hooks.OnLoad != nil {
		m.hooks.OnLoad(&domain.LoadEvent{
			EventBase: m.event(domain.EventLoad),
			Input:     text,
		})
	}
}

// Step applies exactly one transition.
// It fails with a *domain.TransitionError when δ(state, symbol) is undefined,
// which includes any attempt to step a halted machine.
func (m *Machine) Step() error {
	if m.head < 0 || m.head >= len(m.tape) {
		return fmt.Errorf("%w: head=%d tape=%d", domain.ErrHeadOutOfRange, m.head, len(m.tape))
	}

	read := m.tape[m.head]
	act, ok := m.table.Lookup(m.state, read)
	if !ok {
		return &domain.TransitionError{State: m.state, Symbol: read, Step: len(m.history)}
	}

	m.tape[m.head] = act.Write
	m.state = act.Next
	m.head += act.Move.Delta()
	snap := m.record()

	m.logger.Debug("Transition applied",
		"step", snap.Step,
		"read", read.String(),
		"write", act.Write.String(),
		"move", act.Move.String(),
		"state", act.Next,
		"head", m.head,
	)
	if m.hooks.OnStep != nil {
		m.hooks.OnStep(&domain.StepEvent{
			EventBase: m.event(domain.EventStep),
			Read:      read,
			Action:    act,
			Snapshot:  snap.Clone(),
		})
	}
	return nil
}

// Run steps the machine until it halts and returns the tape without blanks.
// No partial result is returned on failure.
func (m *Machine) Run() (string, error) {
	for m.state != domain.StateHalted {
		if err := m.Step(); err != nil {
			m.logger.Error("Machine stopped", "key", m.table.Key(), "err", err)
			return "", err
		}
	}

	out := m.Output()
	m.logger.Debug("Machine halted", "key", m.table.Key(), "steps", len(m.history)-1)
	if m.hooks.OnHalt != nil {
		m.hooks.OnHalt(&domain.HaltEvent{
			EventBase: m.event(domain.EventHalt),
			Steps:     len(m.history) - 1,
			Output:    out,
		})
	}
	return out, nil
}

// Output returns the current tape with blank markers removed.
func (m *Machine) Output() string {
	return strings.ReplaceAll(domain.TapeString(m.tape), string(domain.Blank), "")
}

// History returns the snapshots recorded since the last Load.
// The returned slice and every tape in it are copies.
func (m *Machine) History() []domain.Snapshot {
	return domain.CloneHistory(m.history)
}

// State returns the current control state.
func (m *Machine) State() domain.StateID {
	return m.state
}

// Head returns the current head position.
func (m *Machine) Head() int {
	return m.head
}

// Tape returns a copy of the live tape.
func (m *Machine) Tape() []domain.Symbol {
	out := make([]domain.Symbol, len(m.tape))
	copy(out, m.tape)
	return out
}

// Key returns the key the machine was built with.
func (m *Machine) Key() int {
	return m.table.Key()
}

// Table returns the transition function.
func (m *Machine) Table() domain.TransitionTable {
	return m.table
}

func (m *Machine) record() domain.Snapshot {
	snap := domain.NewSnapshot(len(m.history), m.state, m.head, m.tape)
	m.history = append(m.history, snap)
	return snap
}

func (m *Machine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: m.clock(), Type: t, Key: m.table.Key()}
}
