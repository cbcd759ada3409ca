package caesartm

import (
	_ "embed"
	"log/slog"

	"github.com/aretw0/caesartm/internal/runtime"
	"github.com/aretw0/caesartm/pkg/domain"
)

// Version is the release version, read from the VERSION file.
//
//go:embed VERSION
var Version string

// AuditReport is the outcome of an encode/decode round-trip.
type AuditReport = runtime.AuditReport

// Machine is the high-level entry point for the library.
// It wraps the internal runtime and exposes the load/run/history lifecycle.
type Machine struct {
	runtime *runtime.Machine
}

type settings struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring the Machine.
type Option func(*settings)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func (s settings) machineOptions() []runtime.MachineOption {
	return []runtime.MachineOption{
		runtime.WithHooks(s.hooks),
		runtime.WithLogger(s.logger),
	}
}

// New builds a machine for key. Construction is total: any integer is accepted
// and only key mod 26 matters. The transition table is fixed for the lifetime of
// the machine; use a new Machine for a different key.
func New(key int, opts ...Option) *Machine {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Machine{runtime: runtime.NewMachine(key, s.machineOptions()...)}
}

// Load places text followed by one blank on the tape and resets the machine.
func (m *Machine) Load(text string) {
	m.runtime.Load(text)
}

// Run executes until halted and returns the tape without blanks.
// It fails with an error wrapping domain.ErrTransitionUndefined if the tape holds
// a symbol outside A–Z.
func (m *Machine) Run() (string, error) {
	return m.runtime.Run()
}

// Step applies a single transition.
func (m *Machine) Step() error {
	return m.runtime.Step()
}

// History returns a copy of the snapshots recorded since the last Load.
func (m *Machine) History() []domain.Snapshot {
	return m.runtime.History()
}

// State returns the current control state.
func (m *Machine) State() domain.StateID {
	return m.runtime.State()
}

// Head returns the current head position.
func (m *Machine) Head() int {
	return m.runtime.Head()
}

// Key returns the key the machine was built with.
func (m *Machine) Key() int {
	return m.runtime.Key()
}

// Table returns the transition function.
func (m *Machine) Table() domain.TransitionTable {
	return m.runtime.Table()
}

// Encode runs a fresh machine keyed with key over text.
func Encode(key int, text string, opts ...Option) (string, error) {
	m := New(key, opts...)
	m.Load(text)
	return m.Run()
}

// Decode undoes Encode(key, ·) by running a machine keyed with InverseKey(key).
func Decode(key int, text string, opts ...Option) (string, error) {
	return Encode(InverseKey(key), text, opts...)
}

// InverseKey returns the key that reverses a shift by key.
func InverseKey(key int) int {
	return domain.InverseKey(key)
}

// Audit encodes text with key and decodes the result on a second, independent
// machine, reporting whether the original text came back.
func Audit(key int, text string, opts ...Option) (*AuditReport, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return runtime.Audit(key, text, s.machineOptions()...)
}
