package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/caesartm"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/ports"
	"github.com/google/uuid"
)

// ErrPersist wraps store failures. A result accompanies it: the run itself succeeded.
var ErrPersist = errors.New("failed to persist run")

// Runner executes sanitized requests against fresh machines.
// It is safe for concurrent use as long as its Store is.
type Runner struct {
	// Store is the persistence adapter. If nil, runs are not kept.
	Store ports.RunStore

	// Logger is used for run-level logging. If nil, a no-op logger is used.
	Logger *slog.Logger

	// Hooks are installed on every machine.
	Hooks domain.LifecycleHooks

	// MaxInputSize caps raw input bytes. Zero means the package default.
	MaxInputSize int

	newID func() string
	now   func() time.Time
}

// Result is the outcome of a request.
type Result struct {
	Run   *domain.Run            `json:"run"`
	Audit *caesartm.AuditReport `json:"audit,omitempty"`
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Encode sanitizes raw and runs it through a machine keyed with key.
func (r *Runner) Encode(ctx context.Context, key int, raw string) (*Result, error) {
	return r.execute(ctx, key, raw)
}

// Decode sanitizes raw and reverses a shift by key.
func (r *Runner) Decode(ctx context.Context, key int, raw string) (*Result, error) {
	return r.execute(ctx, caesartm.InverseKey(key), raw)
}

// Audit encodes raw with key, then decodes the output on an independent machine.
// The forward run is persisted; the report carries both traces.
func (r *Runner) Audit(ctx context.Context, key int, raw string) (*Result, error) {
	text, err := r.sanitize(raw)
	if err != nil {
		return nil, err
	}

	report, err := caesartm.Audit(key, text, r.machineOptions()...)
	if err != nil {
		r.Logger.Error("Audit failed", "key", key, "err", err)
		return nil, err
	}
	if !report.Reversible {
		r.Logger.Warn("Audit detected an irreversible run", "key", key, "decoded", report.Decoded)
	}

	run := r.newRun(key, text, report.Encoded, report.Forward)
	res := &Result{Run: run, Audit: report}
	return res, r.persist(ctx, run)
}

func (r *Runner) execute(ctx context.Context, key int, raw string) (*Result, error) {
	text, err := r.sanitize(raw)
	if err != nil {
		return nil, err
	}

	m := caesartm.New(key, r.machineOptions()...)
	m.Load(text)
	out, err := m.Run()
	if err != nil {
		return nil, fmt.Errorf("run failed: %w", err)
	}

	run := r.newRun(key, text, out, m.History())
	r.Logger.Info("Run completed", "id", run.ID, "key", key, "length", len(text))
	res := &Result{Run: run}
	return res, r.persist(ctx, run)
}

func (r *Runner) sanitize(raw string) (string, error) {
	text, err := SanitizeInputLimit(raw, r.MaxInputSize)
	if err != nil {
		r.Logger.Warn("Input rejected", "err", err, "size", len(raw))
		return "", err
	}
	return text, nil
}

func (r *Runner) machineOptions() []caesartm.Option {
	return []caesartm.Option{
		caesartm.WithLogger(r.Logger),
		caesartm.WithLifecycleHooks(r.Hooks),
	}
}

func (r *Runner) newRun(key int, input, output string, history []domain.Snapshot) *domain.Run {
	return &domain.Run{
		ID:        r.newID(),
		Key:       key,
		Input:     input,
		Output:    output,
		CreatedAt: r.now().UTC(),
		History:   history,
	}
}

func (r *Runner) persist(ctx context.Context, run *domain.Run) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Save(ctx, run); err != nil {
		r.Logger.Warn("Run not persisted", "id", run.ID, "err", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
