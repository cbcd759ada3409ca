package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/caesartm/internal/config"
	"github.com/aretw0/caesartm/internal/logging"
	"github.com/aretw0/caesartm/internal/presentation/tape"
	"github.com/aretw0/caesartm/internal/presentation/tui"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/muesli/termenv"
)

// SessionOptions configures the interactive menu.
type SessionOptions struct {
	In      io.Reader
	Out     io.Writer
	Runner  *runner.Runner
	Export  config.ExportConfig
	Profile termenv.Profile
	Version string
	Logger  *slog.Logger

	// Render turns Markdown into terminal output. Nil prints it verbatim.
	Render func(string) (string, error)
}

// Menu choices.
const (
	choiceRun  = "1"
	choiceQuit = "2"
)

type session struct {
	SessionOptions
	scanner *bufio.Scanner
}

// RunInteractive drives the menu until the user quits, the input ends or ctx
// is cancelled. Validation failures re-prompt; they never end the session.
func RunInteractive(ctx context.Context, opts SessionOptions) error {
	if opts.Runner == nil {
		opts.Runner = runner.NewRunner()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Render == nil {
		opts.Render = tui.NewRenderer(true)
	}
	s := &session{SessionOptions: opts, scanner: bufio.NewScanner(opts.In)}

	for ctx.Err() == nil {
		clearScreen(s.Out)
		tui.PrintBanner(s.Out, s.Version)
		fmt.Fprintln(s.Out, "1. Configure a new machine and run")
		fmt.Fprintln(s.Out, "2. Quit")

		choice, ok := s.prompt("\nSelect an option: ")
		if !ok {
			return nil
		}

		switch choice {
		case choiceQuit:
			printSystemMessage(s.Out, "Exiting...")
			return nil
		case choiceRun:
			if !s.runOnce(ctx) {
				return nil
			}
			if _, ok := s.prompt("\nPress Enter to return to the main menu..."); !ok {
				return nil
			}
		}
	}
	return nil
}

// prompt reads one trimmed line. ok is false once the input is exhausted.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.Out, label)
	if !s.scanner.Scan() {
		fmt.Fprintln(s.Out)
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

// runOnce collects a key and a message, runs and audits them, then writes the
// artefacts. It returns false when the input ran out mid-dialogue.
func (s *session) runOnce(ctx context.Context) bool {
	var key int
	for {
		raw, ok := s.prompt("Enter the shift key K (integer): ")
		if !ok {
			return false
		}
		k, err := runner.ParseKey(raw)
		if err == nil {
			key = k
			break
		}
		fmt.Fprintf(s.Out, "\n[!] Validation error: %v\n", err)
	}

	var text string
	for {
		raw, ok := s.prompt("Enter the message (A-Z): ")
		if !ok {
			return false
		}
		clean, err := runner.SanitizeInputLimit(raw, s.Runner.MaxInputSize)
		if err == nil {
			text = clean
			break
		}
		fmt.Fprintf(s.Out, "\n[!] Validation error: %v\n", err)
	}

	fmt.Fprintln(s.Out, "\n--- Processing ---")
	fmt.Fprintf(s.Out, "Sanitized input: %s\n", text)
	fmt.Fprintf(s.Out, "Key K: %d\n", key)

	res, err := s.Runner.Audit(ctx, key, text)
	switch {
	case err == nil:
	case errors.Is(err, runner.ErrPersist) && res != nil:
		s.Logger.Warn("Run not persisted", "error", err)
		fmt.Fprintf(s.Out, "\n[!] Warning: %v\n", err)
	default:
		s.Logger.Error("Run failed", "key", key, "error", err)
		fmt.Fprintf(s.Out, "\n[!] Critical system error: %v\n", err)
		return true
	}

	s.printReport(res)

	fmt.Fprintln(s.Out, "\n--- Tape evolution ---")
	if err := tape.Render(s.Out, res.Run.History, tape.Options{Profile: s.Profile}); err != nil {
		s.Logger.Warn("Tape render failed", "error", err)
	}

	fmt.Fprintln(s.Out, "\n--- Generating artefacts ---")
	written, err := GenerateArtefacts(s.Export, res.Run)
	for _, path := range written {
		fmt.Fprintf(s.Out, "   [+] %s\n", path)
	}
	if err != nil {
		s.Logger.Warn("Artefact generation failed", "error", err)
		fmt.Fprintf(s.Out, "   [!] %v\n", err)
	}
	return true
}

func (s *session) printReport(res *runner.Result) {
	md := tui.Report(res, false)
	out, err := s.Render(md)
	if err != nil {
		s.Logger.Warn("Markdown render failed", "error", err)
		out = md
	}
	fmt.Fprintln(s.Out, out)
}
