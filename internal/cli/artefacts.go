package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/caesartm/internal/config"
	"github.com/aretw0/caesartm/internal/presentation/graph"
	"github.com/aretw0/caesartm/internal/presentation/tape"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/export"
	"github.com/muesli/termenv"
)

// Artefact file names, relative to the export directory.
const (
	DiagramFile = "state_diagram.mmd"
	TapeFile    = "tape_evolution.txt"
	TraceBase   = "turing_trace"
)

// GenerateArtefacts writes the diagram, tape grid and trace for run into
// cfg.Dir. Each artefact is attempted independently; the paths written so far
// are returned alongside the joined failures.
func GenerateArtefacts(cfg config.ExportConfig, run *domain.Run) ([]string, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	var (
		written []string
		errs    []error
	)

	if cfg.Diagram {
		path := filepath.Join(dir, DiagramFile)
		mmd := graph.GenerateMermaid(domain.BuildTable(run.Key), graph.OverlayFromHistory(run.History))
		if err := os.WriteFile(path, []byte(mmd), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("state diagram: %w", err))
		} else {
			written = append(written, path)
		}
	}

	if cfg.Tape {
		path := filepath.Join(dir, TapeFile)
		if err := writeTape(path, run.History); err != nil {
			errs = append(errs, fmt.Errorf("tape grid: %w", err))
		} else {
			written = append(written, path)
		}
	}

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		errs = append(errs, fmt.Errorf("trace: %w", err))
	} else {
		path := filepath.Join(dir, TraceBase+"."+string(format))
		if err := export.SaveFile(path, format, run.History); err != nil {
			errs = append(errs, fmt.Errorf("trace: %w", err))
		} else {
			written = append(written, path)
		}
	}

	return written, errors.Join(errs...)
}

func writeTape(path string, history []domain.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tape.Render(f, history, tape.Options{Profile: termenv.Ascii}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
