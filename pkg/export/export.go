// Package export serializes machine traces for offline analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/caesartm/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format names a trace encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for formats other than csv, json and yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// Header is the CSV header row.
var Header = []string{"step", "state", "head", "tape"}

// Record is one snapshot flattened for export.
type Record struct {
	Step  int    `json:"step" yaml:"step"`
	State string `json:"state" yaml:"state"`
	Head  int    `json:"head" yaml:"head"`
	Tape  string `json:"tape" yaml:"tape"`
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Records flattens a history.
func Records(history []domain.Snapshot) []Record {
	out := make([]Record, len(history))
	for i, s := range history {
		out[i] = Record{
			Step:  s.Step,
			State: string(s.State),
			Head:  s.Head,
			Tape:  s.TapeString(),
		}
	}
	return out
}

// Write encodes history to w in the given format.
func Write(w io.Writer, format Format, history []domain.Snapshot) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, history)
	case FormatJSON:
		return WriteJSON(w, history)
	case FormatYAML:
		return WriteYAML(w, history)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteCSV writes one row per snapshot after the header.
func WriteCSV(w io.Writer, history []domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range Records(history) {
		row := []string{strconv.Itoa(r.Step), r.State, strconv.Itoa(r.Head), r.Tape}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r.Step, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, history []domain.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(history)); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// WriteYAML writes the records as a YAML sequence.
func WriteYAML(w io.Writer, history []domain.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Records(history)); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}

// SaveFile writes history to path, creating parent directories. A failure here
// never affects the run the history came from.
func SaveFile(path string, format Format, history []domain.Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Write(f, format, history); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses a trace written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(Header) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+1, len(Header), len(row))
		}
		step, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad step: %w", i+1, err)
		}
		head, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad head: %w", i+1, err)
		}
		out = append(out, Record{Step: step, State: row[1], Head: head, Tape: row[3]})
	}
	return out, nil
}
