// Package tape renders the tape evolution grid: one row per snapshot, one
// column per cell, with the head's cell highlighted.
package tape

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/muesli/termenv"
)

// HeadColor is the background used for the head cell.
const HeadColor = "#ffff99"

// Options controls terminal rendering.
type Options struct {
	// Profile selects the colour capability. termenv.Ascii disables colour and
	// marks the head cell with brackets instead.
	Profile termenv.Profile
}

// Render writes the grid to w.
func Render(w io.Writer, history []domain.Snapshot, opts Options) error {
	if len(history) == 0 {
		return nil
	}
	out := termenv.NewOutput(w, termenv.WithProfile(opts.Profile))
	width := len(history[0].Tape)
	label := rowLabelWidth(len(history))

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", label))
	for i := 0; i < width; i++ {
		sb.WriteString(fmt.Sprintf(" %-6s", fmt.Sprintf("Idx %d", i)))
	}
	sb.WriteString("\n")

	for _, snap := range history {
		sb.WriteString(fmt.Sprintf("%-*s", label, fmt.Sprintf("t=%d", snap.Step)))
		for i, sym := range snap.Tape {
			sb.WriteString(" ")
			sb.WriteString(cell(out, opts.Profile, sym, i == snap.Head))
		}
		sb.WriteString(fmt.Sprintf("  %s\n", snap.State))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func cell(out *termenv.Output, profile termenv.Profile, sym domain.Symbol, head bool) string {
	text := fmt.Sprintf("  %c   ", rune(sym))
	if !head {
		return text
	}
	if profile == termenv.Ascii {
		return fmt.Sprintf(" [%c]  ", rune(sym))
	}
	return out.String(text).
		Background(out.Color(HeadColor)).
		Foreground(out.Color("#000000")).
		Bold().
		String()
}

func rowLabelWidth(rows int) int {
	return len(fmt.Sprintf("t=%d", rows-1)) + 1
}

// Markdown returns the grid as a Markdown table with the head cell in bold.
func Markdown(history []domain.Snapshot) string {
	if len(history) == 0 {
		return ""
	}
	width := len(history[0].Tape)

	var sb strings.Builder
	sb.WriteString("| t |")
	for i := 0; i < width; i++ {
		sb.WriteString(fmt.Sprintf(" Idx %d |", i))
	}
	sb.WriteString(" state |\n|---|")
	for i := 0; i < width; i++ {
		sb.WriteString(":---:|")
	}
	sb.WriteString("---|\n")

	for _, snap := range history {
		sb.WriteString(fmt.Sprintf("| t=%d |", snap.Step))
		for i, sym := range snap.Tape {
			c := escape(sym)
			if i == snap.Head {
				c = "**" + c + "**"
			}
			sb.WriteString(" " + c + " |")
		}
		sb.WriteString(fmt.Sprintf(" %s |\n", snap.State))
	}
	return sb.String()
}

func escape(sym domain.Symbol) string {
	if sym == domain.Blank {
		return `\#`
	}
	return sym.String()
}
