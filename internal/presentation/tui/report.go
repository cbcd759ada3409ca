package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/caesartm/internal/presentation/graph"
	"github.com/aretw0/caesartm/internal/presentation/tape"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/runner"
)

// Report renders a run (and its audit, when present) as Markdown.
func Report(res *runner.Result, withTrace bool) string {
	var sb strings.Builder
	run := res.Run

	sb.WriteString("# Execution finished\n\n")
	sb.WriteString(fmt.Sprintf("- **Run**: `%s`\n", run.ID))
	sb.WriteString(fmt.Sprintf("- **Key**: %d (shift %d)\n", run.Key, domain.Mod(run.Key)))
	sb.WriteString(fmt.Sprintf("- **Input**: `%s`\n", run.Input))
	sb.WriteString(fmt.Sprintf("- **Output**: `%s`\n", run.Output))
	sb.WriteString(fmt.Sprintf("- **Steps**: %d\n", len(run.History)-1))

	if a := res.Audit; a != nil {
		sb.WriteString("\n## Integrity audit\n\n")
		if a.Reversible {
			sb.WriteString("**PASSED**: the transformation is reversible.\n\n")
		} else {
			sb.WriteString("**FAILED**: the original message could not be recovered.\n\n")
		}
		sb.WriteString(fmt.Sprintf("Decoding with K=%d: `%s` → `%s`\n", a.InverseKey, a.Encoded, a.Decoded))
	}

	if withTrace {
		sb.WriteString("\n## Tape evolution\n\n")
		sb.WriteString(tape.Markdown(run.History))
		sb.WriteString("\n## State diagram\n\n```mermaid\n")
		sb.WriteString(graph.GenerateMermaid(domain.BuildTable(run.Key), graph.OverlayFromHistory(run.History)))
		sb.WriteString("```\n")
	}
	return sb.String()
}
