package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/caesartm/pkg/domain"
)

// GraphOverlay contains run data to visualize on the diagram.
type GraphOverlay struct {
	VisitedStates []domain.StateID
	CurrentState  domain.StateID
}

// OverlayFromHistory marks every state a run passed through and the state it ended in.
func OverlayFromHistory(history []domain.Snapshot) *GraphOverlay {
	if len(history) == 0 {
		return nil
	}
	o := &GraphOverlay{CurrentState: history[len(history)-1].State}
	for _, s := range history {
		o.VisitedStates = append(o.VisitedStates, s.State)
	}
	return o
}

// edgeGroup aggregates transitions sharing source, target and move.
type edgeGroup struct {
	from, to domain.StateID
	move     domain.Move
	letters  []domain.Symbol
	blank    bool
}

// GenerateMermaid produces a Mermaid state diagram (graph LR) of the transition table.
// Letter transitions sharing a target are drawn as one aggregate edge labelled with
// the modular shift rule, so the 26 letter rules show as a single self-loop.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Terminal state (no outgoing rules): (((Double circle)))
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(table domain.TransitionTable, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, state := range table.States() {
		safeID := sanitizeMermaidID(string(state))
		opener, closer := "[", "]"
		switch {
		case len(table.Rules(state)) == 0:
			opener, closer = "(((", ")))"
		case state == domain.StateProcessing:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, state, closer))
	}

	for _, g := range groupEdges(table) {
		label := edgeLabel(table, g)
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(string(g.from)), label, sanitizeMermaidID(string(g.to))))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(string(id))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentState))))
		}
	}

	return sb.String()
}

func groupEdges(table domain.TransitionTable) []*edgeGroup {
	index := map[string]*edgeGroup{}
	var groups []*edgeGroup

	for _, from := range table.States() {
		rules := table.Rules(from)
		syms := make([]domain.Symbol, 0, len(rules))
		for sym := range rules {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

		for _, sym := range syms {
			act := rules[sym]
			blank := sym == domain.Blank
			k := fmt.Sprintf("%s|%s|%d|%t", from, act.Next, act.Move, blank)
			g, ok := index[k]
			if !ok {
				g = &edgeGroup{from: from, to: act.Next, move: act.Move, blank: blank}
				index[k] = g
				groups = append(groups, g)
			}
			if !blank {
				g.letters = append(g.letters, sym)
			}
		}
	}

	// Letter loops first, then halting edges.
	sort.SliceStable(groups, func(i, j int) bool { return !groups[i].blank && groups[j].blank })
	return groups
}

func edgeLabel(table domain.TransitionTable, g *edgeGroup) string {
	if g.blank {
		return fmt.Sprintf("%c → %c, %s", domain.Blank, domain.Blank, g.move)
	}
	if len(g.letters) == domain.AlphabetSize {
		return fmt.Sprintf("Σ → Σ' : (x + %d) mod %d, %s", table.Shift(), domain.AlphabetSize, g.move)
	}
	parts := make([]string, len(g.letters))
	for i, l := range g.letters {
		act, _ := table.Lookup(g.from, l)
		parts[i] = fmt.Sprintf("%c→%c", l, act.Write)
	}
	return fmt.Sprintf("%s, %s", strings.Join(parts, " "), g.move)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
