package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/caesartm/internal/presentation/graph"
	"github.com/aretw0/caesartm/internal/runtime"
	"github.com/aretw0/caesartm/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		key      int
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "State Shapes",
			key:  3,
			contains: []string{
				"graph LR",
				"processing((\"processing\"))",
				"halted(((\"halted\")))",
			},
		},
		{
			name: "Aggregated Shift Loop",
			key:  3,
			contains: []string{
				"processing -- \"Σ → Σ' : (x + 3) mod 26, R\" --> processing",
				"processing -- \"# → #, S\" --> halted",
			},
			excludes: []string{"A→D"},
		},
		{
			name: "Negative Key Uses Effective Shift",
			key:  -1,
			contains: []string{
				"(x + 25) mod 26",
			},
		},
		{
			name: "No Overlay",
			key:  0,
			excludes: []string{
				"classDef",
			},
		},
		{
			name: "Overlay",
			key:  1,
			overlay: &graph.GraphOverlay{
				VisitedStates: []domain.StateID{domain.StateProcessing, domain.StateProcessing, domain.StateHalted},
				CurrentState:  domain.StateHalted,
			},
			contains: []string{
				"class processing visited;",
				"class halted visited;",
				"class halted current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(domain.BuildTable(tt.key), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestGenerateMermaid_EdgeCount(t *testing.T) {
	got := graph.GenerateMermaid(domain.BuildTable(7), nil)
	if n := strings.Count(got, "-->"); n != 2 {
		t.Errorf("expected 2 aggregate edges, got %d:\n%s", n, got)
	}
}

func TestOverlayFromHistory(t *testing.T) {
	if graph.OverlayFromHistory(nil) != nil {
		t.Fatal("expected nil overlay for empty history")
	}

	m := runtime.NewMachine(2)
	m.Load("AB")
	if _, err := m.Run(); err != nil {
		t.Fatal(err)
	}

	o := graph.OverlayFromHistory(m.History())
	if o.CurrentState != domain.StateHalted {
		t.Errorf("current = %s, want halted", o.CurrentState)
	}
	if len(o.VisitedStates) != 4 {
		t.Errorf("visited = %d, want 4", len(o.VisitedStates))
	}
}
