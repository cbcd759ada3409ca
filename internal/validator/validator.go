package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/caesartm/pkg/domain"
)

// Table is the read side of a transition table.
type Table interface {
	Rules(state domain.StateID) map[domain.Symbol]domain.Action
}

// tapeSymbols is Γ: the alphabet plus the blank.
func tapeSymbols() []domain.Symbol {
	out := make([]domain.Symbol, 0, domain.AlphabetSize+1)
	for i := 0; i < domain.AlphabetSize; i++ {
		out = append(out, domain.Symbol(domain.Alphabet[i]))
	}
	return append(out, domain.Blank)
}

// ValidateTable crawls the states reachable from start and reports every
// defect that would stop a run early or break decryption: missing rules,
// writes outside the tape alphabet, letters that do not move right, a letter
// mapping that is not a permutation, and an unreachable halted state.
func ValidateTable(t Table, start domain.StateID) error {
	visited := make(map[domain.StateID]bool)
	queue := []domain.StateID{start}
	var errors []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		rules := t.Rules(current)
		if len(rules) == 0 {
			if current == start {
				errors = append(errors, fmt.Sprintf("start state '%s' has no rules", current))
			}
			continue // Final state
		}

		written := make(map[domain.Symbol]domain.Symbol)
		for _, sym := range tapeSymbols() {
			act, ok := rules[sym]
			if !ok {
				errors = append(errors, fmt.Sprintf("state '%s' has no rule for %s", current, sym))
				continue
			}

			if !act.Write.IsLetter() && act.Write != domain.Blank {
				errors = append(errors, fmt.Sprintf("rule (%s, %s) writes %q outside the tape alphabet", current, sym, rune(act.Write)))
			}

			if sym.IsLetter() {
				if act.Move != domain.MoveRight {
					errors = append(errors, fmt.Sprintf("rule (%s, %s) moves %s, letters must move R", current, sym, act.Move))
				}
				if prev, dup := written[act.Write]; dup {
					errors = append(errors, fmt.Sprintf("state '%s' writes %s for both %s and %s", current, act.Write, prev, sym))
				}
				written[act.Write] = sym
			}

			if !visited[act.Next] {
				queue = append(queue, act.Next)
			}
		}
	}

	if !visited[domain.StateHalted] {
		errors = append(errors, fmt.Sprintf("halted state unreachable from '%s'", start))
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
