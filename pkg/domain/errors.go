package domain

import (
	"errors"
	"fmt"
)

// ErrTransitionUndefined is returned when δ has no entry for the current (state, symbol).
// With a table from BuildTable and a tape over Σ ∪ {Blank} this is unreachable; seeing it
// means the tape was built from unsanitized input.
var ErrTransitionUndefined = errors.New("transition undefined")

// ErrHeadOutOfRange is returned when the head points outside the tape.
var ErrHeadOutOfRange = errors.New("head out of range")

// ErrInvalidSymbol is returned when decoding a symbol that is not a single character.
var ErrInvalidSymbol = errors.New("invalid symbol")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// TransitionError carries the (state, symbol) pair that has no transition.
type TransitionError struct {
	State  StateID
	Symbol Symbol
	Step   int
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition undefined for (%s, %q) at step %d", e.State, rune(e.Symbol), e.Step)
}

func (e *TransitionError) Unwrap() error {
	return ErrTransitionUndefined
}
