/*
Package domain contains the core domain models of the caesartm Turing machine.

It defines the formal machine M = (Q, Σ, Γ, δ, q0, F) used as a Caesar transducer over Z_26:
the alphabet, the tape symbols, the two control states, the head moves and the
transition function derived from an integer key. This package is kept pure and free
of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Symbol: A tape cell value, either a letter A–Z or the Blank marker.
  - TransitionTable: The deterministic δ, keyed by state and then by symbol.
  - Snapshot: An immutable capture of (step, state, head, tape) at one point in a run.
  - Run: A persisted execution, its input, its output and its full history.
*/
package domain
