/*
Package caesartm is a deterministic single-tape Turing machine that performs a
generalized Caesar shift over the 26-letter alphabet, recording every step.

The machine is M = (Q, Σ, Γ, δ, q0, F) with Q = {processing, halted},
Σ = {A..Z}, Γ = Σ ∪ {#}, q0 = processing and F = {halted}. δ is derived once
from an integer key K: every letter x is rewritten to (x + K) mod 26 while the
head moves right, and the trailing blank halts the machine in place. A run over
n letters takes exactly n+1 transitions and leaves n+2 snapshots.

# Usage

	m := caesartm.New(3)
	m.Load("HELLO")

	out, err := m.Run() // "KHOOR"
	if err != nil {
		log.Fatal(err)
	}

	for _, snap := range m.History() {
		fmt.Println(snap.Step, snap.State, snap.Head, snap.TapeString())
	}

Input must already be restricted to A–Z. The pkg/runner package sanitizes raw
text, persists runs and drives the encode/decode audit used by the CLI, the HTTP
server and the MCP server.
*/
package caesartm
