package domain

// Action is the right-hand side of a transition: δ(q, a) = (q', b, m).
type Action struct {
	Next  StateID `json:"next" yaml:"next"`
	Write Symbol  `json:"write" yaml:"write"`
	Move  Move    `json:"move" yaml:"move"`
}

// TransitionTable is the deterministic transition function δ.
// Lookup is two-level (state, then symbol); the table is immutable once built.
type TransitionTable struct {
	key   int
	rules map[StateID]map[Symbol]Action
}

// BuildTable derives δ for the Caesar transducer with shift key.
// Every letter L maps to (processing, Letter(index(L)+key), Right) and the blank
// maps to (halted, Blank, Stay). The halted state has no entries.
// The key is reduced before the addition so extreme keys cannot overflow.
func BuildTable(key int) TransitionTable {
	shift := Mod(key)
	processing := make(map[Symbol]Action, AlphabetSize+1)
	for i := 0; i < AlphabetSize; i++ {
		processing[Symbol(Alphabet[i])] = Action{
			Next:  StateProcessing,
			Write: Letter(i + shift),
			Move:  MoveRight,
		}
	}
	processing[Blank] = Action{Next: StateHalted, Write: Blank, Move: MoveStay}

	return TransitionTable{
		key: key,
		rules: map[StateID]map[Symbol]Action{
			StateProcessing: processing,
		},
	}
}

// Lookup returns δ(state, sym).
func (t TransitionTable) Lookup(state StateID, sym Symbol) (Action, bool) {
	row, ok := t.rules[state]
	if !ok {
		return Action{}, false
	}
	act, ok := row[sym]
	return act, ok
}

// Len returns the number of defined (state, symbol) entries.
func (t TransitionTable) Len() int {
	n := 0
	for _, row := range t.rules {
		n += len(row)
	}
	return n
}

// Key returns the key the table was built from.
func (t TransitionTable) Key() int {
	return t.key
}

// Shift returns the effective shift, Key mod 26.
func (t TransitionTable) Shift() int {
	return Mod(t.key)
}

// Rules returns a copy of the entries defined for state, in no particular order.
func (t TransitionTable) Rules(state StateID) map[Symbol]Action {
	row := t.rules[state]
	out := make(map[Symbol]Action, len(row))
	for sym, act := range row {
		out[sym] = act
	}
	return out
}

// States lists every state named by the table, sources first then targets,
// in a stable order.
func (t TransitionTable) States() []StateID {
	seen := map[StateID]bool{}
	var out []StateID
	add := func(s StateID) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range []StateID{StateProcessing, StateHalted} {
		if _, ok := t.rules[s]; ok {
			add(s)
		}
	}
	for _, s := range []StateID{StateProcessing, StateHalted} {
		for _, act := range t.rules[s] {
			add(act.Next)
		}
	}
	return out
}
