package domain

// StateID identifies a control state of the machine (Q).
type StateID string

const (
	StateProcessing StateID = "processing" // q0, reads and rewrites letters
	StateHalted     StateID = "halted"     // F, absorbing
)

// Move is the head movement attached to a transition.
type Move int

const (
	MoveStay Move = iota
	MoveLeft
	MoveRight
)

// Delta returns the head offset applied by the move.
func (m Move) Delta() int {
	switch m {
	case MoveLeft:
		return -1
	case MoveRight:
		return 1
	default:
		return 0
	}
}

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "L"
	case MoveRight:
		return "R"
	default:
		return "S"
	}
}

// Snapshot captures the machine at one point of a run.
// Tape is owned by the snapshot; it never aliases the live tape.
type Snapshot struct {
	Step  int      `json:"step" yaml:"step"`
	State StateID  `json:"state" yaml:"state"`
	Head  int      `json:"head" yaml:"head"`
	Tape  []Symbol `json:"tape" yaml:"tape"`
}

// NewSnapshot copies tape into a fresh snapshot.
func NewSnapshot(step int, state StateID, head int, tape []Symbol) Snapshot {
	cp := make([]Symbol, len(tape))
	copy(cp, tape)
	return Snapshot{Step: step, State: state, Head: head, Tape: cp}
}

// TapeString returns the snapshot tape as a string, blanks included.
func (s Snapshot) TapeString() string {
	return TapeString(s.Tape)
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Step, s.State, s.Head, s.Tape)
}

// CloneHistory deep-copies a snapshot sequence.
func CloneHistory(history []Snapshot) []Snapshot {
	if history == nil {
		return nil
	}
	out := make([]Snapshot, len(history))
	for i, s := range history {
		out[i] = s.Clone()
	}
	return out
}
