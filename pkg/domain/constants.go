package domain

// Alphabet is the ordered input alphabet Σ. A letter's index is its position here.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AlphabetSize is |Σ|, the modulus of every shift.
const AlphabetSize = len(Alphabet)

// Blank is the tape's end-of-input marker. It is never a member of Alphabet.
const Blank Symbol = '#'

// Symbol is a single tape cell value (Γ = Σ ∪ {Blank}).
type Symbol rune

// String implements fmt.Stringer.
func (s Symbol) String() string {
	return string(rune(s))
}

// MarshalText encodes the symbol as a one character string.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(string(rune(s))), nil
}

// UnmarshalText decodes a one character string.
func (s *Symbol) UnmarshalText(text []byte) error {
	r := []rune(string(text))
	if len(r) != 1 {
		return ErrInvalidSymbol
	}
	*s = Symbol(r[0])
	return nil
}

// IsLetter reports whether s belongs to Alphabet.
func (s Symbol) IsLetter() bool {
	return s >= 'A' && s <= 'Z'
}

// Index returns the position of s in Alphabet.
func Index(s Symbol) (int, bool) {
	if !s.IsLetter() {
		return 0, false
	}
	return int(s - 'A'), true
}

// Letter returns the alphabet symbol at i, wrapping i into [0, AlphabetSize).
func Letter(i int) Symbol {
	return Symbol(Alphabet[Mod(i)])
}

// Mod returns the non-negative residue of k modulo AlphabetSize.
// Go's % keeps the sign of the dividend, hence the second reduction.
func Mod(k int) int {
	return ((k % AlphabetSize) + AlphabetSize) % AlphabetSize
}

// InverseKey returns the key that undoes a shift by k.
func InverseKey(k int) int {
	return (AlphabetSize - Mod(k)) % AlphabetSize
}

// TapeString joins a tape into a string, blanks included.
func TapeString(tape []Symbol) string {
	b := make([]rune, len(tape))
	for i, s := range tape {
		b[i] = rune(s)
	}
	return string(b)
}
