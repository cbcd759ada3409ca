package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "CAESARTM_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrEmptyInput    = errors.New("input contains no letters A-Z")
	ErrInvalidKey    = errors.New("key must be an integer")
)

// SanitizeInput reduces raw text to the machine alphabet using the default limit.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, getMaxInputSize())
}

// SanitizeInputLimit enforces the size limit, validates UTF-8, upper-cases the
// text and drops every rune outside A–Z. Text with no letters left is rejected.
// Upper-casing uses full case mapping, so "ß" becomes "SS" and "ﬁ" becomes "FI".
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = getMaxInputSize()
	}
	// Reject rather than truncate so the tape always reflects what was sent.
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	// A Caser keeps state between calls and must not be shared.
	for _, r := range cases.Upper(language.Und).String(input) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "", ErrEmptyInput
	}
	return b.String(), nil
}

// ParseKey parses a signed integer key. Any integer is valid; only its
// residue modulo 26 affects the machine.
func ParseKey(s string) (int, error) {
	s = strings.TrimSpace(s)
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return k, nil
}

// IsValidationError reports whether err is a recoverable input problem.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidUTF8) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidKey)
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
