package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	// Default Limit is 4096
	limit := 4096

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := SanitizeInput(input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("SanitizeInput() expected error for size %d, got nil", tt.inputSize)
				}
			} else {
				if err != nil {
					t.Errorf("SanitizeInput() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestSanitizeInput_Alphabet(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Upper", "HELLO", "HELLO"},
		{"Lower", "hello", "HELLO"},
		{"Punctuation and spaces", "Hello, World!", "HELLOWORLD"},
		{"Digits", "R2D2", "RD"},
		{"Control chars", "A\x1b[31mB\x00C", "AMBC"},
		{"Accents dropped", "Ñandú", "AND"},
		{"Newlines", "AB\nCD\t", "ABCD"},
		{"Sharp s expands", "Straße", "STRASSE"},
		{"Ligature expands", "Straße ﬁn", "STRASSEFIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_Rejections(t *testing.T) {
	_, err := SanitizeInput("123 !?")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = SanitizeInput("")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = SanitizeInput("AB\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	assert.True(t, IsValidationError(err))
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "4")

	_, err := SanitizeInput("ABCDE")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := SanitizeInput("ABCD")
	require.NoError(t, err)
	assert.Equal(t, "ABCD", got)
}

func TestSanitizeInputLimit(t *testing.T) {
	_, err := SanitizeInputLimit("ABC", 2)
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := SanitizeInputLimit("abc", 0)
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" -7 ", -7, false},
		{"+26", 26, false},
		{"100", 100, false},
		{"", 0, true},
		{"three", 0, true},
		{"3.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
