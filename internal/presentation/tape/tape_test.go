package tape_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/caesartm/internal/presentation/tape"
	"github.com/aretw0/caesartm/internal/runtime"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(t *testing.T, key int, text string) []domain.Snapshot {
	t.Helper()
	m := runtime.NewMachine(key)
	m.Load(text)
	_, err := m.Run()
	require.NoError(t, err)
	return m.History()
}

func TestRender_Ascii(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tape.Render(&buf, history(t, 1, "AB"), tape.Options{Profile: termenv.Ascii}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5, "header plus one row per snapshot")

	assert.Contains(t, lines[0], "Idx 0")
	assert.Contains(t, lines[0], "Idx 2")
	assert.True(t, strings.HasPrefix(lines[1], "t=0"))
	assert.Contains(t, lines[1], "[A]")
	assert.Contains(t, lines[2], "[B]")
	assert.Contains(t, lines[3], "[#]")
	assert.Contains(t, lines[4], "[#]")
	assert.True(t, strings.HasSuffix(lines[4], "halted"))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestRender_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tape.Render(&buf, history(t, 1, "A"), tape.Options{Profile: termenv.TrueColor}))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.NotContains(t, buf.String(), "[A]")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tape.Render(&buf, nil, tape.Options{}))
	assert.Empty(t, buf.String())
}

func TestMarkdown(t *testing.T) {
	md := tape.Markdown(history(t, 3, "HI"))

	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	require.Len(t, lines, 2+4)
	assert.Equal(t, "| t | Idx 0 | Idx 1 | Idx 2 | state |", lines[0])
	assert.Equal(t, "| t=0 | **H** | I | \\# | processing |", lines[2])
	assert.Equal(t, "| t=3 | K | L | **\\#** | halted |", lines[5])
}
