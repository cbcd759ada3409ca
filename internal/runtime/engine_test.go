package runtime_test

import (
	"strings"
	"testing"

	"github.com/aretw0/caesartm/internal/runtime"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, key int, text string) string {
	t.Helper()
	m := runtime.NewMachine(key)
	m.Load(text)
	out, err := m.Run()
	require.NoError(t, err)
	return out
}

func TestMachine_Run(t *testing.T) {
	tests := []struct {
		name string
		key  int
		in   string
		want string
	}{
		{"Classic", 3, "HELLO", "KHOOR"},
		{"Decode", 23, "KHOOR", "HELLO"},
		{"Identity", 0, "ABC", "ABC"},
		{"Full turn", 26, "ABC", "ABC"},
		{"Wrap forward", 1, "Z", "A"},
		{"Wrap backward", -1, "A", "Z"},
		{"Whole alphabet", 13, domain.Alphabet, "NOPQRSTUVWXYZABCDEFGHIJKLM"},
		{"Empty tape", 5, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encode(t, tt.key, tt.in))
		})
	}
}

func TestMachine_Bijective(t *testing.T) {
	inputs := []string{"A", "HELLO", "ATTACKATDAWN", domain.Alphabet, "ZZZZ"}
	for key := -60; key <= 60; key++ {
		for _, in := range inputs {
			enc := encode(t, key, in)
			dec := encode(t, domain.InverseKey(key), enc)
			assert.Equal(t, in, dec, "key=%d", key)
		}
	}
}

func TestMachine_NegativeKeyEquivalence(t *testing.T) {
	text := "THEQUICKBROWNFOX"
	for key := -40; key <= 40; key++ {
		want := encode(t, key, text)
		assert.Equal(t, want, encode(t, key+26, text), "key=%d", key)
		assert.Equal(t, want, encode(t, key-26, text), "key=%d", key)
	}
}

func TestMachine_History(t *testing.T) {
	m := runtime.NewMachine(3)
	m.Load("HELLO")

	initial := m.History()
	require.Len(t, initial, 1)
	assert.Equal(t, domain.NewSnapshot(0, domain.StateProcessing, 0, []domain.Symbol("HELLO#")), initial[0])

	out, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, "KHOOR", out)

	history := m.History()
	require.Len(t, history, len("HELLO")+2)

	t.Run("Consecutive steps", func(t *testing.T) {
		for i, snap := range history {
			assert.Equal(t, i, snap.Step)
		}
	})

	t.Run("Final snapshot halted at blank", func(t *testing.T) {
		last := history[len(history)-1]
		assert.Equal(t, domain.StateHalted, last.State)
		assert.Equal(t, len("HELLO"), last.Head)
		assert.Equal(t, "KHOOR#", last.TapeString())
	})

	t.Run("Head never moves left", func(t *testing.T) {
		for i := 1; i < len(history); i++ {
			assert.GreaterOrEqual(t, history[i].Head, history[i-1].Head)
		}
	})

	t.Run("Each snapshot shows the rewrite so far", func(t *testing.T) {
		want := []string{"HELLO#", "KELLO#", "KHLLO#", "KHOLO#", "KHOOO#", "KHOOR#", "KHOOR#"}
		for i, snap := range history {
			assert.Equal(t, want[i], snap.TapeString(), "step %d", i)
		}
	})

	t.Run("Tape length is fixed", func(t *testing.T) {
		for _, snap := range history {
			assert.Len(t, snap.Tape, len("HELLO")+1)
		}
	})
}

func TestMachine_HistoryLengthInvariant(t *testing.T) {
	for n := 0; n < 40; n++ {
		m := runtime.NewMachine(n)
		m.Load(strings.Repeat("Q", n))
		_, err := m.Run()
		require.NoError(t, err)

		history := m.History()
		assert.Len(t, history, n+2)
		assert.Equal(t, domain.StateHalted, history[len(history)-1].State)
		assert.Equal(t, n, history[len(history)-1].Head)
	}
}

func TestMachine_HistoryIsolation(t *testing.T) {
	m := runtime.NewMachine(1)
	m.Load("AB")
	_, err := m.Run()
	require.NoError(t, err)

	h := m.History()
	h[0].Tape[0] = 'X'
	h[1].State = domain.StateHalted

	again := m.History()
	assert.Equal(t, "AB#", again[0].TapeString())
	assert.Equal(t, domain.StateProcessing, again[1].State)
	assert.Equal(t, "BC#", domain.TapeString(m.Tape()))
}

func TestMachine_Reload(t *testing.T) {
	m := runtime.NewMachine(2)
	m.Load("ABC")
	_, err := m.Run()
	require.NoError(t, err)

	m.Load("XY")
	assert.Equal(t, domain.StateProcessing, m.State())
	assert.Equal(t, 0, m.Head())
	require.Len(t, m.History(), 1)

	out, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, "ZA", out)
	assert.Len(t, m.History(), 4)
}

func TestMachine_Deterministic(t *testing.T) {
	run := func() (string, []domain.Snapshot) {
		m := runtime.NewMachine(-7)
		m.Load("DETERMINISM")
		out, err := m.Run()
		require.NoError(t, err)
		return out, m.History()
	}

	out1, h1 := run()
	out2, h2 := run()
	assert.Equal(t, out1, out2)
	assert.Equal(t, h1, h2)
}

func TestMachine_Step(t *testing.T) {
	m := runtime.NewMachine(1)
	m.Load("A")

	require.NoError(t, m.Step())
	assert.Equal(t, domain.StateProcessing, m.State())
	assert.Equal(t, 1, m.Head())

	require.NoError(t, m.Step())
	assert.Equal(t, domain.StateHalted, m.State())
	assert.Equal(t, 1, m.Head())
	assert.Equal(t, "B", m.Output())
}

func TestMachine_Accessors(t *testing.T) {
	m := runtime.NewMachine(-3)
	assert.Equal(t, -3, m.Key())
	assert.Equal(t, 23, m.Table().Shift())
	assert.Equal(t, domain.StateProcessing, m.State())
}
