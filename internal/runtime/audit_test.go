package runtime_test

import (
	"math"
	"testing"

	"github.com/aretw0/caesartm/internal/runtime"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit(t *testing.T) {
	report, err := runtime.Audit(3, "HELLO")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Key)
	assert.Equal(t, 23, report.InverseKey)
	assert.Equal(t, "KHOOR", report.Encoded)
	assert.Equal(t, "HELLO", report.Decoded)
	assert.True(t, report.Reversible)
	assert.Len(t, report.Forward, 7)
	assert.Len(t, report.Inverse, 7)

	assert.Equal(t, "HELLO#", report.Forward[0].TapeString())
	assert.Equal(t, "KHOOR#", report.Inverse[0].TapeString())
}

func TestAudit_NegativeKey(t *testing.T) {
	report, err := runtime.Audit(-27, "WRAPAROUND")
	require.NoError(t, err)
	assert.Equal(t, 1, report.InverseKey)
	assert.True(t, report.Reversible)
}

func TestAudit_IndependentHistories(t *testing.T) {
	report, err := runtime.Audit(5, "ABC")
	require.NoError(t, err)

	report.Forward[0].Tape[0] = 'Z'
	assert.Equal(t, "FGH#", report.Inverse[0].TapeString())
	assert.Equal(t, domain.StateHalted, report.Inverse[len(report.Inverse)-1].State)
}

func TestAudit_RejectsInvalidTape(t *testing.T) {
	_, err := runtime.Audit(1, "a")
	assert.ErrorIs(t, err, domain.ErrTransitionUndefined)
}

func TestAudit_ExtremeKeys(t *testing.T) {
	for _, key := range []int{math.MaxInt, math.MaxInt - 3, math.MinInt} {
		report, err := runtime.Audit(key, domain.Alphabet)
		require.NoError(t, err, "key %d", key)
		assert.True(t, report.Reversible, "key %d", key)
		assert.Equal(t, domain.Alphabet, report.Decoded)
	}

	m := runtime.NewMachine(math.MaxInt)
	m.Load("AB")
	out, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, "HI", out)
}
