package validator

import (
	"testing"

	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable lets tests describe broken machines that BuildTable never produces.
type fakeTable map[domain.StateID]map[domain.Symbol]domain.Action

func (f fakeTable) Rules(state domain.StateID) map[domain.Symbol]domain.Action {
	return f[state]
}

func caesarRows(key int) fakeTable {
	t := domain.BuildTable(key)
	return fakeTable{domain.StateProcessing: t.Rules(domain.StateProcessing)}
}

func TestValidateTable_BuiltTables(t *testing.T) {
	for _, key := range []int{0, 1, 3, 13, 25, 26, -1, -27, 1000} {
		assert.NoError(t, ValidateTable(domain.BuildTable(key), domain.StateProcessing), "key %d", key)
	}
}

func TestValidateTable_Defects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fakeTable)
		want   string
	}{
		{
			name:   "Missing rule",
			mutate: func(f fakeTable) { delete(f[domain.StateProcessing], 'Q') },
			want:   "has no rule for Q",
		},
		{
			name: "Not a permutation",
			mutate: func(f fakeTable) {
				f[domain.StateProcessing]['B'] = f[domain.StateProcessing]['A']
			},
			want: "writes D for both",
		},
		{
			name: "Letter does not move right",
			mutate: func(f fakeTable) {
				act := f[domain.StateProcessing]['C']
				act.Move = domain.MoveStay
				f[domain.StateProcessing]['C'] = act
			},
			want: "letters must move R",
		},
		{
			name: "Invalid write",
			mutate: func(f fakeTable) {
				act := f[domain.StateProcessing]['Z']
				act.Write = '7'
				f[domain.StateProcessing]['Z'] = act
			},
			want: "outside the tape alphabet",
		},
		{
			name: "Halt unreachable",
			mutate: func(f fakeTable) {
				f[domain.StateProcessing][domain.Blank] = domain.Action{Next: domain.StateProcessing, Write: domain.Blank, Move: domain.MoveStay}
			},
			want: "halted state unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := caesarRows(3)
			tt.mutate(table)
			err := ValidateTable(table, domain.StateProcessing)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateTable_EmptyStart(t *testing.T) {
	err := ValidateTable(fakeTable{}, domain.StateProcessing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
	assert.Contains(t, err.Error(), "has no rules")
}
