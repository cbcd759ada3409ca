package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newRun := func(id string) *domain.Run {
		return &domain.Run{
			ID:        id,
			Key:       3,
			Input:     "HI",
			Output:    "KL",
			CreatedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
			History: []domain.Snapshot{
				domain.NewSnapshot(0, domain.StateProcessing, 0, []domain.Symbol("HI#")),
				domain.NewSnapshot(1, domain.StateProcessing, 1, []domain.Symbol("KI#")),
				domain.NewSnapshot(2, domain.StateProcessing, 2, []domain.Symbol("KL#")),
				domain.NewSnapshot(3, domain.StateHalted, 2, []domain.Symbol("KL#")),
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := newRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.Key, loaded.Key)
		assert.Equal(t, run.Input, loaded.Input)
		assert.Equal(t, run.Output, loaded.Output)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt), "CreatedAt should round-trip")
		assert.Equal(t, run.History, loaded.History)
	})

	t.Run("Isolation", func(t *testing.T) {
		run := newRun(runID + "-iso")
		require.NoError(t, store.Save(ctx, run))
		defer func() { _ = store.Delete(ctx, run.ID) }()

		run.History[0].Tape[0] = 'X'
		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, "HI#", loaded.History[0].TapeString())

		loaded.History[1].Tape[0] = 'Y'
		again, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, "KI#", again.History[1].TapeString())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newRun(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, newRun(id1))
		_ = store.Save(ctx, newRun(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})

	t.Run("List Oldest First", func(t *testing.T) {
		older := newRun(runID + "-zzz-old")
		newer := newRun(runID + "-aaa-new")
		newer.CreatedAt = older.CreatedAt.Add(time.Hour)

		require.NoError(t, store.Save(ctx, newer))
		require.NoError(t, store.Save(ctx, older))
		defer func() {
			_ = store.Delete(ctx, older.ID)
			_ = store.Delete(ctx, newer.ID)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)

		oldIdx, newIdx := -1, -1
		for i, id := range runs {
			switch id {
			case older.ID:
				oldIdx = i
			case newer.ID:
				newIdx = i
			}
		}
		require.NotEqual(t, -1, oldIdx)
		require.NotEqual(t, -1, newIdx)
		assert.Less(t, oldIdx, newIdx, "runs must be listed by CreatedAt, not by ID")
	})
}
