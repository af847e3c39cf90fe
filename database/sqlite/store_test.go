package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/siherrmann/combiner/core/ledger"
	"github.com/siherrmann/combiner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpen(t *testing.T) {
	t.Run("Empty path is rejected", func(t *testing.T) {
		store, err := Open("  ")
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("In-memory database", func(t *testing.T) {
		store, err := Open(":memory:")
		require.NoError(t, err)
		defer store.Close()
		assert.NotNil(t, store.DB())
	})

	t.Run("Reopening keeps the records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		store, err := Open(path)
		require.NoError(t, err)
		_, err = store.InsertCombination(context.Background(), "Steam")
		require.NoError(t, err)
		require.NoError(t, store.Close())

		reopened, err := Open(path)
		require.NoError(t, err)
		defer reopened.Close()

		record, err := reopened.SelectCombinationByLabel(context.Background(), "Steam")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, int64(1), record.Count)
	})
}

func TestCombinations(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t.Run("Insert creates a record with count 1", func(t *testing.T) {
		record, err := store.InsertCombination(ctx, "Steam")
		require.NoError(t, err)
		assert.NotZero(t, record.ID)
		assert.Equal(t, "Steam", record.Label)
		assert.Equal(t, int64(1), record.Count)
		assert.False(t, record.CreatedAt.IsZero())
	})

	t.Run("Duplicate insert is reported as duplicate", func(t *testing.T) {
		record, err := store.InsertCombination(ctx, "Steam")
		assert.ErrorIs(t, err, model.ErrDuplicateCombination)
		assert.Nil(t, record)
	})

	t.Run("Select missing label returns nil", func(t *testing.T) {
		record, err := store.SelectCombinationByLabel(ctx, "Nothing")
		assert.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("Increment raises the count", func(t *testing.T) {
		record, err := store.SelectCombinationByLabel(ctx, "Steam")
		require.NoError(t, err)

		incremented, err := store.IncrementCombinationCount(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), incremented.Count)
		assert.Equal(t, record.RID, incremented.RID)
	})

	t.Run("Increment of unknown id fails", func(t *testing.T) {
		_, err := store.IncrementCombinationCount(ctx, 9999)
		assert.ErrorIs(t, err, ledger.ErrRecordNotFound)
	})

	t.Run("Top is ordered by count", func(t *testing.T) {
		_, err := store.InsertCombination(ctx, "Mud")
		require.NoError(t, err)

		records, err := store.SelectTopCombinations(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Steam", records[0].Label)
		assert.Equal(t, "Mud", records[1].Label)

		records, err = store.SelectTopCombinations(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestActivityEvents(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	t.Run("Insert and select events", func(t *testing.T) {
		first := model.NewActivityEvent("Steam", []string{"Water", "Fire"}, 1)
		require.NoError(t, store.InsertActivityEvent(ctx, first))
		assert.NotZero(t, first.ID)

		second := model.NewActivityEvent("Steam", nil, 2)
		require.NoError(t, store.InsertActivityEvent(ctx, second))

		events, err := store.SelectActivityEventsByLabel(ctx, "Steam", 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, model.EventCombinationRepeated, events[0].Type)
		assert.Empty(t, events[0].Ancestors)
		assert.Equal(t, model.EventCombinationDiscovered, events[1].Type)
		assert.Equal(t, []string{"Water", "Fire"}, events[1].Ancestors)
		assert.Equal(t, first.RID, events[1].RID)
	})
}

func TestLedgerOnSqlite(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	l, err := ledger.NewLedger(store, store, nil)
	require.NoError(t, err)

	t.Run("Recording N times yields count N", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			_, err := l.Record(ctx, "Lava", []string{"Fire", "Earth"})
			require.NoError(t, err)
		}

		count, err := l.Count(ctx, "Lava")
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)

		events, err := store.SelectActivityEventsByLabel(ctx, "Lava", 0)
		require.NoError(t, err)
		assert.Len(t, events, 4)
	})

	t.Run("Concurrent recording loses no occurrences", func(t *testing.T) {
		const workers = 8
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.RecordOccurrence(ctx, "Obsidian")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		count, err := l.Count(ctx, "Obsidian")
		require.NoError(t, err)
		assert.Equal(t, int64(workers), count)
	})
}
