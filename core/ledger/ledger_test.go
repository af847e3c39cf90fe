package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/siherrmann/combiner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingStore reports a missing record on the first read and a conflict on
// the first insert, as if another writer created the record in between.
type racingStore struct {
	*MemoryStore
	mu        sync.Mutex
	raced     bool
	conflicts int
}

func (s *racingStore) SelectCombinationByLabel(ctx context.Context, label string) (*model.CombinationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.raced {
		return nil, nil
	}
	return s.MemoryStore.SelectCombinationByLabel(ctx, label)
}

func (s *racingStore) InsertCombination(ctx context.Context, label string) (*model.CombinationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.raced {
		s.raced = true
		s.conflicts++
		if _, err := s.MemoryStore.InsertCombination(ctx, label); err != nil {
			return nil, err
		}
		return nil, model.ErrDuplicateCombination
	}
	return s.MemoryStore.InsertCombination(ctx, label)
}

type alwaysConflictingStore struct {
	*MemoryStore
	inserts int
}

func (s *alwaysConflictingStore) SelectCombinationByLabel(context.Context, string) (*model.CombinationRecord, error) {
	return nil, nil
}

func (s *alwaysConflictingStore) InsertCombination(context.Context, string) (*model.CombinationRecord, error) {
	s.inserts++
	return nil, model.ErrDuplicateCombination
}

type recordingSink struct {
	mu     sync.Mutex
	events []*model.ActivityEvent
	err    error
}

func (s *recordingSink) InsertActivityEvent(_ context.Context, event *model.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func TestNewLedger(t *testing.T) {
	t.Run("Valid store", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		assert.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("Nil store", func(t *testing.T) {
		l, err := NewLedger(nil, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, l)
	})
}

func TestRecordOccurrence(t *testing.T) {
	ctx := context.Background()

	t.Run("First occurrence creates record with count 1", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		require.NoError(t, err)

		record, err := l.RecordOccurrence(ctx, "Steam")
		require.NoError(t, err)
		assert.Equal(t, "Steam", record.Label)
		assert.Equal(t, int64(1), record.Count)
	})

	t.Run("Repeated occurrences increment count", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			record, err := l.RecordOccurrence(ctx, "Steam")
			require.NoError(t, err)
			assert.Equal(t, int64(i), record.Count)
		}
	})

	t.Run("Conflicting create is resolved by reading again", func(t *testing.T) {
		store := &racingStore{MemoryStore: NewMemoryStore()}
		l, err := NewLedger(store, nil, nil)
		require.NoError(t, err)

		record, err := l.RecordOccurrence(ctx, "Mud")
		require.NoError(t, err)
		assert.Equal(t, 1, store.conflicts)
		assert.Equal(t, int64(2), record.Count, "the concurrent writer's occurrence and ours")
	})

	t.Run("Persistent conflicts give up after max attempts", func(t *testing.T) {
		store := &alwaysConflictingStore{MemoryStore: NewMemoryStore()}
		l, err := NewLedger(store, nil, nil)
		require.NoError(t, err)

		record, err := l.RecordOccurrence(ctx, "Mud")
		assert.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, defaultMaxAttempts, store.inserts)
	})

	t.Run("Concurrent recording loses no occurrences", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		require.NoError(t, err)

		const workers = 20
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := l.RecordOccurrence(ctx, "Lava"); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		count, err := l.Count(ctx, "Lava")
		require.NoError(t, err)
		assert.Equal(t, int64(workers), count)
	})
}

func TestRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Emits discovered then repeated events", func(t *testing.T) {
		sink := &recordingSink{}
		l, err := NewLedger(NewMemoryStore(), sink, nil)
		require.NoError(t, err)

		_, err = l.Record(ctx, "Steam", []string{"Water", "Fire"})
		require.NoError(t, err)
		_, err = l.Record(ctx, "Steam", []string{"Fire", "Water"})
		require.NoError(t, err)

		require.Len(t, sink.events, 2)
		assert.Equal(t, model.EventCombinationDiscovered, sink.events[0].Type)
		assert.Equal(t, []string{"Water", "Fire"}, sink.events[0].Ancestors)
		assert.Equal(t, model.EventCombinationRepeated, sink.events[1].Type)
		assert.Equal(t, int64(2), sink.events[1].Count)
	})

	t.Run("Sink failure does not fail the record", func(t *testing.T) {
		sink := &recordingSink{err: errors.New("sink down")}
		l, err := NewLedger(NewMemoryStore(), sink, nil)
		require.NoError(t, err)

		record, err := l.Record(ctx, "Steam", nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), record.Count)
	})
}

func TestCountAndTop(t *testing.T) {
	ctx := context.Background()
	l, err := NewLedger(NewMemoryStore(), nil, nil)
	require.NoError(t, err)

	t.Run("Unknown label counts zero", func(t *testing.T) {
		count, err := l.Count(ctx, "Nothing")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	for label, n := range map[string]int{"Steam": 3, "Mud": 1, "Lava": 2} {
		for i := 0; i < n; i++ {
			_, err := l.RecordOccurrence(ctx, label)
			require.NoError(t, err)
		}
	}

	t.Run("Top is ordered by count", func(t *testing.T) {
		records, err := l.Top(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Steam", records[0].Label)
		assert.Equal(t, "Lava", records[1].Label)
	})

	t.Run("Non-positive limit returns all", func(t *testing.T) {
		records, err := l.Top(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Duplicate insert is reported", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.InsertCombination(ctx, "Steam")
		require.NoError(t, err)
		_, err = store.InsertCombination(ctx, "Steam")
		assert.ErrorIs(t, err, model.ErrDuplicateCombination)
	})

	t.Run("Increment of unknown id fails", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.IncrementCombinationCount(ctx, 42)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("Returned records are copies", func(t *testing.T) {
		store := NewMemoryStore()
		record, err := store.InsertCombination(ctx, "Steam")
		require.NoError(t, err)
		record.Count = 100

		stored, err := store.SelectCombinationByLabel(ctx, "Steam")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Count)
	})
}
