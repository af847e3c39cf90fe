package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/siherrmann/combiner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingStore struct {
	*MemoryStore
	release chan struct{}
}

func (s *blockingStore) SelectCombinationByLabel(ctx context.Context, label string) (*model.CombinationRecord, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.MemoryStore.SelectCombinationByLabel(ctx, label)
}

type failingStore struct {
	*MemoryStore
}

func (s *failingStore) SelectCombinationByLabel(context.Context, string) (*model.CombinationRecord, error) {
	return nil, errors.New("connection refused")
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("Record does not wait for the store", func(t *testing.T) {
		store := &blockingStore{MemoryStore: NewMemoryStore(), release: make(chan struct{})}
		l, err := NewLedger(store, nil, nil)
		require.NoError(t, err)
		r := NewRecorder(l, time.Minute, nil)

		returned := make(chan struct{})
		go func() {
			r.Record("Steam", []string{"Water", "Fire"})
			close(returned)
		}()

		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("Record blocked on the store")
		}

		close(store.release)
		r.Wait()

		count, err := l.Count(ctx, "Steam")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Writes are bounded by the timeout", func(t *testing.T) {
		store := &blockingStore{MemoryStore: NewMemoryStore(), release: make(chan struct{})}
		l, err := NewLedger(store, nil, nil)
		require.NoError(t, err)
		r := NewRecorder(l, 10*time.Millisecond, nil)

		r.Record("Steam", nil)
		r.Wait()

		record, err := store.MemoryStore.SelectCombinationByLabel(ctx, "Steam")
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("Store failures are swallowed", func(t *testing.T) {
		l, err := NewLedger(&failingStore{MemoryStore: NewMemoryStore()}, nil, nil)
		require.NoError(t, err)
		r := NewRecorder(l, time.Minute, nil)

		assert.NotPanics(t, func() {
			r.Record("Steam", nil)
			r.Wait()
		})
	})

	t.Run("Many records are all counted", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		require.NoError(t, err)
		r := NewRecorder(l, time.Minute, nil)

		for i := 0; i < 50; i++ {
			r.Record("Mud", []string{"Water", "Earth"})
		}
		r.Wait()

		count, err := l.Count(ctx, "Mud")
		require.NoError(t, err)
		assert.Equal(t, int64(50), count)
	})

	t.Run("Records after Close are dropped", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		require.NoError(t, err)
		r := NewRecorder(l, time.Minute, nil)

		r.Record("Lava", nil)
		r.Close()
		r.Record("Lava", nil)
		r.Wait()

		count, err := l.Count(ctx, "Lava")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Close while records arrive", func(t *testing.T) {
		l, err := NewLedger(NewMemoryStore(), nil, nil)
		require.NoError(t, err)
		r := NewRecorder(l, time.Minute, nil)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					r.Record("Dust", nil)
				}
			}()
		}
		r.Close()
		wg.Wait()
		r.Wait()

		count, err := l.Count(ctx, "Dust")
		require.NoError(t, err)
		assert.LessOrEqual(t, count, int64(100))
	})
}
