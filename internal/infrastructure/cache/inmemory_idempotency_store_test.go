package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_FirstMarkWins(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	first, err := store.MarkProcessed(context.Background(), "txn-001", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(context.Background(), "txn-001", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestInMemoryIdempotencyStore_DistinctKeys(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	first, err := store.MarkProcessed(context.Background(), "txn-001", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	other, err := store.MarkProcessed(context.Background(), "txn-002", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)

	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_ForgetReleasesKey(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	_, err := store.MarkProcessed(context.Background(), "txn-001", time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.Forget(context.Background(), "txn-001"))

	again, err := store.MarkProcessed(context.Background(), "txn-001", time.Minute)
	require.NoError(t, err)
	assert.True(t, again, "forgotten key should be markable again")
}

func TestInMemoryIdempotencyStore_ExpiredEntryReusable(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	_, err := store.MarkProcessed(context.Background(), "txn-001", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	again, err := store.MarkProcessed(context.Background(), "txn-001", time.Minute)
	require.NoError(t, err)
	assert.True(t, again, "expired entry should be treated as absent")
}

func TestInMemoryIdempotencyStore_ConcurrentMarks(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	const goroutines = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := store.MarkProcessed(context.Background(), "txn-race", time.Minute)
			require.NoError(t, err)
			if first {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one caller should win the mark")
}

func TestInMemoryIdempotencyStore_CloseIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
