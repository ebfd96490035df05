package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryObjectStorage_StoreAndGet(t *testing.T) {
	store := NewInMemoryObjectStorage()

	ref, err := store.Store(context.Background(), "uploads/artwork.pdf", "application/pdf", strings.NewReader("pdf-bytes"), 9)
	require.NoError(t, err)

	assert.Equal(t, "uploads/artwork.pdf", ref.ObjectID)
	assert.Equal(t, "application/pdf", ref.MimeType)
	assert.Equal(t, int64(9), ref.SizeBytes)
	assert.Contains(t, ref.URL, "uploads/artwork.pdf")

	data, ok := store.Get("uploads/artwork.pdf")
	require.True(t, ok)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestInMemoryObjectStorage_StoreRejectsDuplicateKey(t *testing.T) {
	store := NewInMemoryObjectStorage()

	_, err := store.Store(context.Background(), "uploads/a.pdf", "application/pdf", strings.NewReader("one"), 3)
	require.NoError(t, err)

	_, err = store.Store(context.Background(), "uploads/a.pdf", "application/pdf", strings.NewReader("two"), 3)
	assert.Error(t, err)
}

func TestInMemoryObjectStorage_PresignGet(t *testing.T) {
	store := NewInMemoryObjectStorage()

	_, err := store.Store(context.Background(), "uploads/a.pdf", "application/pdf", strings.NewReader("one"), 3)
	require.NoError(t, err)

	url, err := store.PresignGet(context.Background(), "uploads/a.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "uploads/a.pdf")

	_, err = store.PresignGet(context.Background(), "missing", time.Minute)
	assert.Error(t, err)
}

func TestInMemoryObjectStorage_Delete(t *testing.T) {
	store := NewInMemoryObjectStorage()

	_, err := store.Store(context.Background(), "uploads/a.pdf", "application/pdf", strings.NewReader("one"), 3)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(context.Background(), "uploads/a.pdf"))
	assert.Zero(t, store.Len())

	_, ok := store.Get("uploads/a.pdf")
	assert.False(t, ok)
}
