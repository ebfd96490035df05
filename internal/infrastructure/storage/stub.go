package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	appdocument "github.com/printflow/backend/internal/application/document"
	"github.com/printflow/backend/internal/domain/document"
)

// Ensure InMemoryObjectStorage implements ObjectStorage
var _ appdocument.ObjectStorage = (*InMemoryObjectStorage)(nil)

type storedObject struct {
	data        []byte
	contentType string
}

// InMemoryObjectStorage keeps object content in process memory.
// It exists for local development and tests; nothing survives a restart.
type InMemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]storedObject
	baseURL string
}

// NewInMemoryObjectStorage creates an empty in-memory store
func NewInMemoryObjectStorage() *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		objects: make(map[string]storedObject),
		baseURL: "memory://printflow",
	}
}

// Store writes the content under the given key and returns its location
func (s *InMemoryObjectStorage) Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (document.StorageRef, error) {
	if key == "" {
		return document.StorageRef{}, errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return document.StorageRef{}, fmt.Errorf("failed to read content: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists {
		return document.StorageRef{}, fmt.Errorf("object %q already exists", key)
	}
	s.objects[key] = storedObject{data: data, contentType: contentType}

	return document.StorageRef{
		URL:       s.baseURL + "/" + key,
		ObjectID:  key,
		MimeType:  contentType,
		SizeBytes: int64(len(data)),
	}, nil
}

// PresignGet returns a synthetic URL for the object
func (s *InMemoryObjectStorage) PresignGet(ctx context.Context, objectID string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, exists := s.objects[objectID]; !exists {
		return "", fmt.Errorf("object %q not found", objectID)
	}
	return fmt.Sprintf("%s/%s?expires=%d", s.baseURL, objectID, int(expiry.Seconds())), nil
}

// Delete removes an object
func (s *InMemoryObjectStorage) Delete(ctx context.Context, objectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectID)
	return nil
}

// Get returns the stored content (for tests)
func (s *InMemoryObjectStorage) Get(objectID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, exists := s.objects[objectID]
	if !exists {
		return nil, false
	}
	return obj.data, true
}

// Len returns the number of stored objects (for tests)
func (s *InMemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
