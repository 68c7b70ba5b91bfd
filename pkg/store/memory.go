package store

import (
	"context"
	"sort"
	"sync"

	qecerrors "github.com/hetenyib/qiskit-qec/pkg/errors"
)

// MemoryStore keeps batches in a map. It is the default backend for the
// CLI server and for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string]Batch
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{batches: make(map[string]Batch)}
}

// Put stores or replaces a batch.
func (s *MemoryStore) Put(ctx context.Context, b Batch) error {
	if b.ID == "" {
		return qecerrors.New(qecerrors.ErrCodeInvalidInput, "batch has no ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = b
	return nil
}

// Get retrieves a batch by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return Batch{}, qecerrors.New(qecerrors.ErrCodeNotFound, "batch %s not found", id)
	}
	return b, nil
}

// List returns all batches, most recent first.
func (s *MemoryStore) List(ctx context.Context) ([]Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Batch, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a batch by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[id]; !ok {
		return qecerrors.New(qecerrors.ErrCodeNotFound, "batch %s not found", id)
	}
	delete(s.batches, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
