package memory

import (
	"context"
	"sync"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

// EraseStore is an in-memory implementation of storage.EraseStore.
type EraseStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EraseResult // keyed by signature
}

// NewEraseStore creates a new in-memory erase store.
func NewEraseStore() *EraseStore {
	return &EraseStore{data: make(map[string]*domain.EraseResult)}
}

// Compile-time interface check.
var _ storage.EraseStore = (*EraseStore)(nil)

// Insert adds one erase record. Returns ErrDuplicateKey if exists.
func (s *EraseStore) Insert(_ context.Context, e *domain.EraseResult) error {
	if e == nil || e.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.Signature]; exists {
		return storage.ErrDuplicateKey
	}
	cp := *e
	s.data[e.Signature] = &cp
	return nil
}

// GetBySignature retrieves the erase record for a transaction.
func (s *EraseStore) GetBySignature(_ context.Context, signature string) (*domain.EraseResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[signature]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// CountByReason returns the number of stored erases per reason code.
func (s *EraseStore) CountByReason(_ context.Context) (map[domain.EraseReason]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.EraseReason]int64)
	for _, e := range s.data {
		counts[e.Reason]++
	}
	return counts, nil
}
