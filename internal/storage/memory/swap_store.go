// Package memory provides in-memory storage implementations for tests and
// the --use-memory server mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

// SwapStore is an in-memory implementation of storage.SwapStore.
type SwapStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SwapRecord // keyed by signature|leg
}

// NewSwapStore creates a new in-memory swap store.
func NewSwapStore() *SwapStore {
	return &SwapStore{data: make(map[string]*domain.SwapRecord)}
}

// Compile-time interface check.
var _ storage.SwapStore = (*SwapStore)(nil)

func swapKey(signature, leg string) string {
	return fmt.Sprintf("%s|%s", signature, leg)
}

// Insert adds one classified swap leg. Returns ErrDuplicateKey if exists.
func (s *SwapStore) Insert(_ context.Context, r *domain.SwapRecord) error {
	if r == nil || r.Swap == nil || r.Swap.Signature == "" {
		return storage.ErrInvalidInput
	}

	key := swapKey(r.Swap.Signature, r.Leg)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	swap := *r.Swap
	cp.Swap = &swap
	s.data[key] = &cp
	return nil
}

// InsertBulk adds multiple legs atomically. Fails entire batch on any
// duplicate, existing or intra-batch.
func (s *SwapStore) InsertBulk(_ context.Context, records []*domain.SwapRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.Swap == nil || r.Swap.Signature == "" {
			return storage.ErrInvalidInput
		}
		key := swapKey(r.Swap.Signature, r.Leg)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		cp := *r
		swap := *r.Swap
		cp.Swap = &swap
		s.data[swapKey(r.Swap.Signature, r.Leg)] = &cp
	}
	return nil
}

// GetBySignature retrieves all legs stored for a transaction.
func (s *SwapStore) GetBySignature(_ context.Context, signature string) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SwapRecord
	for _, r := range s.data {
		if r.Swap.Signature == signature {
			out = append(out, copyRecord(r))
		}
	}
	if len(out) == 0 {
		return nil, storage.ErrNotFound
	}
	sortRecords(out)
	return out, nil
}

// GetBySwapper retrieves all legs for a swapper, ordered by timestamp ASC.
func (s *SwapStore) GetBySwapper(_ context.Context, swapper string) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SwapRecord
	for _, r := range s.data {
		if r.Swap.Swapper == swapper {
			out = append(out, copyRecord(r))
		}
	}
	sortRecords(out)
	return out, nil
}

// GetByTimeRange retrieves legs within [start, end] inclusive.
func (s *SwapStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SwapRecord
	for _, r := range s.data {
		if r.Swap.Timestamp >= start && r.Swap.Timestamp <= end {
			out = append(out, copyRecord(r))
		}
	}
	sortRecords(out)
	return out, nil
}

func copyRecord(r *domain.SwapRecord) *domain.SwapRecord {
	cp := *r
	swap := *r.Swap
	cp.Swap = &swap
	return &cp
}

func sortRecords(records []*domain.SwapRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Swap.Timestamp != records[j].Swap.Timestamp {
			return records[i].Swap.Timestamp < records[j].Swap.Timestamp
		}
		return records[i].Leg < records[j].Leg
	})
}
