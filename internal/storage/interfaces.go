package storage

import (
	"context"

	"solana-swap-classifier/internal/domain"
)

// SwapStore provides access to classified swap storage. Stores are
// append-only: classified records are immutable once written.
type SwapStore interface {
	// Insert adds one classified swap leg. Returns ErrDuplicateKey if
	// (tx_signature, leg) exists.
	Insert(ctx context.Context, r *domain.SwapRecord) error

	// InsertBulk adds multiple legs atomically. Fails entire batch on any
	// duplicate.
	InsertBulk(ctx context.Context, records []*domain.SwapRecord) error

	// GetBySignature retrieves all legs stored for a transaction.
	// Returns ErrNotFound if none exist.
	GetBySignature(ctx context.Context, signature string) ([]*domain.SwapRecord, error)

	// GetBySwapper retrieves all legs for a swapper, ordered by timestamp ASC.
	GetBySwapper(ctx context.Context, swapper string) ([]*domain.SwapRecord, error)

	// GetByTimeRange retrieves legs with timestamp within [start, end]
	// (inclusive, milliseconds), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.SwapRecord, error)
}

// EraseStore provides access to terminal "not a swap" records.
type EraseStore interface {
	// Insert adds one erase record. Returns ErrDuplicateKey if the
	// signature exists.
	Insert(ctx context.Context, e *domain.EraseResult) error

	// GetBySignature retrieves the erase record for a transaction.
	// Returns ErrNotFound if not exists.
	GetBySignature(ctx context.Context, signature string) (*domain.EraseResult, error)

	// CountByReason returns the number of stored erases per reason code.
	CountByReason(ctx context.Context) (map[domain.EraseReason]int64, error)
}
