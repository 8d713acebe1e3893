package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/storage"
)

// EraseStore implements storage.EraseStore using PostgreSQL.
type EraseStore struct {
	pool *Pool
}

// NewEraseStore creates a new EraseStore.
func NewEraseStore(pool *Pool) *EraseStore {
	return &EraseStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EraseStore = (*EraseStore)(nil)

// Insert adds one erase record. Returns ErrDuplicateKey if the signature
// exists.
func (s *EraseStore) Insert(ctx context.Context, e *domain.EraseResult) error {
	if e == nil || e.Signature == "" {
		return storage.ErrInvalidInput
	}

	deltas, err := json.Marshal(e.Debug.AssetDeltas)
	if err != nil {
		return fmt.Errorf("marshal asset deltas: %w", err)
	}

	query := `
		INSERT INTO erase_records (
			tx_signature, timestamp, reason, fee_payer, signers,
			validation_error, asset_deltas
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	start := time.Now()
	_, err = s.pool.Exec(ctx, query,
		e.Signature, e.Timestamp, string(e.Reason),
		e.Debug.FeePayer, e.Debug.Signers, e.Debug.ValidationError, deltas,
	)
	observability.RecordDBQuery("postgres", "insert_erase", time.Since(start).Seconds(), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert erase record: %w", err)
	}
	return nil
}

// GetBySignature retrieves the erase record for a transaction.
func (s *EraseStore) GetBySignature(ctx context.Context, signature string) (*domain.EraseResult, error) {
	query := `
		SELECT tx_signature, timestamp, reason, fee_payer, signers,
			validation_error, asset_deltas
		FROM erase_records WHERE tx_signature = $1
	`

	var (
		e      domain.EraseResult
		reason string
		deltas []byte
	)
	start := time.Now()
	err := s.pool.QueryRow(ctx, query, signature).Scan(
		&e.Signature, &e.Timestamp, &reason,
		&e.Debug.FeePayer, &e.Debug.Signers, &e.Debug.ValidationError, &deltas,
	)
	qerr := err
	if isNotFoundError(qerr) {
		// A miss is a normal outcome, not a query failure.
		qerr = nil
	}
	observability.RecordDBQuery("postgres", "select_erase_by_signature", time.Since(start).Seconds(), qerr)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query erase record: %w", err)
	}
	e.Reason = domain.EraseReason(reason)
	if len(deltas) > 0 {
		if err := json.Unmarshal(deltas, &e.Debug.AssetDeltas); err != nil {
			return nil, fmt.Errorf("unmarshal asset deltas: %w", err)
		}
	}
	return &e, nil
}

// CountByReason returns the number of stored erases per reason code.
func (s *EraseStore) CountByReason(ctx context.Context) (map[domain.EraseReason]int64, error) {
	start := time.Now()
	rows, err := s.pool.Query(ctx, `SELECT reason, COUNT(*) FROM erase_records GROUP BY reason`)
	observability.RecordDBQuery("postgres", "count_erases_by_reason", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("count erases by reason: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.EraseReason]int64)
	for rows.Next() {
		var reason string
		var n int64
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan erase count: %w", err)
		}
		counts[domain.EraseReason(reason)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate erase counts: %w", err)
	}
	return counts, nil
}
