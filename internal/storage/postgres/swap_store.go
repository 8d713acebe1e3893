package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/storage"
)

// SwapStore implements storage.SwapStore using PostgreSQL.
type SwapStore struct {
	pool *Pool
}

// NewSwapStore creates a new SwapStore.
func NewSwapStore(pool *Pool) *SwapStore {
	return &SwapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapStore = (*SwapStore)(nil)

const insertSwapQuery = `
	INSERT INTO classified_swaps (
		tx_signature, leg, timestamp, swapper, direction,
		quote_mint, quote_symbol, quote_decimals,
		base_mint, base_symbol, base_decimals,
		base_amount, total_wallet_cost, net_wallet_received, network_fee_sol,
		confidence, protocol, source, swapper_method,
		rent_refunds_filtered, intermediates
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
`

const selectSwapColumns = `
	tx_signature, leg, timestamp, swapper, direction,
	quote_mint, quote_symbol, quote_decimals,
	base_mint, base_symbol, base_decimals,
	base_amount::text, total_wallet_cost::text, net_wallet_received::text, network_fee_sol::text,
	confidence, protocol, source, swapper_method,
	rent_refunds_filtered, intermediates
`

// Insert adds one classified swap leg. Returns ErrDuplicateKey if
// (tx_signature, leg) exists.
func (s *SwapStore) Insert(ctx context.Context, r *domain.SwapRecord) error {
	if r == nil || r.Swap == nil || r.Swap.Signature == "" {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	_, err := s.pool.Exec(ctx, insertSwapQuery, insertArgs(r)...)
	observability.RecordDBQuery("postgres", "insert_swap", time.Since(start).Seconds(), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert classified swap: %w", err)
	}
	return nil
}

// InsertBulk adds multiple legs atomically. Fails entire batch on any
// duplicate.
func (s *SwapStore) InsertBulk(ctx context.Context, records []*domain.SwapRecord) error {
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	err := s.insertBulk(ctx, records)
	observability.RecordDBQuery("postgres", "insert_swap_bulk", time.Since(start).Seconds(), err)
	return err
}

func (s *SwapStore) insertBulk(ctx context.Context, records []*domain.SwapRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if r == nil || r.Swap == nil || r.Swap.Signature == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertSwapQuery, insertArgs(r)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert classified swap in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySignature retrieves all legs stored for a transaction.
func (s *SwapStore) GetBySignature(ctx context.Context, signature string) ([]*domain.SwapRecord, error) {
	query := `SELECT ` + selectSwapColumns + `
		FROM classified_swaps WHERE tx_signature = $1 ORDER BY leg ASC`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, signature)
	observability.RecordDBQuery("postgres", "select_swaps_by_signature", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query swaps by signature: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records, nil
}

// GetBySwapper retrieves all legs for a swapper, ordered by timestamp ASC.
func (s *SwapStore) GetBySwapper(ctx context.Context, swapper string) ([]*domain.SwapRecord, error) {
	query := `SELECT ` + selectSwapColumns + `
		FROM classified_swaps WHERE swapper = $1 ORDER BY timestamp ASC, leg ASC`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, swapper)
	observability.RecordDBQuery("postgres", "select_swaps_by_swapper", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query swaps by swapper: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByTimeRange retrieves legs within [start, end] inclusive.
func (s *SwapStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.SwapRecord, error) {
	query := `SELECT ` + selectSwapColumns + `
		FROM classified_swaps WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC, leg ASC`

	started := time.Now()
	rows, err := s.pool.Query(ctx, query, start, end)
	observability.RecordDBQuery("postgres", "select_swaps_by_time_range", time.Since(started).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("query swaps by time range: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func insertArgs(r *domain.SwapRecord) []any {
	sw := r.Swap
	return []any{
		sw.Signature, r.Leg, sw.Timestamp, sw.Swapper, sw.Direction,
		sw.QuoteAsset.Mint, sw.QuoteAsset.Symbol, sw.QuoteAsset.Decimals,
		sw.BaseAsset.Mint, sw.BaseAsset.Symbol, sw.BaseAsset.Decimals,
		sw.Amounts.BaseAmount.String(),
		sw.Amounts.TotalWalletCost.String(),
		sw.Amounts.NetWalletReceived.String(),
		sw.Amounts.Fees.NetworkFeeSOL.String(),
		sw.Confidence, sw.Protocol, sw.Source, sw.SwapperIdentificationMethod,
		sw.RentRefundsFiltered, sw.IntermediateAssetsCollapsed,
	}
}

func scanRecords(rows pgx.Rows) ([]*domain.SwapRecord, error) {
	var records []*domain.SwapRecord
	for rows.Next() {
		var (
			r                               domain.SwapRecord
			sw                              domain.ParsedSwap
			baseAmount, cost, received, fee string
		)
		err := rows.Scan(
			&sw.Signature, &r.Leg, &sw.Timestamp, &sw.Swapper, &sw.Direction,
			&sw.QuoteAsset.Mint, &sw.QuoteAsset.Symbol, &sw.QuoteAsset.Decimals,
			&sw.BaseAsset.Mint, &sw.BaseAsset.Symbol, &sw.BaseAsset.Decimals,
			&baseAmount, &cost, &received, &fee,
			&sw.Confidence, &sw.Protocol, &sw.Source, &sw.SwapperIdentificationMethod,
			&sw.RentRefundsFiltered, &sw.IntermediateAssetsCollapsed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan classified swap: %w", err)
		}
		sw.Amounts.BaseAmount, err = decimal.NewFromString(baseAmount)
		if err != nil {
			return nil, fmt.Errorf("parse base_amount: %w", err)
		}
		sw.Amounts.TotalWalletCost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("parse total_wallet_cost: %w", err)
		}
		sw.Amounts.NetWalletReceived, err = decimal.NewFromString(received)
		if err != nil {
			return nil, fmt.Errorf("parse net_wallet_received: %w", err)
		}
		sw.Amounts.Fees.NetworkFeeSOL, err = decimal.NewFromString(fee)
		if err != nil {
			return nil, fmt.Errorf("parse network_fee_sol: %w", err)
		}
		r.Swap = &sw
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classified swaps: %w", err)
	}
	return records, nil
}
