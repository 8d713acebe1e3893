package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/storage"
)

// SwapAnalyticsStore writes flat classified-swap rows into ClickHouse for
// analytical queries. MergeTree does not enforce uniqueness, so duplicate
// rows must be handled at query time or upstream.
type SwapAnalyticsStore struct {
	conn *Conn
}

// NewSwapAnalyticsStore creates a new SwapAnalyticsStore.
func NewSwapAnalyticsStore(conn *Conn) *SwapAnalyticsStore {
	return &SwapAnalyticsStore{conn: conn}
}

// InsertBulk appends one analytics row per swap record.
func (s *SwapAnalyticsStore) InsertBulk(ctx context.Context, records []*domain.SwapRecord, processingTimeMs float64) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO swap_analytics (
			tx_signature, leg, timestamp, swapper, direction,
			quote_mint, base_mint, base_amount, quote_amount,
			confidence, protocol, source, swapper_method, processing_time_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		if r == nil || r.Swap == nil {
			return storage.ErrInvalidInput
		}
		sw := r.Swap

		quoteAmount := sw.Amounts.TotalWalletCost
		if sw.Direction == domain.DirectionSell {
			quoteAmount = sw.Amounts.NetWalletReceived
		}

		err = batch.Append(
			sw.Signature, r.Leg, sw.Timestamp, sw.Swapper, sw.Direction,
			sw.QuoteAsset.Mint, sw.BaseAsset.Mint,
			sw.Amounts.BaseAmount.InexactFloat64(), quoteAmount.InexactFloat64(),
			int32(sw.Confidence), sw.Protocol, sw.Source,
			sw.SwapperIdentificationMethod, processingTimeMs,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	start := time.Now()
	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert_analytics", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountByDirection returns row counts grouped by trade direction.
func (s *SwapAnalyticsStore) CountByDirection(ctx context.Context) (map[string]uint64, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT direction, count() FROM swap_analytics GROUP BY direction
	`)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var (
			direction string
			count     uint64
		)
		if err := rows.Scan(&direction, &count); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		counts[direction] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate count rows: %w", err)
	}

	return counts, nil
}
