package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

func testEraseResult(signature string, reason domain.EraseReason) *domain.EraseResult {
	return &domain.EraseResult{
		Signature: signature,
		Timestamp: 1700000000000,
		Reason:    reason,
		Debug: domain.EraseDebugInfo{
			FeePayer: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
			Signers:  []string{"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"},
			AssetDeltas: domain.AssetDeltaMap{
				domain.WSOL: {Mint: domain.WSOL, Symbol: "SOL", NetDelta: -1_500_000_000, Decimals: 9},
				"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {
					Mint:     "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
					Symbol:   "BONK",
					NetDelta: -100_000_000,
					Decimals: 5,
				},
			},
			ValidationError: "both legs negative",
		},
	}
}

func TestEraseStore_InsertAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEraseStore(pool)
	ctx := context.Background()

	e := testEraseResult("sig-erase-1", domain.EraseBothNegativeBurn)
	require.NoError(t, store.Insert(ctx, e))

	got, err := store.GetBySignature(ctx, "sig-erase-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EraseBothNegativeBurn, got.Reason)
	assert.Equal(t, e.Debug.FeePayer, got.Debug.FeePayer)
	assert.Equal(t, e.Debug.Signers, got.Debug.Signers)
	assert.Equal(t, e.Debug.AssetDeltas, got.Debug.AssetDeltas)
	assert.Equal(t, "both legs negative", got.Debug.ValidationError)
}

func TestEraseStore_Duplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEraseStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testEraseResult("sig-erase-dup", domain.EraseTransactionFailed)))

	err := store.Insert(ctx, testEraseResult("sig-erase-dup", domain.EraseTransactionFailed))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestEraseStore_CountByReason(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEraseStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testEraseResult("sig-count-1", domain.EraseTransactionFailed)))
	require.NoError(t, store.Insert(ctx, testEraseResult("sig-count-2", domain.EraseTransactionFailed)))
	require.NoError(t, store.Insert(ctx, testEraseResult("sig-count-3", domain.EraseNoBaseDelta)))

	counts, err := store.CountByReason(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.EraseTransactionFailed])
	assert.Equal(t, int64(1), counts[domain.EraseNoBaseDelta])
}

func TestEraseStore_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEraseStore(pool)

	_, err := store.GetBySignature(context.Background(), "sig-erase-missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
