package classifier

import (
	"testing"

	"solana-swap-classifier/internal/domain"
)

// Real mint addresses used across the classifier tests.
const (
	mintBONK = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	mintWIF  = "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm"
	mintJUP  = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
)

func TestCollectAssetDeltas_ExactSums(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: 300, Decimals: 5},
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: -100, Decimals: 5},
		{Owner: "walletA", Mint: domain.NativeSOL, ChangeAmount: -5_000_000_000, Decimals: 9},
		{Owner: "walletB", Mint: mintBONK, ChangeAmount: 999, Decimals: 5}, // other owner, ignored
	}

	deltas := CollectAssetDeltas(changes, "walletA")

	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(deltas))
	}
	if got := deltas[mintBONK].NetDelta; got != 200 {
		t.Errorf("BONK net delta = %d, want 200", got)
	}
	if got := deltas[domain.NativeSOL].NetDelta; got != -5_000_000_000 {
		t.Errorf("SOL net delta = %d, want -5000000000", got)
	}
}

func TestCollectAssetDeltas_IntermediateTagging(t *testing.T) {
	// USDC received and fully resent within the transaction: net zero.
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: domain.USDC, ChangeAmount: 250_000_000, Decimals: 6},
		{Owner: "walletA", Mint: domain.USDC, ChangeAmount: -250_000_000, Decimals: 6},
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: 1_000_000, Decimals: 5},
	}

	deltas := CollectAssetDeltas(changes, "walletA")

	if !deltas[domain.USDC].IsIntermediate {
		t.Error("zero-net USDC should be tagged intermediate")
	}
	if deltas[mintBONK].IsIntermediate {
		t.Error("non-zero BONK must not be tagged intermediate")
	}
}

func TestCollectAssetDeltas_NoFalseIntermediateTags(t *testing.T) {
	// One raw unit of a 5-decimal token normalizes to 1e-5, well above epsilon.
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: 1, Decimals: 5},
	}

	deltas := CollectAssetDeltas(changes, "walletA")
	if deltas[mintBONK].IsIntermediate {
		t.Error("1 raw unit at 5 decimals is above epsilon, must not be intermediate")
	}
}

func TestCollectAssetDeltas_EmptyInput(t *testing.T) {
	deltas := CollectAssetDeltas(nil, "walletA")
	if len(deltas) != 0 {
		t.Fatalf("empty input must yield empty map, got %d entries", len(deltas))
	}
}

func TestCollectAssetDeltas_NoSwapper(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: 100, Decimals: 5},
	}
	deltas := CollectAssetDeltas(changes, "")
	if len(deltas) != 0 {
		t.Fatalf("empty swapper must yield empty map, got %d entries", len(deltas))
	}
}
