package classifier

import (
	"testing"

	"solana-swap-classifier/internal/domain"
)

func TestFilterRentRefunds_DropsTinyNativeInflows(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: domain.NativeSOL, ChangeAmount: 2_039_280, Decimals: 9},  // rent refund
		{Owner: "walletA", Mint: domain.NativeSOL, ChangeAmount: -5_000_000_000, Decimals: 9},
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: 1_000_000, Decimals: 5},
	}

	kept, filtered := FilterRentRefunds(changes)

	if filtered != 1 {
		t.Fatalf("expected 1 filtered change, got %d", filtered)
	}
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept changes, got %d", len(kept))
	}
	for _, c := range kept {
		if c.Mint == domain.NativeSOL && c.ChangeAmount > 0 {
			t.Errorf("rent refund survived filtering: %+v", c)
		}
	}
}

func TestFilterRentRefunds_KeepsInflowsAtThreshold(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: domain.NativeSOL, ChangeAmount: RentRefundThresholdLamports, Decimals: 9},
	}

	kept, filtered := FilterRentRefunds(changes)
	if filtered != 0 || len(kept) != 1 {
		t.Fatalf("inflow at threshold should be kept, got kept=%d filtered=%d", len(kept), filtered)
	}
}

func TestFilterRentRefunds_IgnoresTokenInflows(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "walletA", Mint: mintBONK, ChangeAmount: 100, Decimals: 5},
	}

	kept, filtered := FilterRentRefunds(changes)
	if filtered != 0 || len(kept) != 1 {
		t.Fatalf("small token inflow is not a rent refund, got kept=%d filtered=%d", len(kept), filtered)
	}
}

func TestFilterRentRefunds_EmptyInput(t *testing.T) {
	kept, filtered := FilterRentRefunds(nil)
	if kept != nil || filtered != 0 {
		t.Fatalf("empty input should yield empty output, got kept=%v filtered=%d", kept, filtered)
	}
}
