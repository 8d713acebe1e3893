package classifier

import (
	"testing"

	"solana-swap-classifier/internal/domain"
)

func TestIdentifySwapper_FeePayerWithLargestDelta(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "payer", Mint: domain.NativeSOL, ChangeAmount: -5_000_000_000, Decimals: 9},
		{Owner: "payer", Mint: mintBONK, ChangeAmount: 1_000_000, Decimals: 5},
	}

	res := IdentifySwapper("payer", []string{"payer"}, changes, NewExclusionSet())

	if res.Swapper != "payer" {
		t.Fatalf("swapper = %q, want payer", res.Swapper)
	}
	if res.Confidence != domain.ConfidenceHigh || res.Method != domain.MethodFeePayer {
		t.Errorf("got confidence=%s method=%s, want high/fee_payer", res.Confidence, res.Method)
	}
}

func TestIdentifySwapper_LargestDeltaBeatsFeePayer(t *testing.T) {
	// Relayer-paid transaction: the fee payer barely moves, the real
	// swapper's delta is strictly larger and wins.
	changes := []domain.TokenBalanceChange{
		{Owner: "relayer", Mint: domain.NativeSOL, ChangeAmount: -10_000_000, Decimals: 9},
		{Owner: "trader", Mint: domain.NativeSOL, ChangeAmount: -3_000_000_000, Decimals: 9},
		{Owner: "trader", Mint: mintWIF, ChangeAmount: 500_000_000, Decimals: 6},
	}

	res := IdentifySwapper("relayer", []string{"relayer", "trader"}, changes, NewExclusionSet())

	if res.Swapper != "trader" {
		t.Fatalf("swapper = %q, want trader", res.Swapper)
	}
	if res.Confidence != domain.ConfidenceHigh || res.Method != domain.MethodSignerDelta {
		t.Errorf("got confidence=%s method=%s, want high/signer_delta", res.Confidence, res.Method)
	}
}

func TestIdentifySwapper_ExcludedOwnersNeverWin(t *testing.T) {
	// The pool side of the trade carries the mirror-image delta. It must
	// never be selected, however large.
	changes := []domain.TokenBalanceChange{
		{Owner: RaydiumAuthorityV4, Mint: domain.NativeSOL, ChangeAmount: 5_000_000_000, Decimals: 9},
		{Owner: "payer", Mint: domain.NativeSOL, ChangeAmount: -5_000_000_000, Decimals: 9},
		{Owner: "payer", Mint: mintBONK, ChangeAmount: 1_000_000, Decimals: 5},
	}

	res := IdentifySwapper("payer", []string{"payer"}, changes, NewExclusionSet())
	if res.Swapper != "payer" {
		t.Fatalf("swapper = %q, want payer (pool authority excluded)", res.Swapper)
	}
}

func TestIdentifySwapper_TieBreaksTowardNonPriorityAsset(t *testing.T) {
	// Two owners tied at the same absolute delta: one moved SOL, the
	// other moved a token. The token owner is the swapper; the SOL leg
	// usually belongs to the pool half of the trade.
	changes := []domain.TokenBalanceChange{
		{Owner: "walletSOL", Mint: domain.NativeSOL, ChangeAmount: 2_000_000_000, Decimals: 9},
		{Owner: "walletTok", Mint: mintWIF, ChangeAmount: -2_000_000_000, Decimals: 9},
	}

	res := IdentifySwapper("payer", []string{"payer"}, changes, NewExclusionSet())

	if res.Swapper != "walletTok" {
		t.Fatalf("swapper = %q, want walletTok", res.Swapper)
	}
	if res.Method != domain.MethodNonPriorityTie {
		t.Errorf("method = %s, want %s", res.Method, domain.MethodNonPriorityTie)
	}
}

func TestIdentifySwapper_SoleNonZeroOwnerEscalation(t *testing.T) {
	// Fee payer and signers moved nothing; exactly one other owner did.
	changes := []domain.TokenBalanceChange{
		{Owner: "walletC", Mint: mintBONK, ChangeAmount: 42_000, Decimals: 5},
	}

	res := IdentifySwapper("payer", []string{"payer"}, changes, NewExclusionSet())

	if res.Swapper != "walletC" {
		t.Fatalf("swapper = %q, want walletC", res.Swapper)
	}
	if res.Confidence != domain.ConfidenceHigh || res.Method != domain.MethodSoleNonZeroOwner {
		t.Errorf("got confidence=%s method=%s, want high/sole_nonzero_owner", res.Confidence, res.Method)
	}
}

func TestIdentifySwapper_AmbiguousTieErases(t *testing.T) {
	changes := []domain.TokenBalanceChange{
		{Owner: "walletC", Mint: mintBONK, ChangeAmount: 42_000, Decimals: 5},
		{Owner: "walletD", Mint: mintBONK, ChangeAmount: -42_000, Decimals: 5},
	}

	res := IdentifySwapper("payer", []string{"payer"}, changes, NewExclusionSet())

	if res.Resolved() {
		t.Fatalf("ambiguous tie must not resolve, got %q", res.Swapper)
	}
	if res.Confidence != domain.ConfidenceLow || res.Method != domain.MethodUnresolved {
		t.Errorf("got confidence=%s method=%s, want low/erase", res.Confidence, res.Method)
	}
}

func TestIdentifySwapper_NoChanges(t *testing.T) {
	res := IdentifySwapper("payer", []string{"payer"}, nil, NewExclusionSet())
	if res.Resolved() {
		t.Fatalf("no changes must not resolve, got %q", res.Swapper)
	}
}

func TestExclusionSet_OffCurveAddressExcluded(t *testing.T) {
	set := NewExclusionSet()

	// Raydium's pool authority is a PDA: off the ed25519 curve.
	if !set.Excluded(RaydiumAuthorityV4) {
		t.Error("PDA pool authority must be excluded")
	}
	// A known on-curve mint address is not excluded by the curve check.
	if set.Excluded(mintBONK) {
		t.Error("on-curve address must not be excluded")
	}
	// Short synthetic names never decode; validation handles them elsewhere.
	if set.Excluded("walletA") {
		t.Error("non-canonical address must not be excluded here")
	}
}
