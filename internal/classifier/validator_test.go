package classifier

import (
	"testing"

	"solana-swap-classifier/internal/domain"
)

func TestValidatePair_BothPositiveAirdrop(t *testing.T) {
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, 1_000_000_000, 9),
		delta(mintBONK, 2_000_000, 5),
	)
	if ok || reason != domain.EraseBothPositiveAirdrop {
		t.Fatalf("got ok=%v reason=%s, want both_positive_airdrop", ok, reason)
	}
}

func TestValidatePair_BothNegativeBurn(t *testing.T) {
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, -1_000_000_000, 9),
		delta(mintBONK, -2_000_000, 5),
	)
	if ok || reason != domain.EraseBothNegativeBurn {
		t.Fatalf("got ok=%v reason=%s, want both_negative_burn", ok, reason)
	}
}

func TestValidatePair_NoBaseDelta(t *testing.T) {
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, -1_000_000_000, 9),
		delta(mintBONK, 0, 5),
	)
	if ok || reason != domain.EraseNoBaseDelta {
		t.Fatalf("got ok=%v reason=%s, want no_base_delta", ok, reason)
	}
}

func TestValidatePair_ValidTrade(t *testing.T) {
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, -1_000_000_000, 9),
		delta(mintBONK, 2_000_000, 5),
	)
	if !ok || reason != "" {
		t.Fatalf("valid pair rejected: reason=%s", reason)
	}
}

func TestValidatePair_EpsilonCountsAsNonPositive(t *testing.T) {
	// A quote leg within epsilon of zero is not "positive"; the pair
	// fails on the zero base leg instead of the airdrop rule.
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, 0, 9),
		delta(mintBONK, 0, 5),
	)
	if ok || reason != domain.EraseNoBaseDelta {
		t.Fatalf("got ok=%v reason=%s, want no_base_delta", ok, reason)
	}
}

func TestValidatePair_BaseExactlyEpsilon(t *testing.T) {
	// 1 raw unit at 9 decimals normalizes to exactly the epsilon bound.
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, -1_000_000_000, 9),
		delta(mintBONK, 1, 9),
	)
	if ok || reason != domain.EraseNoBaseDelta {
		t.Fatalf("got ok=%v reason=%s, want no_base_delta", ok, reason)
	}
}

func TestValidatePair_SameSignAtEpsilonBound(t *testing.T) {
	// Quote exactly at epsilon is not "positive" for the airdrop rule, and
	// the base leg carries real movement; the generic sign rejection fires.
	ok, reason := ValidatePair(
		delta(domain.NativeSOL, 1, 9),
		delta(mintBONK, 5_000_000, 5),
	)
	if ok || reason != domain.EraseInvalidDeltaSigns {
		t.Fatalf("got ok=%v reason=%s, want invalid_delta_signs", ok, reason)
	}
}
