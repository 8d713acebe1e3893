package classifier

import "solana-swap-classifier/internal/domain"

// ValidatePair is the final gate before a swap record is materialized.
// Upstream stages can produce structurally plausible but economically
// nonsensical pairs (two simultaneous inbound transfers are not a trade);
// this rejects them with a reason code. Checks in order, first match wins.
// A delta within Epsilon of zero counts as non-positive; a same-signed pair
// that no specific gate matched falls through to the generic sign rejection.
func ValidatePair(quote, base *domain.AssetDelta) (bool, domain.EraseReason) {
	qn := quote.Normalized()
	bn := base.Normalized()

	switch {
	case qn.GreaterThan(domain.Epsilon) && bn.GreaterThan(domain.Epsilon):
		return false, domain.EraseBothPositiveAirdrop
	case qn.LessThan(domain.Epsilon.Neg()) && bn.LessThan(domain.Epsilon.Neg()):
		return false, domain.EraseBothNegativeBurn
	case bn.Abs().LessThanOrEqual(domain.Epsilon):
		return false, domain.EraseNoBaseDelta
	case qn.Sign() == bn.Sign():
		return false, domain.EraseInvalidDeltaSigns
	default:
		return true, ""
	}
}
