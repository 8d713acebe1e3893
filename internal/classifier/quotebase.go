package classifier

import "solana-swap-classifier/internal/domain"

// QuoteBaseResult selects the priced leg of the trade. Exactly one of
// {Quote+Base, EraseReason} is populated.
type QuoteBaseResult struct {
	Quote         *domain.AssetDelta
	Base          *domain.AssetDelta
	Direction     string // empty when SplitRequired, same-signed or erased
	SplitRequired bool
	EraseReason   domain.EraseReason // empty unless the asset count is wrong
}

// DetectQuoteBase picks the quote and base legs from the non-intermediate
// deltas and determines trade direction. Intermediate assets were tagged
// upstream and never count here, so a multi-hop route resolves to its first
// real outflow and final real inflow. Rules in order:
//
//  1. Anything other than exactly two non-intermediate assets is not a swap.
//  2. A priority asset (SOL/WSOL/stablecoin) is the quote; BUY when the
//     quote was spent, SELL when it was received.
//  3. No priority asset: split protocol. Quote is the outgoing leg, base the
//     incoming one, direction left to the split composer.
//
// Delta signs are not judged here: same-signed pairs still get a quote/base
// assignment and ValidatePair erases them with the specific reason
// (airdrop, burn). Direction stays empty for such pairs.
func DetectQuoteBase(deltas domain.AssetDeltaMap) QuoteBaseResult {
	assets := deltas.NonIntermediate()
	if len(assets) != 2 {
		return QuoteBaseResult{EraseReason: domain.EraseInvalidAssetCount}
	}

	a, b := assets[0], assets[1]
	aPriority := domain.IsPriorityMint(a.Mint)
	bPriority := domain.IsPriorityMint(b.Mint)

	switch {
	case aPriority && !bPriority:
		return directional(a, b)
	case bPriority && !aPriority:
		return directional(b, a)
	case aPriority && bPriority:
		// Stable-to-SOL style trades: SOL/WSOL is the reference leg,
		// otherwise fall back to asset a.
		if a.Mint == domain.WSOL {
			return directional(a, b)
		}
		if b.Mint == domain.WSOL {
			return directional(b, a)
		}
		return directional(a, b)
	default:
		// Token-to-token with no pricing anchor: split protocol.
		quote, base := a, b
		if sameSign(a.NetDelta, b.NetDelta) {
			// Not a trade; left for ValidatePair.
			return QuoteBaseResult{Quote: quote, Base: base}
		}
		if quote.NetDelta > 0 {
			quote, base = base, quote
		}
		return QuoteBaseResult{Quote: quote, Base: base, SplitRequired: true}
	}
}

func directional(quote, base *domain.AssetDelta) QuoteBaseResult {
	res := QuoteBaseResult{Quote: quote, Base: base}
	switch {
	case quote.NetDelta < 0 && base.NetDelta > 0:
		res.Direction = domain.DirectionBuy
	case quote.NetDelta > 0 && base.NetDelta < 0:
		res.Direction = domain.DirectionSell
	}
	return res
}

func sameSign(a, b int64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
