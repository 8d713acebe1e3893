package classifier

import "solana-swap-classifier/internal/domain"

// CollectAssetDeltas aggregates the swapper's balance changes into one net
// delta per mint. Aggregation is exact int64 arithmetic; nothing is rounded
// before the sums are final. Assets whose normalized net is within Epsilon of
// zero are tagged intermediate: received and fully forwarded routing hops.
// Empty input yields an empty map.
func CollectAssetDeltas(changes []domain.TokenBalanceChange, swapper string) domain.AssetDeltaMap {
	deltas := make(domain.AssetDeltaMap)
	if swapper == "" {
		return deltas
	}

	for _, c := range changes {
		if c.Owner != swapper {
			continue
		}
		d, ok := deltas[c.Mint]
		if !ok {
			d = &domain.AssetDelta{
				Mint:     c.Mint,
				Symbol:   c.Symbol,
				Decimals: c.Decimals,
			}
			deltas[c.Mint] = d
		}
		d.NetDelta += c.ChangeAmount
		if d.Symbol == "" {
			d.Symbol = c.Symbol
		}
	}

	for _, d := range deltas {
		d.IsIntermediate = d.Normalized().Abs().LessThan(domain.Epsilon)
	}
	return deltas
}
