package domain

import "github.com/shopspring/decimal"

// Epsilon is the normalized-unit threshold below which a net delta counts as
// zero. Aggregation itself stays in raw integer units; Epsilon only applies
// after dividing by 10^decimals.
var Epsilon = decimal.New(1, -9)

// Well-known mint addresses used for quote selection.
const (
	// NativeSOL is the synthetic mint under which native SOL balance
	// changes are aggregated. Matches the WSOL mint so that wrapped and
	// native legs merge into one economic asset.
	NativeSOL = "So11111111111111111111111111111111111111112"
	// WSOL is the Wrapped SOL mint address.
	WSOL = "So11111111111111111111111111111111111111112"
	// USDC mint address.
	USDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	// USDT mint address.
	USDT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// SOLDecimals is the decimal count of native SOL (lamports).
const SOLDecimals = 9

// priorityMints are the quote-eligible assets: native/wrapped SOL and the
// recognized stablecoins. Read-only after init.
var priorityMints = map[string]struct{}{
	WSOL: {},
	USDC: {},
	USDT: {},
}

// IsPriorityMint reports whether mint is quote-eligible (SOL, WSOL or a
// recognized stablecoin).
func IsPriorityMint(mint string) bool {
	_, ok := priorityMints[mint]
	return ok
}

// IsStablecoinMint reports whether mint is a recognized stablecoin.
func IsStablecoinMint(mint string) bool {
	return mint == USDC || mint == USDT
}

// AssetDelta is the per-mint aggregate for the identified swapper, derived
// fresh for every transaction and never persisted.
type AssetDelta struct {
	Mint     string
	Symbol   string
	NetDelta int64 // exact sum of the swapper's raw changeAmounts for this mint
	Decimals int32
	// IsIntermediate marks routing hops: assets received and fully
	// forwarded within the transaction, |normalized net| < Epsilon.
	IsIntermediate bool
}

// Normalized returns the net delta in decimal units (NetDelta / 10^Decimals).
func (d *AssetDelta) Normalized() decimal.Decimal {
	return decimal.New(d.NetDelta, -d.Decimals)
}

// AssetDeltaMap maps mint -> AssetDelta for one transaction.
type AssetDeltaMap map[string]*AssetDelta

// NonIntermediate returns the deltas that are not routing hops.
func (m AssetDeltaMap) NonIntermediate() []*AssetDelta {
	var out []*AssetDelta
	for _, d := range m {
		if !d.IsIntermediate {
			out = append(out, d)
		}
	}
	return out
}

// IntermediateMints returns the mints tagged as routing hops.
func (m AssetDeltaMap) IntermediateMints() []string {
	var out []string
	for mint, d := range m {
		if d.IsIntermediate {
			out = append(out, mint)
		}
	}
	return out
}
