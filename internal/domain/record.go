package domain

// Storage legs: a single classified swap persists as one "single" row, a
// split pair as one "sell" and one "buy" row sharing the signature.
const (
	LegSingle = "single"
	LegSell   = "sell"
	LegBuy    = "buy"
)

// SwapRecord is the persistence wrapper for one classified swap leg.
type SwapRecord struct {
	Leg  string
	Swap *ParsedSwap
}
