package domain

import "github.com/shopspring/decimal"

// Trade directions from the swapper's point of view relative to the base asset.
const (
	DirectionBuy  = "BUY"
	DirectionSell = "SELL"
)

// Classification source labels recorded on ParsedSwap.
const (
	SourceSwapEvent     = "swap_event"     // protocol-reported amounts
	SourceBalanceDeltas = "balance_deltas" // derived from balance changes
)

// AssetRef identifies one leg of a trade.
type AssetRef struct {
	Mint     string
	Symbol   string
	Decimals int32
}

// FeeBreakdown itemizes transaction costs in SOL.
type FeeBreakdown struct {
	NetworkFeeSOL decimal.Decimal // base fee + priority fee paid by the fee payer
}

// SwapAmounts carries the decimal-normalized amounts of a classified swap.
// BaseAmount is always set; exactly one of TotalWalletCost (BUY) or
// NetWalletReceived (SELL) is meaningful, both denominated in the quote asset.
type SwapAmounts struct {
	BaseAmount        decimal.Decimal
	TotalWalletCost   decimal.Decimal // BUY: quote spent, fees included
	NetWalletReceived decimal.Decimal // SELL: quote received after fees
	Fees              FeeBreakdown
}

// ParsedSwap is the terminal success record of classification.
// Immutable once constructed.
type ParsedSwap struct {
	Signature string
	Timestamp int64 // Unix timestamp in milliseconds
	Swapper   string
	Direction string // DirectionBuy | DirectionSell

	QuoteAsset AssetRef
	BaseAsset  AssetRef
	Amounts    SwapAmounts

	Confidence int    // 0-100
	Protocol   string // DEX label if known
	Source     string // SourceSwapEvent | SourceBalanceDeltas

	SwapperIdentificationMethod string
	RentRefundsFiltered         int
	IntermediateAssetsCollapsed []string // mints dropped as routing hops
}

// Split reasons recorded on SplitSwapPair.
const (
	SplitReasonNoPriorityAsset = "no_priority_asset"
)

// SplitSwapPair is emitted for token-to-token trades with no quote-eligible
// asset: two linked independent records, never one merged record.
type SplitSwapPair struct {
	Signature   string
	Timestamp   int64
	Swapper     string
	SplitReason string
	SellRecord  *ParsedSwap // disposal of the outgoing asset
	BuyRecord   *ParsedSwap // acquisition of the incoming asset
	Protocol    string
}
