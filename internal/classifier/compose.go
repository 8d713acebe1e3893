package classifier

import (
	"github.com/shopspring/decimal"

	"solana-swap-classifier/internal/domain"
)

// Confidence scores per swapper-identification tier. The swap-event path is
// always 100: amounts come straight from the protocol.
const (
	confidenceSwapEvent = 100
	confidenceHigh      = 90
	confidenceMedium    = 70
	confidenceLow       = 40
)

func confidenceScore(tier string) int {
	switch tier {
	case domain.ConfidenceHigh:
		return confidenceHigh
	case domain.ConfidenceMedium:
		return confidenceMedium
	default:
		return confidenceLow
	}
}

// normalize converts a raw integer amount to decimal units. Each asset is
// converted independently; legs never share precision loss.
func normalize(raw int64, decimals int32) decimal.Decimal {
	return decimal.New(raw, -decimals)
}

// composeContext carries the per-transaction facts every record shares.
type composeContext struct {
	tx           *domain.Transaction
	swapper      domain.SwapperResult
	rentFiltered int
	collapsed    []string
}

func (cc composeContext) feeBreakdown() domain.FeeBreakdown {
	return domain.FeeBreakdown{
		NetworkFeeSOL: normalize(cc.tx.FeeLamports, domain.SOLDecimals),
	}
}

// composeSwap builds the terminal record for a directional swap. Quote and
// base amounts are the absolute normalized deltas of each leg.
func composeSwap(cc composeContext, qb QuoteBaseResult) *domain.ParsedSwap {
	quoteAmount := qb.Quote.Normalized().Abs()
	baseAmount := qb.Base.Normalized().Abs()

	amounts := domain.SwapAmounts{
		BaseAmount: baseAmount,
		Fees:       cc.feeBreakdown(),
	}
	if qb.Direction == domain.DirectionBuy {
		amounts.TotalWalletCost = quoteAmount
	} else {
		amounts.NetWalletReceived = quoteAmount
	}

	return &domain.ParsedSwap{
		Signature:                   cc.tx.Signature,
		Timestamp:                   cc.tx.Timestamp,
		Swapper:                     cc.swapper.Swapper,
		Direction:                   qb.Direction,
		QuoteAsset:                  assetRef(qb.Quote),
		BaseAsset:                   assetRef(qb.Base),
		Amounts:                     amounts,
		Confidence:                  confidenceScore(cc.swapper.Confidence),
		Protocol:                    cc.tx.Protocol,
		Source:                      domain.SourceBalanceDeltas,
		SwapperIdentificationMethod: cc.swapper.Method,
		RentRefundsFiltered:         cc.rentFiltered,
		IntermediateAssetsCollapsed: cc.collapsed,
	}
}

// composeSplit emits the split protocol records for a token-to-token trade
// with no priced anchor: a SELL of the outgoing asset measured in the
// incoming asset, and a BUY of the incoming asset measured in the outgoing
// asset. No merged record exists.
func composeSplit(cc composeContext, qb QuoteBaseResult) *domain.SplitSwapPair {
	outgoing, incoming := qb.Quote, qb.Base
	outAmount := outgoing.Normalized().Abs()
	inAmount := incoming.Normalized().Abs()
	score := confidenceScore(cc.swapper.Confidence)

	sell := &domain.ParsedSwap{
		Signature:  cc.tx.Signature,
		Timestamp:  cc.tx.Timestamp,
		Swapper:    cc.swapper.Swapper,
		Direction:  domain.DirectionSell,
		QuoteAsset: assetRef(incoming),
		BaseAsset:  assetRef(outgoing),
		Amounts: domain.SwapAmounts{
			BaseAmount:        outAmount,
			NetWalletReceived: inAmount,
			Fees:              cc.feeBreakdown(),
		},
		Confidence:                  score,
		Protocol:                    cc.tx.Protocol,
		Source:                      domain.SourceBalanceDeltas,
		SwapperIdentificationMethod: cc.swapper.Method,
		RentRefundsFiltered:         cc.rentFiltered,
		IntermediateAssetsCollapsed: cc.collapsed,
	}

	buy := &domain.ParsedSwap{
		Signature:  cc.tx.Signature,
		Timestamp:  cc.tx.Timestamp,
		Swapper:    cc.swapper.Swapper,
		Direction:  domain.DirectionBuy,
		QuoteAsset: assetRef(outgoing),
		BaseAsset:  assetRef(incoming),
		Amounts: domain.SwapAmounts{
			BaseAmount:      inAmount,
			TotalWalletCost: outAmount,
			Fees:            cc.feeBreakdown(),
		},
		Confidence:                  score,
		Protocol:                    cc.tx.Protocol,
		Source:                      domain.SourceBalanceDeltas,
		SwapperIdentificationMethod: cc.swapper.Method,
		RentRefundsFiltered:         cc.rentFiltered,
		IntermediateAssetsCollapsed: cc.collapsed,
	}

	return &domain.SplitSwapPair{
		Signature:   cc.tx.Signature,
		Timestamp:   cc.tx.Timestamp,
		Swapper:     cc.swapper.Swapper,
		SplitReason: domain.SplitReasonNoPriorityAsset,
		SellRecord:  sell,
		BuyRecord:   buy,
		Protocol:    cc.tx.Protocol,
	}
}

// composeFromHint builds the maximum-confidence record from a
// protocol-reported swap event. Amount signs are from the swapper's
// perspective: negative means spent. The caller verified sign consistency.
func composeFromHint(cc composeContext, hint *domain.SwapEventHint) *domain.ParsedSwap {
	direction := domain.DirectionSell
	if hint.QuoteAmountRaw < 0 {
		direction = domain.DirectionBuy
	}

	quoteAmount := normalize(abs64(hint.QuoteAmountRaw), hint.QuoteDecimals)
	baseAmount := normalize(abs64(hint.BaseAmountRaw), hint.BaseDecimals)

	amounts := domain.SwapAmounts{
		BaseAmount: baseAmount,
		Fees:       cc.feeBreakdown(),
	}
	if direction == domain.DirectionBuy {
		amounts.TotalWalletCost = quoteAmount
	} else {
		amounts.NetWalletReceived = quoteAmount
	}

	return &domain.ParsedSwap{
		Signature: cc.tx.Signature,
		Timestamp: cc.tx.Timestamp,
		Swapper:   cc.swapper.Swapper,
		Direction: direction,
		QuoteAsset: domain.AssetRef{
			Mint:     hint.QuoteMint,
			Decimals: hint.QuoteDecimals,
		},
		BaseAsset: domain.AssetRef{
			Mint:     hint.BaseMint,
			Decimals: hint.BaseDecimals,
		},
		Amounts:                     amounts,
		Confidence:                  confidenceSwapEvent,
		Protocol:                    cc.tx.Protocol,
		Source:                      domain.SourceSwapEvent,
		SwapperIdentificationMethod: cc.swapper.Method,
		RentRefundsFiltered:         cc.rentFiltered,
		IntermediateAssetsCollapsed: cc.collapsed,
	}
}

func assetRef(d *domain.AssetDelta) domain.AssetRef {
	return domain.AssetRef{Mint: d.Mint, Symbol: d.Symbol, Decimals: d.Decimals}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
