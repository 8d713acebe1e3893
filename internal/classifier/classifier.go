// Package classifier turns normalized indexer transactions into classified
// swap records. The pipeline is pure per call: no I/O, no shared mutable
// state, safe to run concurrently over a batch with no coordination.
package classifier

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/pricing"
)

// DefaultMinValueSOL is the minimum quote-leg value for a swap to be kept.
var DefaultMinValueSOL = decimal.New(1, -3) // 0.001 SOL

// Config configures a Classifier. Zero values select defaults.
type Config struct {
	// Exclusions is the pool/program address set consulted during swapper
	// identification. Shared read-only across concurrent calls.
	Exclusions *ExclusionSet
	// Rates resolves mint -> SOL rates for the value-threshold filter.
	// Nil disables the filter.
	Rates pricing.RateSource
	// MinValueSOL is the acceptance threshold for the quote leg's SOL
	// value. Zero selects DefaultMinValueSOL.
	MinValueSOL decimal.Decimal
}

// Classifier is the classification pipeline entry point.
type Classifier struct {
	exclusions  *ExclusionSet
	rates       pricing.RateSource
	minValueSOL decimal.Decimal
}

// New creates a Classifier.
func New(cfg Config) *Classifier {
	c := &Classifier{
		exclusions:  cfg.Exclusions,
		rates:       cfg.Rates,
		minValueSOL: cfg.MinValueSOL,
	}
	if c.exclusions == nil {
		c.exclusions = NewExclusionSet()
	}
	if c.minValueSOL.IsZero() {
		c.minValueSOL = DefaultMinValueSOL
	}
	return c
}

// Classify runs the full pipeline over one transaction. It never returns an
// error and never panics on well-typed input: every failure mode is a
// terminal EraseResult with a reason code.
func (c *Classifier) Classify(ctx context.Context, tx *domain.Transaction) domain.Result {
	start := time.Now()
	outcome := c.classify(ctx, tx)
	return domain.Result{
		Outcome:          outcome,
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
	}
}

func (c *Classifier) classify(ctx context.Context, tx *domain.Transaction) domain.Outcome {
	if msg := validateTransaction(tx); msg != "" {
		return invalidInput(tx, msg)
	}
	if tx.Status != domain.StatusSuccess {
		return c.erase(tx, domain.EraseTransactionFailed, nil)
	}

	changes, rentFiltered := FilterRentRefunds(tx.BalanceChanges)
	if len(changes) == 0 {
		return c.erase(tx, domain.EraseNoMovementDetected, nil)
	}

	swapper := IdentifySwapper(tx.FeePayer, tx.Signers, changes, c.exclusions)
	if !swapper.Resolved() {
		return c.erase(tx, domain.EraseSwapperUnidentified, nil)
	}

	deltas := CollectAssetDeltas(changes, swapper.Swapper)
	collapsed := deltas.IntermediateMints()
	sort.Strings(collapsed)

	cc := composeContext{
		tx:           tx,
		swapper:      swapper,
		rentFiltered: rentFiltered,
		collapsed:    collapsed,
	}

	// A protocol-reported swap event is the authoritative source when
	// present and internally consistent; the delta path is the fallback.
	if hint := tx.SwapEvent; hint != nil && hintConsistent(hint) {
		swap := composeFromHint(cc, hint)
		if reason := c.accept(ctx, swap); reason != "" {
			return c.erase(tx, reason, deltas)
		}
		return swap
	}

	qb := DetectQuoteBase(deltas)
	if qb.EraseReason != "" {
		return c.erase(tx, qb.EraseReason, deltas)
	}

	if ok, reason := ValidatePair(qb.Quote, qb.Base); !ok {
		return c.erase(tx, reason, deltas)
	}

	if qb.SplitRequired {
		return composeSplit(cc, qb)
	}

	swap := composeSwap(cc, qb)
	if reason := c.accept(ctx, swap); reason != "" {
		return c.erase(tx, reason, deltas)
	}
	return swap
}

// accept applies the domain acceptance filters to a structurally valid swap.
// Returns "" when the swap passes.
func (c *Classifier) accept(ctx context.Context, swap *domain.ParsedSwap) domain.EraseReason {
	// A trade whose base leg is SOL itself moved no SPL token.
	if swap.BaseAsset.Mint == domain.WSOL {
		return domain.EraseSOLOnlyNoToken
	}

	if c.rates == nil {
		return ""
	}
	quoteAmount := swap.Amounts.TotalWalletCost
	if swap.Direction == domain.DirectionSell {
		quoteAmount = swap.Amounts.NetWalletReceived
	}
	var valueSOL decimal.Decimal
	if swap.QuoteAsset.Mint == domain.WSOL {
		valueSOL = quoteAmount
	} else {
		rate, ok := c.rates.SOLRate(ctx, swap.QuoteAsset.Mint, swap.Timestamp)
		if !ok {
			// Unknown rate never filters a swap out.
			return ""
		}
		valueSOL = quoteAmount.Mul(rate)
	}
	if valueSOL.LessThan(c.minValueSOL) {
		return domain.EraseBelowMinimumValue
	}
	return ""
}

// hintConsistent checks that a swap event hint carries opposite-signed,
// non-zero legs. Inconsistent hints fall back to the delta path. Amounts at
// the int64 floor cannot be negated and are treated as inconsistent.
func hintConsistent(h *domain.SwapEventHint) bool {
	if h.QuoteAmountRaw == 0 || h.BaseAmountRaw == 0 {
		return false
	}
	if h.QuoteAmountRaw == math.MinInt64 || h.BaseAmountRaw == math.MinInt64 {
		return false
	}
	return (h.QuoteAmountRaw < 0) != (h.BaseAmountRaw < 0)
}

func (c *Classifier) erase(tx *domain.Transaction, reason domain.EraseReason, deltas domain.AssetDeltaMap) *domain.EraseResult {
	return &domain.EraseResult{
		Signature: tx.Signature,
		Timestamp: tx.Timestamp,
		Reason:    reason,
		Debug: domain.EraseDebugInfo{
			FeePayer:    tx.FeePayer,
			Signers:     tx.Signers,
			AssetDeltas: deltas,
		},
	}
}

func invalidInput(tx *domain.Transaction, msg string) *domain.EraseResult {
	e := &domain.EraseResult{
		Reason: domain.EraseInvalidInput,
		Debug:  domain.EraseDebugInfo{ValidationError: msg},
	}
	if tx != nil {
		e.Signature = tx.Signature
		e.Timestamp = tx.Timestamp
		e.Debug.FeePayer = tx.FeePayer
		e.Debug.Signers = tx.Signers
	}
	return e
}
