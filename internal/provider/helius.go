package provider

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"solana-swap-classifier/internal/domain"
)

// heliusTransaction is the enhanced-transaction payload shape: itemized
// per-account balance deltas with decimals baked in, plus an optional
// decoded swap event.
type heliusTransaction struct {
	Signature        string              `json:"signature"`
	Timestamp        int64               `json:"timestamp"` // seconds
	Slot             int64               `json:"slot"`
	FeePayer         string              `json:"feePayer"`
	Fee              int64               `json:"fee"`
	Signers          []string            `json:"signers"`
	TransactionError json.RawMessage     `json:"transactionError"`
	Source           string              `json:"source"`
	AccountData      []heliusAccountData `json:"accountData"`
	Events           heliusEvents        `json:"events"`
}

type heliusAccountData struct {
	Account             string               `json:"account"`
	NativeBalanceChange int64                `json:"nativeBalanceChange"`
	TokenBalanceChanges []heliusTokenBalance `json:"tokenBalanceChanges"`
}

type heliusTokenBalance struct {
	UserAccount    string          `json:"userAccount"`
	TokenAccount   string          `json:"tokenAccount"`
	Mint           string          `json:"mint"`
	RawTokenAmount heliusRawAmount `json:"rawTokenAmount"`
}

type heliusRawAmount struct {
	TokenAmount string `json:"tokenAmount"` // signed raw integer as string
	Decimals    int32  `json:"decimals"`
}

type heliusEvents struct {
	Swap *heliusSwapEvent `json:"swap"`
}

type heliusSwapEvent struct {
	NativeInput  *heliusNativeLeg `json:"nativeInput"`
	NativeOutput *heliusNativeLeg `json:"nativeOutput"`
	TokenInputs  []heliusTokenLeg `json:"tokenInputs"`
	TokenOutputs []heliusTokenLeg `json:"tokenOutputs"`
}

type heliusNativeLeg struct {
	Account string `json:"account"`
	Amount  string `json:"amount"` // raw lamports as string
}

type heliusTokenLeg struct {
	UserAccount    string          `json:"userAccount"`
	Mint           string          `json:"mint"`
	RawTokenAmount heliusRawAmount `json:"rawTokenAmount"`
}

// HeliusAdapter normalizes enhanced-transaction payloads.
type HeliusAdapter struct {
	log *logrus.Logger
}

// NewHeliusAdapter creates a HeliusAdapter. A nil logger selects the
// standard logrus logger.
func NewHeliusAdapter(log *logrus.Logger) *HeliusAdapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HeliusAdapter{log: log}
}

// Compile-time interface check.
var _ Adapter = (*HeliusAdapter)(nil)

// Name returns the adapter name.
func (a *HeliusAdapter) Name() string { return NameHelius }

// Normalize decodes one enhanced-transaction payload into the internal
// transaction shape.
func (a *HeliusAdapter) Normalize(payload []byte) (*domain.Transaction, error) {
	var raw heliusTransaction
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	status := domain.StatusSuccess
	if len(raw.TransactionError) > 0 && string(raw.TransactionError) != "null" {
		status = domain.StatusFailed
	}

	tx := &domain.Transaction{
		Signature:      raw.Signature,
		Timestamp:      raw.Timestamp * 1000,
		Slot:           raw.Slot,
		FeePayer:       raw.FeePayer,
		Signers:        raw.Signers,
		Status:         status,
		FeeLamports:    raw.Fee,
		Protocol:       raw.Source,
		BalanceChanges: []domain.TokenBalanceChange{},
	}

	for _, acc := range raw.AccountData {
		if acc.NativeBalanceChange != 0 {
			tx.BalanceChanges = append(tx.BalanceChanges, domain.TokenBalanceChange{
				Address:      acc.Account,
				Owner:        acc.Account,
				Mint:         domain.NativeSOL,
				ChangeAmount: acc.NativeBalanceChange,
				Decimals:     domain.SOLDecimals,
				Symbol:       "SOL",
			})
		}
		for _, tb := range acc.TokenBalanceChanges {
			amount, err := strconv.ParseInt(tb.RawTokenAmount.TokenAmount, 10, 64)
			if err != nil {
				a.log.WithFields(logrus.Fields{
					"signature": raw.Signature,
					"mint":      tb.Mint,
				}).Warnf("unparseable token amount %q, skipping change", tb.RawTokenAmount.TokenAmount)
				continue
			}
			tx.BalanceChanges = append(tx.BalanceChanges, domain.TokenBalanceChange{
				Address:      tb.TokenAccount,
				Owner:        tb.UserAccount,
				Mint:         tb.Mint,
				ChangeAmount: amount,
				Decimals:     tb.RawTokenAmount.Decimals,
			})
		}
	}

	if raw.Events.Swap != nil {
		tx.SwapEvent = a.swapHint(raw.Signature, raw.Events.Swap)
	}

	return tx, nil
}

// swapHint converts the decoded swap event into the internal hint form:
// one quote leg and one base leg, signed from the swapper's perspective.
// Multi-legged events (aggregator routes) are dropped; the delta path
// handles those.
func (a *HeliusAdapter) swapHint(signature string, ev *heliusSwapEvent) *domain.SwapEventHint {
	type leg struct {
		mint     string
		amount   int64 // positive = received by the user
		decimals int32
	}
	var legs []leg

	if ev.NativeInput != nil {
		if v, err := strconv.ParseInt(ev.NativeInput.Amount, 10, 64); err == nil && v != 0 {
			legs = append(legs, leg{domain.NativeSOL, -v, domain.SOLDecimals})
		}
	}
	if ev.NativeOutput != nil {
		if v, err := strconv.ParseInt(ev.NativeOutput.Amount, 10, 64); err == nil && v != 0 {
			legs = append(legs, leg{domain.NativeSOL, v, domain.SOLDecimals})
		}
	}
	for _, t := range ev.TokenInputs {
		if v, err := strconv.ParseInt(t.RawTokenAmount.TokenAmount, 10, 64); err == nil && v != 0 {
			legs = append(legs, leg{t.Mint, -abs64(v), t.RawTokenAmount.Decimals})
		}
	}
	for _, t := range ev.TokenOutputs {
		if v, err := strconv.ParseInt(t.RawTokenAmount.TokenAmount, 10, 64); err == nil && v != 0 {
			legs = append(legs, leg{t.Mint, abs64(v), t.RawTokenAmount.Decimals})
		}
	}

	if len(legs) != 2 {
		a.log.WithField("signature", signature).
			Debugf("swap event with %d legs, leaving classification to balance deltas", len(legs))
		return nil
	}

	quote, base := legs[0], legs[1]
	// The priority asset is the quote leg when present.
	if !domain.IsPriorityMint(quote.mint) && domain.IsPriorityMint(base.mint) {
		quote, base = base, quote
	}

	return &domain.SwapEventHint{
		QuoteMint:      quote.mint,
		BaseMint:       base.mint,
		QuoteAmountRaw: quote.amount,
		BaseAmountRaw:  base.amount,
		QuoteDecimals:  quote.decimals,
		BaseDecimals:   base.decimals,
	}
}

// abs64 clamps math.MinInt64, which has no positive counterpart.
func abs64(v int64) int64 {
	if v == math.MinInt64 {
		return math.MaxInt64
	}
	if v < 0 {
		return -v
	}
	return v
}
