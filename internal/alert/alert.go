// Package alert pushes classified-swap notifications to downstream channels.
package alert

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"solana-swap-classifier/internal/domain"
)

// Notifier delivers one swap notification. Implementations decide the
// channel (log, chat webhook, queue); the pipeline only formats.
type Notifier interface {
	Notify(ctx context.Context, swap *domain.ParsedSwap) error
}

// MinNotifyAmount suppresses notifications for dust trades, denominated in
// the quote asset.
var MinNotifyAmount = decimal.New(1, -2)

// FormatSwapSummary renders a one-line human-readable summary of a swap.
func FormatSwapSummary(swap *domain.ParsedSwap) string {
	var sb strings.Builder

	quote := swap.Amounts.TotalWalletCost
	verb := "bought"
	if swap.Direction == domain.DirectionSell {
		quote = swap.Amounts.NetWalletReceived
		verb = "sold"
	}

	sb.WriteString(fmt.Sprintf("%s %s %s %s for %s %s",
		shortAddress(swap.Swapper), verb,
		swap.Amounts.BaseAmount.String(), assetLabel(swap.BaseAsset),
		quote.String(), assetLabel(swap.QuoteAsset),
	))

	if swap.Protocol != "" {
		sb.WriteString(" on " + swap.Protocol)
	}
	sb.WriteString(fmt.Sprintf(" (confidence %d, tx %s)", swap.Confidence, shortAddress(swap.Signature)))

	return sb.String()
}

func assetLabel(a domain.AssetRef) string {
	if a.Symbol != "" {
		return a.Symbol
	}
	return shortAddress(a.Mint)
}

// shortAddress abbreviates base58 strings for log lines.
func shortAddress(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}
