package alert

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"solana-swap-classifier/internal/domain"
)

func summarySwap(direction string) *domain.ParsedSwap {
	return &domain.ParsedSwap{
		Signature:  "5KtP9vbV2P8yPxUQ1h5mJb2cW3eF4gH6iJ7kL8mN9oPq",
		Timestamp:  1700000000000,
		Swapper:    "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Direction:  direction,
		QuoteAsset: domain.AssetRef{Mint: domain.WSOL, Symbol: "SOL", Decimals: 9},
		BaseAsset:  domain.AssetRef{Mint: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Symbol: "BONK", Decimals: 5},
		Amounts: domain.SwapAmounts{
			BaseAmount:        decimal.RequireFromString("1000"),
			TotalWalletCost:   decimal.RequireFromString("5.5"),
			NetWalletReceived: decimal.RequireFromString("4.5"),
		},
		Confidence: 90,
		Protocol:   "raydium",
	}
}

func TestFormatSwapSummaryBuy(t *testing.T) {
	got := FormatSwapSummary(summarySwap(domain.DirectionBuy))

	for _, want := range []string{"7xKX..gAsU", "bought", "1000 BONK", "5.5 SOL", "on raydium", "confidence 90"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestFormatSwapSummarySell(t *testing.T) {
	got := FormatSwapSummary(summarySwap(domain.DirectionSell))

	if !strings.Contains(got, "sold") {
		t.Errorf("summary %q missing %q", got, "sold")
	}
	if !strings.Contains(got, "4.5 SOL") {
		t.Errorf("sell summary must use net received, got %q", got)
	}
}

func TestLogNotifierSkipsDust(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(log.New(&buf, "", 0))

	swap := summarySwap(domain.DirectionBuy)
	swap.Amounts.TotalWalletCost = decimal.RequireFromString("0.001")

	if err := n.Notify(context.Background(), swap); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("dust trade must not be logged, got %q", buf.String())
	}

	swap.Amounts.TotalWalletCost = decimal.RequireFromString("2")
	if err := n.Notify(context.Background(), swap); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(buf.String(), "bought") {
		t.Errorf("expected summary in log, got %q", buf.String())
	}
}
