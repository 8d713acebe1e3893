package alert

import (
	"context"
	"log"

	"solana-swap-classifier/internal/domain"
)

// LogNotifier writes swap summaries to a standard logger. Useful as the
// default sink and as the template for real channel integrations.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger selects the default.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

// Compile-time interface check.
var _ Notifier = (*LogNotifier)(nil)

// Notify logs one swap summary. Dust trades below MinNotifyAmount on the
// quote leg are skipped.
func (n *LogNotifier) Notify(ctx context.Context, swap *domain.ParsedSwap) error {
	quote := swap.Amounts.TotalWalletCost
	if swap.Direction == domain.DirectionSell {
		quote = swap.Amounts.NetWalletReceived
	}
	if quote.LessThan(MinNotifyAmount) {
		return nil
	}

	n.logger.Printf("Swap: %s", FormatSwapSummary(swap))
	return nil
}
