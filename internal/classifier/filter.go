package classifier

import "solana-swap-classifier/internal/domain"

// RentRefundThresholdLamports is the ceiling for native-SOL inflows treated
// as rent refunds from closed token accounts (0.003 SOL). Refunds are noise:
// they are not part of the economic trade.
const RentRefundThresholdLamports = 3_000_000

// FilterRentRefunds strips tiny native-SOL inflows from the balance-change
// list and returns the remaining changes plus the number filtered.
// Outflows and SPL token changes pass through untouched.
func FilterRentRefunds(changes []domain.TokenBalanceChange) ([]domain.TokenBalanceChange, int) {
	if len(changes) == 0 {
		return nil, 0
	}

	kept := make([]domain.TokenBalanceChange, 0, len(changes))
	filtered := 0
	for _, c := range changes {
		if isRentRefund(c) {
			filtered++
			continue
		}
		kept = append(kept, c)
	}
	return kept, filtered
}

func isRentRefund(c domain.TokenBalanceChange) bool {
	if c.Mint != domain.NativeSOL {
		return false
	}
	return c.ChangeAmount > 0 && c.ChangeAmount < RentRefundThresholdLamports
}
