package classifier

import (
	"fmt"

	"github.com/mr-tron/base58"

	"solana-swap-classifier/internal/domain"
)

// validateTransaction checks the structural contract of the normalized
// transaction form. It returns a description of the first failing field, or
// "" when the transaction is well-formed. Failures become invalid_input
// erases, never errors.
func validateTransaction(tx *domain.Transaction) string {
	if tx == nil {
		return "transaction is nil"
	}
	if tx.Signature == "" {
		return "missing signature"
	}
	if tx.Timestamp <= 0 {
		return "missing timestamp"
	}
	if tx.FeePayer == "" {
		return "missing feePayer"
	}
	if tx.Signers == nil {
		return "missing signers"
	}
	if tx.BalanceChanges == nil {
		return "missing balanceChanges"
	}
	if tx.FeeLamports < 0 {
		return "negative fee"
	}
	for i, c := range tx.BalanceChanges {
		if !validMint(c.Mint) {
			return fmt.Sprintf("balanceChanges[%d]: malformed mint %q", i, c.Mint)
		}
	}
	if tx.SwapEvent != nil {
		if !validMint(tx.SwapEvent.QuoteMint) {
			return fmt.Sprintf("swapEvent: malformed quote mint %q", tx.SwapEvent.QuoteMint)
		}
		if !validMint(tx.SwapEvent.BaseMint) {
			return fmt.Sprintf("swapEvent: malformed base mint %q", tx.SwapEvent.BaseMint)
		}
	}
	return ""
}

// validMint reports whether mint is a canonical base58-encoded 32-byte key.
func validMint(mint string) bool {
	if len(mint) < 32 || len(mint) > 44 {
		return false
	}
	raw, err := base58.Decode(mint)
	return err == nil && len(raw) == 32
}
