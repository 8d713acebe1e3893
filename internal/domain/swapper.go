package domain

// Swapper identification confidence tiers.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Swapper identification methods, recorded for observability.
const (
	MethodFeePayer         = "fee_payer"
	MethodSignerDelta      = "signer_delta"
	MethodLargestDelta     = "largest_delta"
	MethodNonPriorityTie   = "non_priority_tiebreak"
	MethodSoleNonZeroOwner = "sole_nonzero_owner"
	MethodUnresolved       = "erase"
)

// SwapperResult identifies the wallet whose economic position changed.
// Swapper is empty when identification failed; the caller treats that as a
// terminal erase.
type SwapperResult struct {
	Swapper    string // empty when unresolved
	Confidence string // ConfidenceHigh | ConfidenceMedium | ConfidenceLow
	Method     string
}

// Resolved reports whether a swapper was identified.
func (r SwapperResult) Resolved() bool {
	return r.Swapper != ""
}
