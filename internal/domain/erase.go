package domain

// EraseReason enumerates the terminal "not a swap" outcomes. Every rule in
// the pipeline returns a reason code instead of raising.
type EraseReason string

const (
	EraseInvalidInput        EraseReason = "invalid_input"
	EraseTransactionFailed   EraseReason = "transaction_failed"
	EraseSwapperUnidentified EraseReason = "swapper_identification_failed"
	EraseInvalidAssetCount   EraseReason = "invalid_asset_count"
	EraseInvalidDeltaSigns   EraseReason = "invalid_delta_signs"
	EraseBothPositiveAirdrop EraseReason = "both_positive_airdrop"
	EraseBothNegativeBurn    EraseReason = "both_negative_burn"
	EraseNoBaseDelta         EraseReason = "no_base_delta"
	EraseSOLOnlyNoToken      EraseReason = "sol_only_no_token"
	EraseBelowMinimumValue   EraseReason = "below_minimum_value_threshold"
	EraseNoMovementDetected  EraseReason = "no_movement_detected"
)

// EraseDebugInfo preserves enough context to audit an erase decision.
type EraseDebugInfo struct {
	FeePayer        string
	Signers         []string
	AssetDeltas     AssetDeltaMap
	ValidationError string // set for EraseInvalidInput: first failing field
}

// EraseResult is the terminal failure record; it never contains a swap.
type EraseResult struct {
	Signature string
	Timestamp int64
	Reason    EraseReason
	Debug     EraseDebugInfo
}
