// Package domain defines the provider-agnostic transaction shape and the
// records produced by swap classification.
package domain

// Transaction status values reported by the upstream indexer.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// TokenBalanceChange is one observed balance delta for one account in one
// transaction, as supplied by the provider. Immutable once constructed.
type TokenBalanceChange struct {
	Address      string // token account address
	Owner        string // controlling wallet
	Mint         string // asset mint address
	ChangeAmount int64  // signed raw delta (pre-decimals)
	PreBalance   int64  // raw balance before the transaction
	PostBalance  int64  // raw balance after the transaction
	Decimals     int32  // asset decimals
	Symbol       string // optional, provider-supplied
}

// SwapEventHint is a protocol-reported swap event attached by providers that
// decode DEX instructions themselves. When present and consistent it is the
// authoritative classification source.
type SwapEventHint struct {
	QuoteMint      string
	BaseMint       string
	QuoteAmountRaw int64
	BaseAmountRaw  int64
	QuoteDecimals  int32
	BaseDecimals   int32
}

// Transaction is the normalized form every provider adapter produces.
// The classification pipeline never sees provider-specific JSON.
type Transaction struct {
	Signature      string
	Timestamp      int64 // Unix timestamp in milliseconds
	Slot           int64
	FeePayer       string
	Signers        []string
	Status         string // StatusSuccess | StatusFailed
	FeeLamports    int64
	Protocol       string // DEX program label if known ("raydium", "pumpfun", ...)
	BalanceChanges []TokenBalanceChange
	SwapEvent      *SwapEventHint // nil unless the provider decoded the swap
}
