package classifier

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Known DEX program and pool-authority addresses that can never be swappers.
const (
	RaydiumAMMV4       = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RaydiumAuthorityV4 = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	RaydiumCPMM        = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"
	RaydiumCLMM        = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	PumpFun            = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	PumpFunAMM         = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"
	OrcaWhirlpool      = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	MeteoraDLMM        = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	MeteoraPools       = "Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB"
	JupiterV6          = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	TokenProgram       = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	SystemProgram      = "11111111111111111111111111111111"
)

// ExclusionSet holds the owners that are never swap candidates: known AMM
// programs, pool authorities and anything off the ed25519 curve (PDAs).
// Read-only after construction, safe to share across concurrent calls.
type ExclusionSet struct {
	addrs map[string]struct{}
}

// NewExclusionSet builds the default exclusion set, optionally extended with
// deployment-specific pool addresses.
func NewExclusionSet(extra ...string) *ExclusionSet {
	s := &ExclusionSet{addrs: make(map[string]struct{})}
	for _, a := range []string{
		RaydiumAMMV4, RaydiumAuthorityV4, RaydiumCPMM, RaydiumCLMM,
		PumpFun, PumpFunAMM, OrcaWhirlpool, MeteoraDLMM, MeteoraPools,
		JupiterV6, TokenProgram, SystemProgram,
	} {
		s.addrs[a] = struct{}{}
	}
	for _, a := range extra {
		s.addrs[a] = struct{}{}
	}
	return s
}

// Excluded reports whether addr can never be a swapper: a listed program or
// pool account, or a PDA (off-curve address, no private key exists).
// Addresses that do not decode to a canonical 32-byte key are left to input
// validation and not excluded here.
func (s *ExclusionSet) Excluded(addr string) bool {
	if _, ok := s.addrs[addr]; ok {
		return true
	}
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return false
	}
	return !isOnCurve(raw)
}

// isOnCurve reports whether a 32-byte key is a valid ed25519 point. Wallets
// are on-curve; program derived addresses are not.
func isOnCurve(raw []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
