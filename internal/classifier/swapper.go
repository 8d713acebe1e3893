package classifier

import (
	"github.com/shopspring/decimal"

	"solana-swap-classifier/internal/domain"
)

// ownerScore is one candidate owner's strongest economic movement: its
// largest absolute normalized net delta across all mints, and the mint that
// produced it.
type ownerScore struct {
	owner    string
	score    decimal.Decimal
	topMint  string
	priority bool // topMint is quote-eligible
}

// IdentifySwapper determines the wallet whose economic position changed,
// separating it from fee payers, relayers and pool accounts. Rules, first
// match wins:
//
//  1. The non-excluded owner with the strictly largest absolute net delta
//     wins, even when the fee payer's own delta is smaller (relayer-paid
//     transactions). Fee payer and signers get high confidence; an owner
//     that signed nothing gets medium.
//  2. Pools, vaults and PDAs never win: they are dropped before scoring.
//  3. A tie between a priority-asset owner and a non-priority-asset owner
//     breaks toward the non-priority side (the priority asset usually sits
//     on the pool half of the trade).
//  4. If the fee payer and every signer moved nothing, a sole remaining
//     non-zero owner is selected; zero or several remaining owners is an
//     unresolvable erase.
//
// Never returns an error; unresolvable cases carry an empty swapper.
func IdentifySwapper(feePayer string, signers []string, changes []domain.TokenBalanceChange, exclusions *ExclusionSet) domain.SwapperResult {
	scores := scoreOwners(changes, exclusions)
	if len(scores) == 0 {
		return domain.SwapperResult{Confidence: domain.ConfidenceLow, Method: domain.MethodUnresolved}
	}

	signerSet := make(map[string]struct{}, len(signers)+1)
	signerSet[feePayer] = struct{}{}
	for _, s := range signers {
		signerSet[s] = struct{}{}
	}

	top := topScores(scores)
	if len(top) == 1 {
		winner := top[0]
		switch {
		case winner.owner == feePayer:
			return domain.SwapperResult{Swapper: winner.owner, Confidence: domain.ConfidenceHigh, Method: domain.MethodFeePayer}
		case contains(signerSet, winner.owner):
			return domain.SwapperResult{Swapper: winner.owner, Confidence: domain.ConfidenceHigh, Method: domain.MethodSignerDelta}
		default:
			// Escalation: fee payer and every signer flat, a single
			// other owner moved. That owner is the swapper.
			if signersFlat(scores, signerSet) && countNonZero(scores) == 1 {
				return domain.SwapperResult{Swapper: winner.owner, Confidence: domain.ConfidenceHigh, Method: domain.MethodSoleNonZeroOwner}
			}
			// Largest mover did not sign: relayer-paid transaction.
			return domain.SwapperResult{Swapper: winner.owner, Confidence: domain.ConfidenceMedium, Method: domain.MethodLargestDelta}
		}
	}

	// Tie at the top. Prefer the owner whose movement is in a non-priority
	// asset; the priority leg is usually the pool side of the trade.
	if winner, ok := breakPriorityTie(top); ok {
		return domain.SwapperResult{Swapper: winner.owner, Confidence: domain.ConfidenceMedium, Method: domain.MethodNonPriorityTie}
	}

	return domain.SwapperResult{Confidence: domain.ConfidenceLow, Method: domain.MethodUnresolved}
}

// scoreOwners aggregates raw deltas per (owner, mint), then reduces each
// non-excluded owner to its largest absolute normalized movement.
func scoreOwners(changes []domain.TokenBalanceChange, exclusions *ExclusionSet) []ownerScore {
	type key struct {
		owner string
		mint  string
	}
	sums := make(map[key]*domain.AssetDelta)
	for _, c := range changes {
		if c.Owner == "" || exclusions.Excluded(c.Owner) {
			continue
		}
		k := key{c.Owner, c.Mint}
		d, ok := sums[k]
		if !ok {
			d = &domain.AssetDelta{Mint: c.Mint, Decimals: c.Decimals}
			sums[k] = d
		}
		d.NetDelta += c.ChangeAmount
	}

	byOwner := make(map[string]*ownerScore)
	for k, d := range sums {
		abs := d.Normalized().Abs()
		s, ok := byOwner[k.owner]
		if !ok {
			byOwner[k.owner] = &ownerScore{owner: k.owner, score: abs, topMint: k.mint, priority: domain.IsPriorityMint(k.mint)}
			continue
		}
		if abs.GreaterThan(s.score) {
			s.score = abs
			s.topMint = k.mint
			s.priority = domain.IsPriorityMint(k.mint)
		}
	}

	out := make([]ownerScore, 0, len(byOwner))
	for _, s := range byOwner {
		out = append(out, *s)
	}
	return out
}

// topScores returns every owner tied for the largest score.
func topScores(scores []ownerScore) []ownerScore {
	var best decimal.Decimal
	for _, s := range scores {
		if s.score.GreaterThan(best) {
			best = s.score
		}
	}
	if best.IsZero() {
		return nil
	}
	var top []ownerScore
	for _, s := range scores {
		if s.score.Equal(best) {
			top = append(top, s)
		}
	}
	return top
}

// breakPriorityTie resolves a two-way tie between a priority-asset owner and
// a non-priority-asset owner in favor of the latter.
func breakPriorityTie(top []ownerScore) (ownerScore, bool) {
	var nonPriority []ownerScore
	hasPriority := false
	for _, s := range top {
		if s.priority {
			hasPriority = true
		} else {
			nonPriority = append(nonPriority, s)
		}
	}
	if hasPriority && len(nonPriority) == 1 {
		return nonPriority[0], true
	}
	return ownerScore{}, false
}

// signersFlat reports whether neither the fee payer nor any signer moved.
func signersFlat(scores []ownerScore, signerSet map[string]struct{}) bool {
	for _, s := range scores {
		if _, ok := signerSet[s.owner]; ok && !s.score.IsZero() {
			return false
		}
	}
	return true
}

func countNonZero(scores []ownerScore) int {
	n := 0
	for _, s := range scores {
		if !s.score.IsZero() {
			n++
		}
	}
	return n
}

func contains(set map[string]struct{}, addr string) bool {
	_, ok := set[addr]
	return ok
}
