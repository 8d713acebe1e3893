package provider

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"solana-swap-classifier/internal/domain"
)

// quickNodeTransaction is the transfer-list payload shape: gross token
// transfers plus a net native balance delta per account. No decoded swap
// event exists on this path; classification always runs on deltas.
type quickNodeTransaction struct {
	Signature            string                  `json:"signature"`
	BlockTime            int64                   `json:"blockTime"` // seconds
	Slot                 int64                   `json:"slot"`
	Status               string                  `json:"status"` // "Success" | "Fail"
	FeePayer             string                  `json:"feePayer"`
	Fee                  int64                   `json:"fee"`
	Signers              []string                `json:"signers"`
	TokenTransfers       []quickNodeTransfer     `json:"tokenTransfers"`
	NativeBalanceChanges []quickNodeNativeChange `json:"nativeBalanceChanges"`
}

type quickNodeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	FromTokenAccount string `json:"fromTokenAccount"`
	ToTokenAccount   string `json:"toTokenAccount"`
	Mint            string `json:"mint"`
	Amount          string `json:"amount"` // raw integer as string
	Decimals        int32  `json:"decimals"`
}

type quickNodeNativeChange struct {
	Account string `json:"account"`
	Change  int64  `json:"change"` // signed lamports
}

// QuickNodeAdapter normalizes transfer-list payloads.
type QuickNodeAdapter struct {
	log *logrus.Logger
}

// NewQuickNodeAdapter creates a QuickNodeAdapter. A nil logger selects the
// standard logrus logger.
func NewQuickNodeAdapter(log *logrus.Logger) *QuickNodeAdapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QuickNodeAdapter{log: log}
}

// Compile-time interface check.
var _ Adapter = (*QuickNodeAdapter)(nil)

// Name returns the adapter name.
func (a *QuickNodeAdapter) Name() string { return NameQuickNode }

// Normalize decodes one transfer-list payload into the internal transaction
// shape. Wrapped-SOL transfer sums are authoritative for an owner's SOL leg
// because they carry the gross swap amount; the native balance delta also
// nets transaction fees and is only used for owners with no wrapped-SOL
// transfers.
func (a *QuickNodeAdapter) Normalize(payload []byte) (*domain.Transaction, error) {
	var raw quickNodeTransaction
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	status := domain.StatusFailed
	if raw.Status == "Success" || raw.Status == "success" {
		status = domain.StatusSuccess
	}

	tx := &domain.Transaction{
		Signature:      raw.Signature,
		Timestamp:      raw.BlockTime * 1000,
		Slot:           raw.Slot,
		FeePayer:       raw.FeePayer,
		Signers:        raw.Signers,
		Status:         status,
		FeeLamports:    raw.Fee,
		BalanceChanges: []domain.TokenBalanceChange{},
	}

	// Owners with wrapped-SOL transfers: their native delta is redundant
	// (and noisier) and must not double-count the SOL leg.
	wrappedOwners := make(map[string]struct{})

	for _, tr := range raw.TokenTransfers {
		amount, err := strconv.ParseInt(tr.Amount, 10, 64)
		if err != nil || amount < 0 {
			a.log.WithFields(logrus.Fields{
				"signature": raw.Signature,
				"mint":      tr.Mint,
			}).Warnf("unparseable transfer amount %q, skipping transfer", tr.Amount)
			continue
		}
		if tr.FromUserAccount != "" {
			tx.BalanceChanges = append(tx.BalanceChanges, domain.TokenBalanceChange{
				Address:      tr.FromTokenAccount,
				Owner:        tr.FromUserAccount,
				Mint:         tr.Mint,
				ChangeAmount: -amount,
				Decimals:     tr.Decimals,
			})
			if tr.Mint == domain.WSOL {
				wrappedOwners[tr.FromUserAccount] = struct{}{}
			}
		}
		if tr.ToUserAccount != "" {
			tx.BalanceChanges = append(tx.BalanceChanges, domain.TokenBalanceChange{
				Address:      tr.ToTokenAccount,
				Owner:        tr.ToUserAccount,
				Mint:         tr.Mint,
				ChangeAmount: amount,
				Decimals:     tr.Decimals,
			})
			if tr.Mint == domain.WSOL {
				wrappedOwners[tr.ToUserAccount] = struct{}{}
			}
		}
	}

	for _, nc := range raw.NativeBalanceChanges {
		if nc.Change == 0 {
			continue
		}
		if _, ok := wrappedOwners[nc.Account]; ok {
			continue
		}
		tx.BalanceChanges = append(tx.BalanceChanges, domain.TokenBalanceChange{
			Address:      nc.Account,
			Owner:        nc.Account,
			Mint:         domain.NativeSOL,
			ChangeAmount: nc.Change,
			Decimals:     domain.SOLDecimals,
			Symbol:       "SOL",
		})
	}

	return tx, nil
}
