package ingestion

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/provider"
	"solana-swap-classifier/internal/storage"
	"solana-swap-classifier/internal/storage/memory"
)

const runnerMintBONK = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

// stubSource replays a fixed list of envelopes and closes the channel.
type stubSource struct {
	envelopes []Envelope
}

func (s *stubSource) Subscribe(ctx context.Context) (<-chan Envelope, error) {
	ch := make(chan Envelope, len(s.envelopes))
	for _, env := range s.envelopes {
		ch <- env
	}
	close(ch)
	return ch, nil
}

// stubAdapter maps payload bytes to pre-built transactions by signature.
type stubAdapter struct {
	txs map[string]*domain.Transaction
}

func (a *stubAdapter) Name() string { return "stub" }

func (a *stubAdapter) Normalize(payload []byte) (*domain.Transaction, error) {
	var ref struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(payload, &ref); err != nil {
		return nil, err
	}
	return a.txs[ref.Signature], nil
}

func buyTx(signature string) *domain.Transaction {
	return &domain.Transaction{
		Signature:   signature,
		Timestamp:   1700000000000,
		Slot:        250000000,
		FeePayer:    "walletA",
		Signers:     []string{"walletA"},
		Status:      domain.StatusSuccess,
		FeeLamports: 5000,
		BalanceChanges: []domain.TokenBalanceChange{
			{Owner: "walletA", Mint: domain.WSOL, ChangeAmount: -5_000_000_000, Decimals: 9, Symbol: "SOL"},
			{Owner: "walletA", Mint: runnerMintBONK, ChangeAmount: 100_000_000_000, Decimals: 5, Symbol: "BONK"},
		},
	}
}

func failedTx(signature string) *domain.Transaction {
	tx := buyTx(signature)
	tx.Status = domain.StatusFailed
	return tx
}

func envelope(signature string) Envelope {
	return Envelope{
		Provider: "stub",
		Payload:  json.RawMessage(`{"signature":"` + signature + `"}`),
	}
}

func newTestRunner(source Source, adapter *stubAdapter, swaps storage.SwapStore, erases storage.EraseStore) *Runner {
	return NewRunner(RunnerOptions{
		Source:     source,
		Adapters:   []provider.Adapter{adapter},
		Classifier: classifier.New(classifier.Config{}),
		SwapStore:  swaps,
		EraseStore: erases,
		Workers:    2,
	})
}

func TestRunnerPersistsSwap(t *testing.T) {
	adapter := &stubAdapter{txs: map[string]*domain.Transaction{
		"sig-buy": buyTx("sig-buy"),
	}}
	swaps := memory.NewSwapStore()
	erases := memory.NewEraseStore()

	r := newTestRunner(&stubSource{envelopes: []Envelope{envelope("sig-buy")}}, adapter, swaps, erases)
	require.NoError(t, r.Run(context.Background()))

	records, err := swaps.GetBySignature(context.Background(), "sig-buy")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.LegSingle, records[0].Leg)
	assert.Equal(t, domain.DirectionBuy, records[0].Swap.Direction)
	assert.Equal(t, "walletA", records[0].Swap.Swapper)
}

func TestRunnerPersistsErase(t *testing.T) {
	adapter := &stubAdapter{txs: map[string]*domain.Transaction{
		"sig-fail": failedTx("sig-fail"),
	}}
	swaps := memory.NewSwapStore()
	erases := memory.NewEraseStore()

	r := newTestRunner(&stubSource{envelopes: []Envelope{envelope("sig-fail")}}, adapter, swaps, erases)
	require.NoError(t, r.Run(context.Background()))

	e, err := erases.GetBySignature(context.Background(), "sig-fail")
	require.NoError(t, err)
	assert.Equal(t, domain.EraseTransactionFailed, e.Reason)

	_, err = swaps.GetBySignature(context.Background(), "sig-fail")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunnerToleratesRedelivery(t *testing.T) {
	adapter := &stubAdapter{txs: map[string]*domain.Transaction{
		"sig-dup": buyTx("sig-dup"),
	}}
	swaps := memory.NewSwapStore()
	erases := memory.NewEraseStore()

	src := &stubSource{envelopes: []Envelope{envelope("sig-dup"), envelope("sig-dup")}}
	r := newTestRunner(src, adapter, swaps, erases)
	require.NoError(t, r.Run(context.Background()))

	records, err := swaps.GetBySignature(context.Background(), "sig-dup")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunnerSkipsUnknownProvider(t *testing.T) {
	adapter := &stubAdapter{txs: map[string]*domain.Transaction{}}
	swaps := memory.NewSwapStore()
	erases := memory.NewEraseStore()

	src := &stubSource{envelopes: []Envelope{
		{Provider: "unknown", Payload: json.RawMessage(`{}`)},
	}}
	r := newTestRunner(src, adapter, swaps, erases)
	require.NoError(t, r.Run(context.Background()))
}
