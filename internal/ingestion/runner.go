package ingestion

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"solana-swap-classifier/internal/alert"
	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/provider"
	"solana-swap-classifier/internal/storage"
)

// AnalyticsSink receives flat swap rows for analytical storage. Failures are
// logged, never propagated; the primary store is the source of truth.
type AnalyticsSink interface {
	InsertBulk(ctx context.Context, records []*domain.SwapRecord, processingTimeMs float64) error
}

// Runner consumes envelopes from a source, classifies them and persists the
// results. Decoding and classification run on a worker pool; persistence is
// idempotent because duplicate keys are tolerated.
type Runner struct {
	source     Source
	adapters   map[string]provider.Adapter
	classifier *classifier.Classifier
	swapStore  storage.SwapStore
	eraseStore storage.EraseStore
	analytics  AnalyticsSink
	notifier   alert.Notifier
	workers    int
	logger     *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source     Source
	Adapters   []provider.Adapter
	Classifier *classifier.Classifier
	SwapStore  storage.SwapStore
	EraseStore storage.EraseStore
	Analytics  AnalyticsSink
	Notifier   alert.Notifier
	Workers    int // Default: 4
	Logger     *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	workers := opts.Workers
	if workers == 0 {
		workers = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	adapters := make(map[string]provider.Adapter, len(opts.Adapters))
	for _, a := range opts.Adapters {
		adapters[a.Name()] = a
	}

	return &Runner{
		source:     opts.Source,
		adapters:   adapters,
		classifier: opts.Classifier,
		swapStore:  opts.SwapStore,
		eraseStore: opts.EraseStore,
		analytics:  opts.Analytics,
		notifier:   opts.Notifier,
		workers:    workers,
		logger:     logger,
	}
}

// Run starts the worker pool and blocks until the source channel closes or
// the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	envelopes, err := r.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	r.logger.Printf("Runner started with %d workers", r.workers)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case env, ok := <-envelopes:
					if !ok {
						return
					}
					r.process(ctx, env)
				}
			}
		}()
	}

	wg.Wait()
	r.logger.Println("Runner stopping...")
	return ctx.Err()
}

// process decodes, classifies and persists one envelope.
func (r *Runner) process(ctx context.Context, env Envelope) {
	adapter, ok := r.adapters[env.Provider]
	if !ok {
		r.logger.Printf("No adapter for provider %q", env.Provider)
		observability.RecordDecodeError(env.Provider)
		return
	}

	decodeStart := time.Now()
	tx, err := adapter.Normalize(env.Payload)
	observability.RecordDecodeLatency(env.Provider, time.Since(decodeStart).Seconds())
	if err != nil {
		r.logger.Printf("Decode error from %s: %v", env.Provider, err)
		observability.RecordDecodeError(env.Provider)
		return
	}

	result := r.classifier.Classify(ctx, tx)
	latency := result.ProcessingTimeMs / 1000

	switch outcome := result.Outcome.(type) {
	case *domain.ParsedSwap:
		observability.RecordSwap(outcome.SwapperIdentificationMethod, latency)
		r.storeSwaps(ctx, []*domain.SwapRecord{
			{Leg: domain.LegSingle, Swap: outcome},
		}, result.ProcessingTimeMs)
	case *domain.SplitSwapPair:
		observability.RecordSplit(outcome.SellRecord.SwapperIdentificationMethod, latency)
		r.storeSwaps(ctx, []*domain.SwapRecord{
			{Leg: domain.LegSell, Swap: outcome.SellRecord},
			{Leg: domain.LegBuy, Swap: outcome.BuyRecord},
		}, result.ProcessingTimeMs)
	case *domain.EraseResult:
		observability.RecordErase(string(outcome.Reason), latency)
		r.storeErase(ctx, outcome)
	}
}

func (r *Runner) storeSwaps(ctx context.Context, records []*domain.SwapRecord, processingTimeMs float64) {
	if r.swapStore != nil {
		if err := r.swapStore.InsertBulk(ctx, records); err != nil {
			if !errors.Is(err, storage.ErrDuplicateKey) {
				r.logger.Printf("Error storing swap %s: %v", records[0].Swap.Signature, err)
			}
			// Duplicate is expected on redelivery, not an error
			return
		}
	}
	if r.analytics != nil {
		if err := r.analytics.InsertBulk(ctx, records, processingTimeMs); err != nil {
			r.logger.Printf("Error writing analytics for %s: %v", records[0].Swap.Signature, err)
		}
	}
	if r.notifier != nil {
		for _, rec := range records {
			if err := r.notifier.Notify(ctx, rec.Swap); err != nil {
				r.logger.Printf("Error notifying swap %s: %v", rec.Swap.Signature, err)
			}
		}
	}
}

func (r *Runner) storeErase(ctx context.Context, e *domain.EraseResult) {
	if r.eraseStore == nil {
		return
	}
	if err := r.eraseStore.Insert(ctx, e); err != nil {
		if !errors.Is(err, storage.ErrDuplicateKey) {
			r.logger.Printf("Error storing erase %s: %v", e.Signature, err)
		}
	}
}
