// Package pricing defines the opaque price-lookup boundary consumed by the
// classifier's value-threshold filter. Real lookups (USD/SOL feeds) live
// outside this repository.
package pricing

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// RateSource resolves how much SOL one normalized unit of mint was worth at
// the given timestamp. ok is false when no rate is known; callers must treat
// an unknown rate as "do not filter", never as zero.
type RateSource interface {
	SOLRate(ctx context.Context, mint string, timestamp int64) (rate decimal.Decimal, ok bool)
}

// StaticRates is a fixed in-memory RateSource for tests and offline runs.
type StaticRates struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewStaticRates creates a StaticRates with the given mint -> SOL rates.
func NewStaticRates(rates map[string]decimal.Decimal) *StaticRates {
	cp := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		cp[k] = v
	}
	return &StaticRates{rates: cp}
}

// Set adds or replaces the rate for mint.
func (s *StaticRates) Set(mint string, rate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[mint] = rate
}

// SOLRate implements RateSource. The timestamp is ignored.
func (s *StaticRates) SOLRate(_ context.Context, mint string, _ int64) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rates[mint]
	return r, ok
}

// Compile-time interface check.
var _ RateSource = (*StaticRates)(nil)
