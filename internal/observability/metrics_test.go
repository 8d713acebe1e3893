package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQueryCountsOnlyErrors(t *testing.T) {
	errCounter := DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "insert_swap")
	before := testutil.ToFloat64(errCounter)

	RecordDBQuery("postgres", "insert_swap", 0.01, nil)
	RecordDBQuery("postgres", "insert_swap", 0.01, errors.New("connection reset"))

	if got := testutil.ToFloat64(errCounter) - before; got != 1 {
		t.Fatalf("error counter delta = %v, want 1", got)
	}
}

func TestRecordDecodeLatencyObserves(t *testing.T) {
	before := testutil.CollectAndCount(DefaultMetrics.ProviderDecodeLatency)

	RecordDecodeLatency("helius", 0.002)

	if got := testutil.CollectAndCount(DefaultMetrics.ProviderDecodeLatency); got < before+1 {
		t.Fatalf("decode latency series = %d, want at least %d", got, before+1)
	}
}

func TestRecordSwapTouchesHealthGauge(t *testing.T) {
	DefaultMetrics.LastSuccessfulClassification.Set(0)

	RecordSwap("fee_payer", 0.001)

	if ts := testutil.ToFloat64(DefaultMetrics.LastSuccessfulClassification); ts <= 0 {
		t.Fatalf("last successful classification = %v, want a recent timestamp", ts)
	}
}
