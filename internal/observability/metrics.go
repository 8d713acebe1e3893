// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec
	ErasesTotal          *prometheus.CounterVec
	SplitPairsTotal      prometheus.Counter
	SwapperMethodTotal   *prometheus.CounterVec

	// Latency metrics
	ClassificationLatency prometheus.Histogram
	ProviderDecodeLatency *prometheus.HistogramVec

	// Ingestion metrics
	TransactionsReceived *prometheus.CounterVec
	WebhookBatchSize     prometheus.Histogram
	DecodeErrors         *prometheus.CounterVec
	WSReconnects         prometheus.Counter
	HighestSlotSeen      prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulClassification prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swap_classifier"
	}

	return &Metrics{
		// Classification metrics
		ClassificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "classifications_total",
			Help:      "Total number of classifications by outcome",
		}, []string{"outcome"}),
		ErasesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "erases_total",
			Help:      "Total number of erase results by reason code",
		}, []string{"reason"}),
		SplitPairsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "split_pairs_total",
			Help:      "Total number of token-to-token trades emitted as split pairs",
		}),
		SwapperMethodTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "swapper_method_total",
			Help:      "Total number of swapper identifications by method",
		}, []string{"method"}),

		// Latency metrics
		ClassificationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "latency_seconds",
			Help:      "Classification latency in seconds",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		}),
		ProviderDecodeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "decode_latency_seconds",
			Help:      "Provider payload decode latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),

		// Ingestion metrics
		TransactionsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_received_total",
			Help:      "Total number of transactions received by source",
		}, []string{"source"}),
		WebhookBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "webhook_batch_size",
			Help:      "Number of transactions per webhook delivery",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		DecodeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "decode_errors_total",
			Help:      "Total number of payload decode errors by provider",
		}, []string{"provider"}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnections",
		}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulClassification: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_classification_timestamp",
			Help:      "Unix timestamp of last successful classification",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// Outcome labels for ClassificationsTotal.
const (
	OutcomeSwap  = "swap"
	OutcomeSplit = "split"
	OutcomeErase = "erase"
)

// RecordSwap records a successful single-record classification.
func RecordSwap(method string, latencySeconds float64) {
	DefaultMetrics.ClassificationsTotal.WithLabelValues(OutcomeSwap).Inc()
	DefaultMetrics.SwapperMethodTotal.WithLabelValues(method).Inc()
	DefaultMetrics.ClassificationLatency.Observe(latencySeconds)
	DefaultMetrics.LastSuccessfulClassification.SetToCurrentTime()
}

// RecordSplit records a token-to-token split pair classification.
func RecordSplit(method string, latencySeconds float64) {
	DefaultMetrics.ClassificationsTotal.WithLabelValues(OutcomeSplit).Inc()
	DefaultMetrics.SplitPairsTotal.Inc()
	DefaultMetrics.SwapperMethodTotal.WithLabelValues(method).Inc()
	DefaultMetrics.ClassificationLatency.Observe(latencySeconds)
	DefaultMetrics.LastSuccessfulClassification.SetToCurrentTime()
}

// RecordErase records a terminal non-swap classification.
func RecordErase(reason string, latencySeconds float64) {
	DefaultMetrics.ClassificationsTotal.WithLabelValues(OutcomeErase).Inc()
	DefaultMetrics.ErasesTotal.WithLabelValues(reason).Inc()
	DefaultMetrics.ClassificationLatency.Observe(latencySeconds)
}

// RecordTransactionReceived increments the per-source ingestion counter.
func RecordTransactionReceived(source string) {
	DefaultMetrics.TransactionsReceived.WithLabelValues(source).Inc()
}

// RecordWebhookBatch records the size of a webhook delivery.
func RecordWebhookBatch(size int) {
	DefaultMetrics.WebhookBatchSize.Observe(float64(size))
}

// RecordDecodeError records a provider payload decode failure.
func RecordDecodeError(provider string) {
	DefaultMetrics.DecodeErrors.WithLabelValues(provider).Inc()
}

// RecordDecodeLatency records how long a provider payload took to normalize.
func RecordDecodeLatency(provider string, seconds float64) {
	DefaultMetrics.ProviderDecodeLatency.WithLabelValues(provider).Observe(seconds)
}

// UpdateHighestSlot updates the highest slot seen gauge.
func UpdateHighestSlot(slot int64) {
	DefaultMetrics.HighestSlotSeen.Set(float64(slot))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
