package ingestion

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"solana-swap-classifier/internal/observability"
)

// WebhookSource receives provider push deliveries over HTTP. Each POST body
// is a JSON array of enhanced transactions (or a single object); every
// element becomes one envelope.
type WebhookSource struct {
	provider  string
	authToken string // matched against the Authorization header when set
	logger    *log.Logger

	ch     chan Envelope
	closed chan struct{}
}

// WebhookSourceOptions contains configuration for creating a WebhookSource.
type WebhookSourceOptions struct {
	Provider  string
	AuthToken string
	Buffer    int // channel buffer, default 1024
	Logger    *log.Logger
}

// NewWebhookSource creates a new WebhookSource.
func NewWebhookSource(opts WebhookSourceOptions) *WebhookSource {
	buffer := opts.Buffer
	if buffer == 0 {
		buffer = 1024
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &WebhookSource{
		provider:  opts.Provider,
		authToken: opts.AuthToken,
		logger:    logger,
		ch:        make(chan Envelope, buffer),
		closed:    make(chan struct{}),
	}
}

// Compile-time interface check.
var _ Source = (*WebhookSource)(nil)

// Subscribe returns the envelope channel. The channel stays open; consumers
// stop via their own context. Deliveries after cancellation are refused with
// 503 instead of closing the channel under concurrent handlers.
func (s *WebhookSource) Subscribe(ctx context.Context) (<-chan Envelope, error) {
	go func() {
		<-ctx.Done()
		close(s.closed)
	}()
	return s.ch, nil
}

// ServeHTTP accepts one webhook delivery.
func (s *WebhookSource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.authToken != "" && r.Header.Get("Authorization") != s.authToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	payloads, err := splitDelivery(body)
	if err != nil {
		s.logger.Printf("Webhook delivery rejected: %v", err)
		observability.RecordDecodeError(s.provider)
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	observability.RecordWebhookBatch(len(payloads))

	for _, p := range payloads {
		select {
		case s.ch <- Envelope{Provider: s.provider, Payload: p}:
			observability.RecordTransactionReceived(s.provider)
		case <-s.closed:
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// splitDelivery splits a webhook body into individual transaction payloads.
// Providers deliver either a bare object or an array of objects.
func splitDelivery(body []byte) ([]json.RawMessage, error) {
	var batch []json.RawMessage
	if err := json.Unmarshal(body, &batch); err == nil {
		return batch, nil
	}

	var single map[string]json.RawMessage
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []json.RawMessage{body}, nil
}
