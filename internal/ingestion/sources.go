// Package ingestion feeds raw provider payloads into the classification
// pipeline and persists the results.
package ingestion

import (
	"context"
	"encoding/json"
)

// Envelope is one raw transaction payload tagged with the provider that
// produced it. The payload shape is provider-specific; adapters decode it.
type Envelope struct {
	Provider string
	Payload  json.RawMessage
}

// Source provides raw transaction payloads from an external feed.
type Source interface {
	// Subscribe returns a channel of envelopes. The channel is closed when
	// the source shuts down. Envelopes may arrive out of order.
	Subscribe(ctx context.Context) (<-chan Envelope, error)
}
