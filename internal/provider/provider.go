// Package provider normalizes per-provider transaction JSON into the strict
// internal transaction shape. The classification pipeline never branches on
// provider payloads; all shape differences end here.
package provider

import (
	"errors"

	"solana-swap-classifier/internal/domain"
)

// Adapter decodes one provider payload into the internal transaction shape.
type Adapter interface {
	Name() string
	Normalize(payload []byte) (*domain.Transaction, error)
}

// Adapter names.
const (
	NameHelius    = "helius"
	NameQuickNode = "quicknode"
)

// ErrMalformedPayload is returned when provider JSON cannot be decoded at
// all. Payloads that decode but violate the transaction contract are passed
// through and rejected by the classifier as invalid_input instead.
var ErrMalformedPayload = errors.New("malformed provider payload")
