package http

import (
	"encoding/json"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// BatchDTO is one supplier's raw offers as posted by the caller.
// Example: {"provider": "duffel", "offers": [{"id": "off_123", ...}]}
type BatchDTO struct {
	// Provider is the schema tag of every record in Offers (amadeus, duffel)
	Provider string `json:"provider"`

	// Offers are the raw supplier records; they are handed to the adapter untouched
	Offers []json.RawMessage `json:"offers"`
}

// ToDomainBatch converts a BatchDTO to a domain.ProviderBatch.
// The provider tag is passed through as-is; unknown tags are rejected by the registry.
func (b BatchDTO) ToDomainBatch() domain.ProviderBatch {
	offers := b.Offers
	if offers == nil {
		offers = []json.RawMessage{}
	}
	return domain.ProviderBatch{
		Provider: domain.Provider(b.Provider),
		Offers:   offers,
	}
}
