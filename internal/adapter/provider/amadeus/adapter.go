// Package amadeus normalizes offers from the GDS-style aggregator schema
// (itineraries[].segments[], travelerPricings[].fareDetailsBySegment[]).
package amadeus

import (
	"encoding/json"

	"github.com/flight-search/flight-offer-engine/internal/adapter/provider/normalize"
	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// Adapter implements domain.ProviderAdapter for Amadeus flight offers.
type Adapter struct{}

// NewAdapter creates a new Amadeus adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Provider returns the Amadeus provider tag.
func (a *Adapter) Provider() domain.Provider {
	return ProviderName
}

// Normalize decodes one raw Amadeus flight offer and maps it to the canonical Offer.
func (a *Adapter) Normalize(raw json.RawMessage, fctx *domain.FilterContext) (offer domain.Offer, err error) {
	n := &normalizer{}
	defer normalize.Recover(ProviderName, &n.offerID, &err)

	if fctx == nil {
		return domain.Offer{}, domain.NewValidationError("context", "filter context is required")
	}

	var fo flightOffer
	if err := json.Unmarshal(raw, &fo); err != nil {
		return domain.Offer{}, n.fail("$", "invalid JSON: "+err.Error())
	}

	offer, err = n.normalizeOffer(fo, fctx.Passengers())
	if err != nil {
		return domain.Offer{}, err
	}

	offer.RawData = append(json.RawMessage(nil), raw...)
	return offer, nil
}

// Ensure Adapter implements domain.ProviderAdapter at compile time.
var _ domain.ProviderAdapter = (*Adapter)(nil)
