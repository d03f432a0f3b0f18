// Package duffel normalizes offers from the NDC-style supplier schema
// (slices[].segments[], available_services[]). Records are read by path with gjson
// so that every failure can name the exact field that was missing or malformed.
package duffel

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/flight-search/flight-offer-engine/internal/adapter/provider/normalize"
	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// ProviderName is the tag this adapter is registered under.
const ProviderName = domain.ProviderDuffel

// Adapter implements domain.ProviderAdapter for Duffel offers.
type Adapter struct{}

// NewAdapter creates a new Duffel adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Provider returns the Duffel provider tag.
func (a *Adapter) Provider() domain.Provider {
	return ProviderName
}

// Normalize reads one raw Duffel offer and maps it to the canonical Offer.
func (a *Adapter) Normalize(raw json.RawMessage, fctx *domain.FilterContext) (offer domain.Offer, err error) {
	n := &normalizer{}
	defer normalize.Recover(ProviderName, &n.offerID, &err)

	if fctx == nil {
		return domain.Offer{}, domain.NewValidationError("context", "filter context is required")
	}

	if !gjson.ValidBytes(raw) {
		return domain.Offer{}, n.fail("$", "invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return domain.Offer{}, n.fail("$", "offer must be a JSON object")
	}

	offer, err = n.normalizeOffer(doc, fctx.Passengers())
	if err != nil {
		return domain.Offer{}, err
	}

	offer.RawData = append(json.RawMessage(nil), raw...)
	return offer, nil
}

// Ensure Adapter implements domain.ProviderAdapter at compile time.
var _ domain.ProviderAdapter = (*Adapter)(nil)
