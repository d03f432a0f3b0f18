// Package provider wires the supplier adapters into a registry.
package provider

import (
	"github.com/flight-search/flight-offer-engine/internal/adapter/provider/amadeus"
	"github.com/flight-search/flight-offer-engine/internal/adapter/provider/duffel"
	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// NewDefaultRegistry returns a registry holding every supported supplier adapter.
func NewDefaultRegistry() *domain.AdapterRegistry {
	r := domain.NewAdapterRegistry()
	r.Register(amadeus.NewAdapter())
	r.Register(duffel.NewAdapter())
	return r
}
