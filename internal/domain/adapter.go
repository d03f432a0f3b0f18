package domain

import (
	"encoding/json"
	"sort"
)

//go:generate mockgen -source=adapter.go -destination=mock_adapter.go -package=domain

// ProviderAdapter maps one supplier's raw offer record into the canonical Offer.
// Implementations must be pure: no I/O, no shared mutable state.
type ProviderAdapter interface {
	// Provider returns the tag this adapter is registered under.
	Provider() Provider

	// Normalize converts a single raw record. Malformed input returns a *NormalizationError.
	Normalize(raw json.RawMessage, fctx *FilterContext) (Offer, error)
}

// ProviderBatch is the set of raw records one supplier call produced.
type ProviderBatch struct {
	// Provider is the explicit schema tag of every record in Offers.
	Provider Provider `json:"provider"`

	// Offers are the raw supplier records, untouched.
	Offers []json.RawMessage `json:"offers"`
}

// AdapterRegistry resolves provider tags to adapters.
// It is populated at startup and read-only afterwards.
type AdapterRegistry struct {
	adapters map[Provider]ProviderAdapter
}

// NewAdapterRegistry creates an empty registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[Provider]ProviderAdapter),
	}
}

// Register adds an adapter, replacing any adapter already registered for the same tag.
// Nil adapters are ignored.
func (r *AdapterRegistry) Register(a ProviderAdapter) {
	if a == nil {
		return
	}
	r.adapters[a.Provider()] = a
}

// Get returns the adapter for p, or nil if none is registered.
func (r *AdapterRegistry) Get(p Provider) ProviderAdapter {
	return r.adapters[p]
}

// Resolve returns the adapter for p or a ValidationError on the provider field.
func (r *AdapterRegistry) Resolve(p Provider) (ProviderAdapter, error) {
	if !p.IsValid() {
		return nil, NewValidationError("provider", "unknown provider "+`"`+string(p)+`"`)
	}
	a := r.Get(p)
	if a == nil {
		return nil, NewValidationError("provider", "no adapter registered for provider "+`"`+string(p)+`"`)
	}
	return a, nil
}

// Providers returns the registered tags in sorted order.
func (r *AdapterRegistry) Providers() []Provider {
	out := make([]Provider, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
