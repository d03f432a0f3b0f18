// Package mock provides test doubles for the offer engine.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, panics) around real adapters.
package mock

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// Adapter is a configurable implementation of domain.ProviderAdapter.
// By default it delegates to a real adapter; the builder methods override
// that to simulate slow, failing or crashing suppliers.
type Adapter struct {
	provider  domain.Provider
	delegate  domain.ProviderAdapter
	err       error
	panicVal  interface{}
	delay     time.Duration
	callCount int
	mu        sync.Mutex
}

// NewAdapter creates a mock registered under provider.
// delegate may be nil when every call is overridden.
func NewAdapter(provider domain.Provider, delegate domain.ProviderAdapter) *Adapter {
	return &Adapter{
		provider: provider,
		delegate: delegate,
	}
}

// WithError configures the adapter to fail every record with err.
func (a *Adapter) WithError(err error) *Adapter {
	a.err = err
	return a
}

// WithPanic configures the adapter to panic with v on every record.
func (a *Adapter) WithPanic(v interface{}) *Adapter {
	a.panicVal = v
	return a
}

// WithDelay configures the adapter to sleep before each record.
// This is useful for forcing batches to overlap.
func (a *Adapter) WithDelay(d time.Duration) *Adapter {
	a.delay = d
	return a
}

// Provider implements domain.ProviderAdapter.Provider.
func (a *Adapter) Provider() domain.Provider {
	return a.provider
}

// Normalize implements domain.ProviderAdapter.Normalize.
func (a *Adapter) Normalize(raw json.RawMessage, fctx *domain.FilterContext) (domain.Offer, error) {
	a.mu.Lock()
	a.callCount++
	a.mu.Unlock()

	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.panicVal != nil {
		panic(a.panicVal)
	}
	if a.err != nil {
		return domain.Offer{}, a.err
	}
	if a.delegate == nil {
		return domain.Offer{}, domain.NewNormalizationError(a.provider, "", "$", "no delegate configured")
	}
	return a.delegate.Normalize(raw, fctx)
}

// CallCount returns the number of records Normalize was called with.
func (a *Adapter) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.callCount
}

// Reset resets the call count to zero.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callCount = 0
}

// Ensure Adapter implements domain.ProviderAdapter at compile time.
var _ domain.ProviderAdapter = (*Adapter)(nil)

// Registry builds an adapter registry from the given adapters.
func Registry(adapters ...domain.ProviderAdapter) *domain.AdapterRegistry {
	r := domain.NewAdapterRegistry()
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}
