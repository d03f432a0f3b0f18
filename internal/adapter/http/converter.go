package http

import (
	"strings"

	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/usecase"
)

// ToFilterRequest converts a validated FilterOffersRequest to a usecase.FilterRequest.
// An empty profile falls back to defaultProfile; any other value is passed through
// unchanged so the factory can reject it.
func ToFilterRequest(req *FilterOffersRequest, defaultProfile domain.Profile) usecase.FilterRequest {
	profile := domain.Profile(strings.TrimSpace(req.Profile))
	if profile == "" {
		profile = defaultProfile
	}

	var params domain.FilterParams
	if req.Context != nil {
		params = *req.Context
	}

	batches := make([]domain.ProviderBatch, len(req.Batches))
	for i, b := range req.Batches {
		batches[i] = b.ToDomainBatch()
	}

	return usecase.FilterRequest{
		Profile: profile,
		Params:  params,
		Batches: batches,
	}
}
