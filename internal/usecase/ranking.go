package usecase

import (
	"sort"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// selectOffers ranks offers without dropping any.
func selectOffers(offers []domain.Offer, _ *domain.FilterContext) ([]domain.Offer, []Rejection, error) {
	return SortOffers(offers), nil, nil
}

// SortOffers orders offers for selection:
//
//	1. TotalPriceWithCarryOn ascending
//	2. first outbound departure ascending (offers without one sort last)
//	3. ID ascending
//
// The sort is stable and works on a copy; the input slice is not modified.
func SortOffers(offers []domain.Offer) []domain.Offer {
	result := make([]domain.Offer, len(offers))
	copy(result, offers)

	if len(result) <= 1 {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		return lessOffer(result[i], result[j])
	})
	return result
}

// lessOffer reports whether a ranks strictly before b.
func lessOffer(a, b domain.Offer) bool {
	if c := a.TotalPriceWithCarryOn.Cmp(b.TotalPriceWithCarryOn); c != 0 {
		return c < 0
	}

	ad, aok := a.FirstDeparture()
	bd, bok := b.FirstDeparture()
	switch {
	case aok && !bok:
		return true
	case !aok && bok:
		return false
	case aok && bok && !ad.Equal(bd):
		return ad.Before(bd)
	}

	return a.ID < b.ID
}
