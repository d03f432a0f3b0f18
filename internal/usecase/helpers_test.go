package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

var baseDeparture = time.Date(2025, 12, 15, 8, 0, 0, 0, time.UTC)

// createTestOffer creates an offer with the given comparable price, stops and leg count.
// The outbound leg departs departureHour hours after midnight on 2025-12-15.
func createTestOffer(id string, price string, stops int, legs int, departureHour int) domain.Offer {
	p := decimal.RequireFromString(price)
	itineraries := make([]domain.Itinerary, 0, legs)
	for leg := 0; leg < legs; leg++ {
		dep := time.Date(2025, 12, 15+leg*5, departureHour, 0, 0, 0, time.UTC)
		itineraries = append(itineraries, domain.Itinerary{
			Duration:     2 * time.Hour,
			DurationInfo: domain.NewDurationInfo(120),
			Segments: []domain.Segment{
				{
					ID:            id + "-s" + string(rune('0'+leg)),
					Departure:     domain.FlightPoint{AirportCode: "JFK", DateTime: dep},
					Arrival:       domain.FlightPoint{AirportCode: "LHR", DateTime: dep.Add(2 * time.Hour)},
					CarrierCode:   "BA",
					FlightNumber:  "BA100",
					Duration:      2 * time.Hour,
					NumberOfStops: stops,
				},
			},
		})
	}
	return domain.Offer{
		Provider:              domain.ProviderAmadeus,
		ID:                    id,
		Itineraries:           itineraries,
		TotalBasePrice:        p,
		Currency:              "USD",
		TotalPriceWithCarryOn: p,
		StopsCount:            stops,
		ValidatingAirlines:    []string{"BA"},
	}
}

// defaultParams is a one-way JFK-LHR search for one passenger with a 500 USD budget.
func defaultParams() domain.FilterParams {
	return domain.FilterParams{
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-12-15",
		Passengers:    1,
		Budget:        decimal.RequireFromString("500"),
		Currency:      "USD",
	}
}

// createTestContext builds a context from defaultParams after applying fn.
func createTestContext(t testing.TB, fn func(*domain.FilterParams)) *domain.FilterContext {
	t.Helper()
	p := defaultParams()
	if fn != nil {
		fn(&p)
	}
	fctx, err := domain.NewFilterContext(p)
	require.NoError(t, err)
	return fctx
}

func offerIDs(offers []domain.Offer) []string {
	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	return ids
}

func withReturn(p *domain.FilterParams)  { p.ReturnDate = "2025-12-20" }
func withNonstop(p *domain.FilterParams) { p.NonstopRequired = true }
