package amadeus

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flight-search/flight-offer-engine/internal/adapter/provider/normalize"
	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/timeutil"
)

// ProviderName is the tag this adapter is registered under.
const ProviderName = domain.ProviderAmadeus

// normalizer accumulates the offer id so every error can name it.
type normalizer struct {
	offerID string
}

func (n *normalizer) fail(path, reason string) error {
	return domain.NewNormalizationError(ProviderName, n.offerID, path, reason)
}

// normalizeOffer converts a decoded Amadeus flight offer to a domain Offer.
func (n *normalizer) normalizeOffer(fo flightOffer, passengers int) (domain.Offer, error) {
	if fo.ID == "" {
		return domain.Offer{}, n.fail("id", "missing required field")
	}
	n.offerID = fo.ID

	if fo.Price == nil {
		return domain.Offer{}, n.fail("price", "missing required field")
	}
	if fo.Price.Currency == "" {
		return domain.Offer{}, n.fail("price.currency", "missing required field")
	}

	base, err := n.basePrice(fo.Price)
	if err != nil {
		return domain.Offer{}, err
	}

	if len(fo.Itineraries) == 0 {
		return domain.Offer{}, n.fail("itineraries", "at least one itinerary is required")
	}
	itineraries := make([]domain.Itinerary, 0, len(fo.Itineraries))
	for i, it := range fo.Itineraries {
		normalized, err := n.normalizeItinerary(fmt.Sprintf("itineraries.%d", i), it)
		if err != nil {
			return domain.Offer{}, err
		}
		itineraries = append(itineraries, normalized)
	}

	carryOn, err := n.carryOn(fo)
	if err != nil {
		return domain.Offer{}, err
	}

	airlines := make([]string, 0, len(fo.ValidatingAirlineCodes))
	airlines = append(airlines, fo.ValidatingAirlineCodes...)

	offer := domain.Offer{
		Provider:           ProviderName,
		ID:                 fo.ID,
		Itineraries:        itineraries,
		TotalBasePrice:     base,
		Currency:           strings.ToUpper(fo.Price.Currency),
		StopsCount:         domain.MaxSegmentStops(itineraries),
		ValidatingAirlines: airlines,
	}
	normalize.Apply(&offer, carryOn, passengers)

	return offer, nil
}

// basePrice reads grandTotal, falling back to total when a response omits it.
func (n *normalizer) basePrice(p *price) (decimal.Decimal, error) {
	path, value := "price.grandTotal", p.GrandTotal
	if value == "" && p.Total != "" {
		path, value = "price.total", p.Total
	}
	amount, err := normalize.ParseAmount(value)
	if err != nil {
		return decimal.Decimal{}, n.fail(path, err.Error())
	}
	return amount, nil
}

// normalizeItinerary converts one Amadeus itinerary.
func (n *normalizer) normalizeItinerary(path string, it itinerary) (domain.Itinerary, error) {
	if len(it.Segments) == 0 {
		return domain.Itinerary{}, n.fail(path+".segments", "at least one segment is required")
	}

	segments := make([]domain.Segment, 0, len(it.Segments))
	for i, s := range it.Segments {
		seg, err := n.normalizeSegment(fmt.Sprintf("%s.segments.%d", path, i), s)
		if err != nil {
			return domain.Itinerary{}, err
		}
		segments = append(segments, seg)
	}

	var duration time.Duration
	if it.Duration != "" {
		d, err := normalize.ParseISODuration(it.Duration)
		if err != nil {
			return domain.Itinerary{}, n.fail(path+".duration", err.Error())
		}
		duration = d
	} else {
		duration = segments[len(segments)-1].Arrival.DateTime.Sub(segments[0].Departure.DateTime)
		if duration < 0 {
			last := fmt.Sprintf("%s.segments.%d.arrival.at", path, len(segments)-1)
			return domain.Itinerary{}, n.fail(last, "arrival is before the itinerary departure")
		}
	}

	return domain.Itinerary{
		Duration:     duration,
		DurationInfo: domain.NewDurationInfoFrom(duration),
		Segments:     segments,
	}, nil
}

// normalizeSegment converts one Amadeus segment.
func (n *normalizer) normalizeSegment(path string, s segment) (domain.Segment, error) {
	departure, err := n.normalizeEndpoint(path+".departure", s.Departure)
	if err != nil {
		return domain.Segment{}, err
	}
	arrival, err := n.normalizeEndpoint(path+".arrival", s.Arrival)
	if err != nil {
		return domain.Segment{}, err
	}

	if s.CarrierCode == "" {
		return domain.Segment{}, n.fail(path+".carrierCode", "missing required field")
	}
	if s.NumberOfStops == nil {
		return domain.Segment{}, n.fail(path+".numberOfStops", "missing required field")
	}
	if *s.NumberOfStops < 0 {
		return domain.Segment{}, n.fail(path+".numberOfStops", "must not be negative")
	}

	// A supplier duration wins over the timestamps, which may be naive local times.
	duration := arrival.DateTime.Sub(departure.DateTime)
	if s.Duration != "" {
		d, err := normalize.ParseISODuration(s.Duration)
		if err != nil {
			return domain.Segment{}, n.fail(path+".duration", err.Error())
		}
		duration = d
	} else if duration < 0 {
		return domain.Segment{}, n.fail(path+".arrival.at", "arrival is before departure")
	}

	return domain.Segment{
		ID:            s.ID,
		Departure:     departure,
		Arrival:       arrival,
		CarrierCode:   s.CarrierCode,
		FlightNumber:  s.CarrierCode + s.Number,
		Duration:      duration,
		DurationInfo:  domain.NewDurationInfoFrom(duration),
		NumberOfStops: *s.NumberOfStops,
	}, nil
}

func (n *normalizer) normalizeEndpoint(path string, e *endpoint) (domain.FlightPoint, error) {
	if e == nil {
		return domain.FlightPoint{}, n.fail(path, "missing required field")
	}
	if e.IATACode == "" {
		return domain.FlightPoint{}, n.fail(path+".iataCode", "missing required field")
	}
	at, err := timeutil.ParseSupplierDateTime(e.At)
	if err != nil {
		return domain.FlightPoint{}, n.fail(path+".at", err.Error())
	}
	return domain.FlightPoint{
		AirportCode: e.IATACode,
		Terminal:    e.Terminal,
		DateTime:    at,
	}, nil
}

// carryOn determines whether a cabin bag is bundled and, if not, what adding one costs.
// Amadeus quotes additional services without a scope indicator, so fees are per passenger.
func (n *normalizer) carryOn(fo flightOffer) (normalize.CarryOnPricing, error) {
	if len(fo.TravelerPricings) == 0 {
		return normalize.CarryOnPricing{}, n.fail("travelerPricings", "at least one traveler pricing is required")
	}

	for _, tp := range fo.TravelerPricings {
		for _, fd := range tp.FareDetailsBySegment {
			if fd.IncludedCabinBags != nil && fd.IncludedCabinBags.Quantity >= 1 {
				return normalize.CarryOnPricing{Included: true}, nil
			}
		}
	}

	for i, svc := range fo.Price.AdditionalServices {
		if !normalize.IsCarryOn(svc.Type) && !normalize.IsCarryOn(svc.Description) {
			continue
		}
		fee, err := normalize.ParseAmount(svc.Amount)
		if err != nil {
			return normalize.CarryOnPricing{}, n.fail(fmt.Sprintf("price.additionalServices.%d.amount", i), err.Error())
		}
		return normalize.CarryOnPricing{
			Fee:   decimal.NewNullDecimal(fee),
			Scope: domain.FeeScopePerPassenger,
		}, nil
	}

	return normalize.CarryOnPricing{}, nil
}
