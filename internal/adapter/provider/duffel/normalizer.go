package duffel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/flight-search/flight-offer-engine/internal/adapter/provider/normalize"
	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/timeutil"
)

type normalizer struct {
	offerID string
}

func (n *normalizer) fail(path, reason string) error {
	return domain.NewNormalizationError(ProviderName, n.offerID, path, reason)
}

// requireString returns the non-empty string at path under r, reporting prefix+path otherwise.
func (n *normalizer) requireString(r gjson.Result, prefix, path string) (string, error) {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null || strings.TrimSpace(v.String()) == "" {
		return "", n.fail(prefix+path, "missing required field")
	}
	if v.Type != gjson.String {
		return "", n.fail(prefix+path, "must be a string")
	}
	return v.String(), nil
}

// requireArray returns the non-empty array at path under r.
func (n *normalizer) requireArray(r gjson.Result, prefix, path string) ([]gjson.Result, error) {
	v := r.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil, n.fail(prefix+path, "missing required field")
	}
	if !v.IsArray() {
		return nil, n.fail(prefix+path, "must be an array")
	}
	items := v.Array()
	if len(items) == 0 {
		return nil, n.fail(prefix+path, "must not be empty")
	}
	return items, nil
}

func (n *normalizer) normalizeOffer(doc gjson.Result, passengers int) (domain.Offer, error) {
	id, err := n.requireString(doc, "", "id")
	if err != nil {
		return domain.Offer{}, err
	}
	n.offerID = id

	currency, err := n.requireString(doc, "", "total_currency")
	if err != nil {
		return domain.Offer{}, err
	}
	currency = strings.ToUpper(currency)

	base, err := normalize.ParseAmount(doc.Get("total_amount").String())
	if err != nil {
		return domain.Offer{}, n.fail("total_amount", err.Error())
	}

	slices, err := n.requireArray(doc, "", "slices")
	if err != nil {
		return domain.Offer{}, err
	}
	itineraries := make([]domain.Itinerary, 0, len(slices))
	for i, s := range slices {
		it, err := n.normalizeSlice(fmt.Sprintf("slices.%d.", i), s)
		if err != nil {
			return domain.Offer{}, err
		}
		itineraries = append(itineraries, it)
	}

	carryOn, err := n.carryOn(doc, slices, currency, passengers)
	if err != nil {
		return domain.Offer{}, err
	}

	offer := domain.Offer{
		Provider:           ProviderName,
		ID:                 id,
		Itineraries:        itineraries,
		TotalBasePrice:     base,
		Currency:           currency,
		StopsCount:         domain.MaxSegmentStops(itineraries),
		ValidatingAirlines: validatingAirlines(doc, itineraries),
	}
	normalize.Apply(&offer, carryOn, passengers)

	return offer, nil
}

func (n *normalizer) normalizeSlice(prefix string, s gjson.Result) (domain.Itinerary, error) {
	raw, err := n.requireArray(s, prefix, "segments")
	if err != nil {
		return domain.Itinerary{}, err
	}

	segments := make([]domain.Segment, 0, len(raw))
	for i, r := range raw {
		seg, err := n.normalizeSegment(fmt.Sprintf("%ssegments.%d.", prefix, i), r)
		if err != nil {
			return domain.Itinerary{}, err
		}
		segments = append(segments, seg)
	}

	duration := segments[len(segments)-1].Arrival.DateTime.Sub(segments[0].Departure.DateTime)
	if d := s.Get("duration"); d.Exists() && d.String() != "" {
		parsed, err := normalize.ParseISODuration(d.String())
		if err != nil {
			return domain.Itinerary{}, n.fail(prefix+"duration", err.Error())
		}
		duration = parsed
	} else if duration < 0 {
		last := fmt.Sprintf("%ssegments.%d.arriving_at", prefix, len(segments)-1)
		return domain.Itinerary{}, n.fail(last, "arrival is before the slice departure")
	}

	return domain.Itinerary{
		Duration:     duration,
		DurationInfo: domain.NewDurationInfoFrom(duration),
		Segments:     segments,
	}, nil
}

func (n *normalizer) normalizeSegment(prefix string, r gjson.Result) (domain.Segment, error) {
	origin, err := n.requireString(r, prefix, "origin.iata_code")
	if err != nil {
		return domain.Segment{}, err
	}
	destination, err := n.requireString(r, prefix, "destination.iata_code")
	if err != nil {
		return domain.Segment{}, err
	}
	departing, err := n.requireTime(r, prefix, "departing_at")
	if err != nil {
		return domain.Segment{}, err
	}
	arriving, err := n.requireTime(r, prefix, "arriving_at")
	if err != nil {
		return domain.Segment{}, err
	}
	carrier, err := n.requireString(r, prefix, "marketing_carrier.iata_code")
	if err != nil {
		return domain.Segment{}, err
	}

	stops := 0
	if s := r.Get("stops"); s.Exists() && s.Type != gjson.Null {
		if !s.IsArray() {
			return domain.Segment{}, n.fail(prefix+"stops", "must be an array")
		}
		stops = len(s.Array())
	}

	// A supplier duration wins over the timestamps, which are naive local times.
	duration := arriving.Sub(departing)
	if d := r.Get("duration"); d.Exists() && d.String() != "" {
		parsed, err := normalize.ParseISODuration(d.String())
		if err != nil {
			return domain.Segment{}, n.fail(prefix+"duration", err.Error())
		}
		duration = parsed
	} else if duration < 0 {
		return domain.Segment{}, n.fail(prefix+"arriving_at", "arrival is before departure")
	}

	return domain.Segment{
		ID: r.Get("id").String(),
		Departure: domain.FlightPoint{
			AirportCode: origin,
			Terminal:    r.Get("origin_terminal").String(),
			DateTime:    departing,
		},
		Arrival: domain.FlightPoint{
			AirportCode: destination,
			Terminal:    r.Get("destination_terminal").String(),
			DateTime:    arriving,
		},
		CarrierCode:   carrier,
		FlightNumber:  carrier + r.Get("marketing_carrier_flight_number").String(),
		Duration:      duration,
		DurationInfo:  domain.NewDurationInfoFrom(duration),
		NumberOfStops: stops,
	}, nil
}

func (n *normalizer) requireTime(r gjson.Result, prefix, path string) (time.Time, error) {
	v, err := n.requireString(r, prefix, path)
	if err != nil {
		return time.Time{}, err
	}
	t, err := timeutil.ParseSupplierDateTime(v)
	if err != nil {
		return time.Time{}, n.fail(prefix+path, err.Error())
	}
	return t, nil
}

// carryOn checks the per-passenger baggage allowances first and falls back to the
// first priced carry-on service. A service's total_amount covers every passenger it
// lists: when that is the whole party it is the offer total, otherwise it is split
// into a per-passenger price so uncovered travellers are still charged.
func (n *normalizer) carryOn(doc gjson.Result, slices []gjson.Result, currency string, passengers int) (normalize.CarryOnPricing, error) {
	for _, s := range slices {
		for _, seg := range s.Get("segments").Array() {
			for _, p := range seg.Get("passengers").Array() {
				for _, bag := range p.Get("baggages").Array() {
					if normalize.IsCarryOn(bag.Get("type").String()) && bag.Get("quantity").Int() >= 1 {
						return normalize.CarryOnPricing{Included: true}, nil
					}
				}
			}
		}
	}

	for i, svc := range doc.Get("available_services").Array() {
		if !isCarryOnService(svc) {
			continue
		}
		prefix := fmt.Sprintf("available_services.%d.", i)

		fee, err := normalize.ParseAmount(svc.Get("total_amount").String())
		if err != nil {
			return normalize.CarryOnPricing{}, n.fail(prefix+"total_amount", err.Error())
		}
		if c := svc.Get("total_currency").String(); c != "" && !strings.EqualFold(c, currency) {
			return normalize.CarryOnPricing{}, n.fail(prefix+"total_currency",
				fmt.Sprintf("service currency %s differs from offer currency %s", c, currency))
		}

		return serviceFee(fee, len(svc.Get("passenger_ids").Array()), passengers), nil
	}

	return normalize.CarryOnPricing{}, nil
}

// serviceFee scopes a service amount that covers the given number of passengers
// out of the searched party.
func serviceFee(amount decimal.Decimal, covered, passengers int) normalize.CarryOnPricing {
	switch {
	case covered > 1 && covered >= passengers:
		return normalize.CarryOnPricing{Fee: decimal.NewNullDecimal(amount), Scope: domain.FeeScopePerOffer}
	case covered > 1:
		unit := amount.DivRound(decimal.NewFromInt(int64(covered)), 2)
		return normalize.CarryOnPricing{Fee: decimal.NewNullDecimal(unit), Scope: domain.FeeScopePerPassenger}
	default:
		return normalize.CarryOnPricing{Fee: decimal.NewNullDecimal(amount), Scope: domain.FeeScopePerPassenger}
	}
}

func isCarryOnService(svc gjson.Result) bool {
	return normalize.IsCarryOn(svc.Get("metadata.type").String()) ||
		normalize.IsCarryOn(svc.Get("type").String()) ||
		normalize.IsCarryOn(svc.Get("description").String())
}

// validatingAirlines uses the offer owner, falling back to the distinct marketing
// carriers in flight order.
func validatingAirlines(doc gjson.Result, itineraries []domain.Itinerary) []string {
	if owner := doc.Get("owner.iata_code").String(); owner != "" {
		return []string{owner}
	}
	seen := make(map[string]bool)
	out := make([]string, 0, 1)
	for _, it := range itineraries {
		for _, seg := range it.Segments {
			if !seen[seg.CarrierCode] {
				seen[seg.CarrierCode] = true
				out = append(out, seg.CarrierCode)
			}
		}
	}
	return out
}
