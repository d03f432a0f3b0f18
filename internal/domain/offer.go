// Package domain contains the core business entities and rules for the offer engine.
// These entities are provider-agnostic and form the foundation upon which adapters,
// filter stages and hosts are built.
package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Provider identifies the supplier schema an offer was normalized from.
type Provider string

// Known providers. Adding a supplier means adding a constant here and an adapter
// registered in the default registry.
const (
	// ProviderAmadeus is the GDS-style aggregator schema.
	ProviderAmadeus Provider = "amadeus"

	// ProviderDuffel is the NDC-style supplier schema.
	ProviderDuffel Provider = "duffel"
)

// IsValid checks if the provider is one of the known values.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderAmadeus, ProviderDuffel:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (p Provider) String() string {
	return string(p)
}

// FeeScope describes what a supplier-quoted ancillary amount covers.
type FeeScope string

const (
	// FeeScopePerPassenger means the amount is charged once per traveller.
	FeeScopePerPassenger FeeScope = "per_passenger"

	// FeeScopePerOffer means the amount already covers every traveller on the offer.
	FeeScopePerOffer FeeScope = "per_offer"
)

// Offer is the canonical, provider-agnostic representation of a flight offer.
// It is created once by an adapter and never mutated afterwards.
type Offer struct {
	// Provider is the source adapter. Used for diagnostics and dedup only.
	Provider Provider `json:"provider"`

	// ID is the provider-native offer identifier.
	ID string `json:"id"`

	// Itineraries holds one entry for one-way offers and two for round-trips.
	Itineraries []Itinerary `json:"itineraries"`

	// TotalBasePrice is the supplier's quoted fare before carry-on handling.
	TotalBasePrice decimal.Decimal `json:"totalBasePrice"`

	// Currency is the ISO 4217 code of every amount on the offer.
	Currency string `json:"currency"`

	// CarryOnIncluded is true when the fare already bundles a carry-on bag.
	CarryOnIncluded bool `json:"carryOnIncluded"`

	// CarryOnFee is the supplier's quoted amount for adding a carry-on bag.
	// Only valid when CarryOnIncluded is false and a priced service exists.
	CarryOnFee decimal.NullDecimal `json:"carryOnFee"`

	// CarryOnFeeScope records what CarryOnFee covers, as declared by the supplier.
	CarryOnFeeScope FeeScope `json:"carryOnFeeScope,omitempty"`

	// TotalPriceWithCarryOn is the only amount budget comparisons use.
	TotalPriceWithCarryOn decimal.Decimal `json:"totalPriceWithCarryOn"`

	// StopsCount is the maximum number of intermediate stops over all segments.
	StopsCount int `json:"stopsCount"`

	// ValidatingAirlines lists the carriers responsible for the ticket.
	ValidatingAirlines []string `json:"validatingAirlines"`

	// RawData is the original supplier payload, kept for booking.
	RawData json.RawMessage `json:"rawData,omitempty"`
}

// Itinerary is one directional leg of an offer (outbound or inbound).
type Itinerary struct {
	// Duration is the total elapsed time of the leg.
	Duration time.Duration `json:"-"`

	// DurationInfo is the display form of Duration.
	DurationInfo DurationInfo `json:"duration"`

	// Segments are the flights flown, in order.
	Segments []Segment `json:"segments"`
}

// Segment is a single flight within an itinerary.
type Segment struct {
	ID            string        `json:"id,omitempty"`
	Departure     FlightPoint   `json:"departure"`
	Arrival       FlightPoint   `json:"arrival"`
	CarrierCode   string        `json:"carrierCode"`
	FlightNumber  string        `json:"flightNumber"`
	Duration      time.Duration `json:"-"`
	DurationInfo  DurationInfo  `json:"duration"`
	NumberOfStops int           `json:"numberOfStops"`
}

// FlightPoint represents a point in a flight journey (departure or arrival).
type FlightPoint struct {
	// AirportCode is the IATA airport code (e.g., "JFK")
	AirportCode string `json:"airportCode"`

	// Terminal is the terminal identifier, when the supplier sends one.
	Terminal string `json:"terminal,omitempty"`

	// DateTime is the scheduled local time.
	DateTime time.Time `json:"dateTime"`
}

// DurationInfo contains duration information in display form.
type DurationInfo struct {
	// TotalMinutes is the total duration in minutes
	TotalMinutes int `json:"totalMinutes"`

	// Formatted is a human-readable duration string (e.g., "2h 30m")
	Formatted string `json:"formatted"`
}

// FirstDeparture returns the departure time of the first segment of the first itinerary.
func (o Offer) FirstDeparture() (time.Time, bool) {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return time.Time{}, false
	}
	return o.Itineraries[0].Segments[0].Departure.DateTime, true
}

// MaxSegmentStops returns the largest NumberOfStops over every segment of every itinerary.
func MaxSegmentStops(itineraries []Itinerary) int {
	stops := 0
	for _, it := range itineraries {
		for _, seg := range it.Segments {
			if seg.NumberOfStops > stops {
				stops = seg.NumberOfStops
			}
		}
	}
	return stops
}

// NewDurationInfo creates a DurationInfo from total minutes and formats it.
func NewDurationInfo(totalMinutes int) DurationInfo {
	hours := totalMinutes / 60
	mins := totalMinutes % 60

	var formatted string
	switch {
	case hours > 0 && mins > 0:
		formatted = strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	case hours > 0:
		formatted = strconv.Itoa(hours) + "h"
	default:
		formatted = strconv.Itoa(mins) + "m"
	}

	return DurationInfo{
		TotalMinutes: totalMinutes,
		Formatted:    formatted,
	}
}

// NewDurationInfoFrom converts a time.Duration to DurationInfo, truncating to whole minutes.
func NewDurationInfoFrom(d time.Duration) DurationInfo {
	return NewDurationInfo(int(d / time.Minute))
}
