package duffel

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

const baseOffer = `{
	"id": "off_0000AEdGRhtp5AUUdJqMxo",
	"total_amount": "480.00",
	"total_currency": "USD",
	"owner": {"iata_code": "BA", "name": "British Airways"},
	"passengers": [{"id": "pas_1", "type": "adult"}],
	"slices": [
		{
			"duration": "PT7H10M",
			"segments": [
				{
					"id": "seg_1",
					"origin": {"iata_code": "JFK"},
					"destination": {"iata_code": "LHR"},
					"origin_terminal": "7",
					"destination_terminal": "5",
					"departing_at": "2025-12-15T18:30:00",
					"arriving_at": "2025-12-16T06:40:00",
					"duration": "PT7H10M",
					"marketing_carrier": {"iata_code": "BA"},
					"marketing_carrier_flight_number": "112",
					"stops": [],
					"passengers": [
						{"passenger_id": "pas_1", "baggages": [{"type": "checked", "quantity": 1}]}
					]
				}
			]
		}
	],
	"available_services": [
		{
			"id": "ase_1",
			"type": "baggage",
			"metadata": {"type": "carry_on"},
			"total_amount": "40.00",
			"total_currency": "USD",
			"passenger_ids": ["pas_1"]
		}
	]
}`

func newContext(t *testing.T, passengers int) *domain.FilterContext {
	t.Helper()
	fctx, err := domain.NewFilterContext(domain.FilterParams{
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-12-15",
		Passengers:    passengers,
		Budget:        decimal.RequireFromString("500"),
		Currency:      "USD",
	})
	require.NoError(t, err)
	return fctx
}

func mutate(t *testing.T, fn func(m map[string]any)) json.RawMessage {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(baseOffer), &m))
	fn(m)
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return raw
}

func firstSegment(m map[string]any) map[string]any {
	slice := m["slices"].([]any)[0].(map[string]any)
	return slice["segments"].([]any)[0].(map[string]any)
}

func firstService(m map[string]any) map[string]any {
	return m["available_services"].([]any)[0].(map[string]any)
}

// TestAdapter_Provider tests the Provider method.
func TestAdapter_Provider(t *testing.T) {
	assert.Equal(t, domain.ProviderDuffel, NewAdapter().Provider())
}

// TestAdapter_Normalize tests successful conversions.
func TestAdapter_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		raw        json.RawMessage
		passengers int
		check      func(*testing.T, domain.Offer)
	}{
		{
			name:       "priced carry-on added to base",
			raw:        json.RawMessage(baseOffer),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				assert.Equal(t, domain.ProviderDuffel, o.Provider)
				assert.Equal(t, "off_0000AEdGRhtp5AUUdJqMxo", o.ID)
				assert.Equal(t, "USD", o.Currency)
				assert.False(t, o.CarryOnIncluded)
				require.True(t, o.CarryOnFee.Valid)
				assert.True(t, o.CarryOnFee.Decimal.Equal(decimal.RequireFromString("40")))
				assert.Equal(t, domain.FeeScopePerPassenger, o.CarryOnFeeScope)
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("520")))
				assert.Equal(t, []string{"BA"}, o.ValidatingAirlines)
				assert.Equal(t, 0, o.StopsCount)
			},
		},
		{
			name:       "single-passenger service scaled by passenger count",
			raw:        json.RawMessage(baseOffer),
			passengers: 3,
			check: func(t *testing.T, o domain.Offer) {
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("600")))
			},
		},
		{
			name: "multi-passenger service treated as offer total",
			raw: mutate(t, func(m map[string]any) {
				firstService(m)["passenger_ids"] = []any{"pas_1", "pas_2"}
				firstService(m)["total_amount"] = "80.00"
			}),
			passengers: 2,
			check: func(t *testing.T, o domain.Offer) {
				assert.Equal(t, domain.FeeScopePerOffer, o.CarryOnFeeScope)
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("560")))
			},
		},
		{
			name: "multi-passenger service split when party is larger",
			raw: mutate(t, func(m map[string]any) {
				firstService(m)["passenger_ids"] = []any{"pas_1", "pas_2"}
				firstService(m)["total_amount"] = "80.00"
			}),
			passengers: 3,
			check: func(t *testing.T, o domain.Offer) {
				assert.Equal(t, domain.FeeScopePerPassenger, o.CarryOnFeeScope)
				assert.True(t, o.CarryOnFee.Decimal.Equal(decimal.RequireFromString("40")))
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("600")))
			},
		},
		{
			name: "uneven split rounded to cents",
			raw: mutate(t, func(m map[string]any) {
				firstService(m)["passenger_ids"] = []any{"pas_1", "pas_2", "pas_3"}
				firstService(m)["total_amount"] = "100.00"
			}),
			passengers: 4,
			check: func(t *testing.T, o domain.Offer) {
				assert.True(t, o.CarryOnFee.Decimal.Equal(decimal.RequireFromString("33.33")))
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("613.32")))
			},
		},
		{
			name: "bundled carry-on bag",
			raw: mutate(t, func(m map[string]any) {
				m["total_amount"] = "500.00"
				p := firstSegment(m)["passengers"].([]any)[0].(map[string]any)
				p["baggages"] = []any{map[string]any{"type": "carry_on", "quantity": 1}}
			}),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				assert.True(t, o.CarryOnIncluded)
				assert.False(t, o.CarryOnFee.Valid)
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("500")))
			},
		},
		{
			name: "zero quantity carry-on is not bundled",
			raw: mutate(t, func(m map[string]any) {
				p := firstSegment(m)["passengers"].([]any)[0].(map[string]any)
				p["baggages"] = []any{map[string]any{"type": "carry_on", "quantity": 0}}
			}),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				assert.False(t, o.CarryOnIncluded)
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("520")))
			},
		},
		{
			name: "no carry-on service",
			raw: mutate(t, func(m map[string]any) {
				m["available_services"] = []any{}
			}),
			passengers: 2,
			check: func(t *testing.T, o domain.Offer) {
				assert.False(t, o.CarryOnFee.Valid)
				assert.True(t, o.TotalPriceWithCarryOn.Equal(decimal.RequireFromString("480")))
			},
		},
		{
			name: "stops counted from stop list",
			raw: mutate(t, func(m map[string]any) {
				firstSegment(m)["stops"] = []any{map[string]any{"id": "sto_1"}}
			}),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				assert.Equal(t, 1, o.StopsCount)
				assert.Equal(t, 1, o.Itineraries[0].Segments[0].NumberOfStops)
			},
		},
		{
			name:       "segment fields mapped",
			raw:        json.RawMessage(baseOffer),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				require.Len(t, o.Itineraries, 1)
				seg := o.Itineraries[0].Segments[0]
				assert.Equal(t, "seg_1", seg.ID)
				assert.Equal(t, "JFK", seg.Departure.AirportCode)
				assert.Equal(t, "7", seg.Departure.Terminal)
				assert.Equal(t, "LHR", seg.Arrival.AirportCode)
				assert.Equal(t, "BA112", seg.FlightNumber)
				assert.Equal(t, 7*time.Hour+10*time.Minute, seg.Duration)
				assert.Equal(t, 430, seg.DurationInfo.TotalMinutes)
				assert.Equal(t, "7h 10m", seg.DurationInfo.Formatted)
				assert.Equal(t, 430, o.Itineraries[0].DurationInfo.TotalMinutes)
			},
		},
		{
			name: "supplier duration kept across the date line",
			raw: mutate(t, func(m map[string]any) {
				firstSegment(m)["arriving_at"] = "2025-12-15T11:40:00"
			}),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				assert.Equal(t, 7*time.Hour+10*time.Minute, o.Itineraries[0].Segments[0].Duration)
			},
		},
		{
			name: "carriers used when owner missing",
			raw: mutate(t, func(m map[string]any) {
				delete(m, "owner")
			}),
			passengers: 1,
			check: func(t *testing.T, o domain.Offer) {
				assert.Equal(t, []string{"BA"}, o.ValidatingAirlines)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer, err := NewAdapter().Normalize(tt.raw, newContext(t, tt.passengers))
			require.NoError(t, err)
			tt.check(t, offer)
		})
	}
}

// TestAdapter_Normalize_Errors tests that malformed records report the offending path.
func TestAdapter_Normalize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      json.RawMessage
		wantPath string
	}{
		{
			name:     "invalid JSON",
			raw:      json.RawMessage(`{"id": "off_1",`),
			wantPath: "$",
		},
		{
			name:     "not an object",
			raw:      json.RawMessage(`[1, 2]`),
			wantPath: "$",
		},
		{
			name:     "missing total amount",
			raw:      mutate(t, func(m map[string]any) { delete(m, "total_amount") }),
			wantPath: "total_amount",
		},
		{
			name:     "missing currency",
			raw:      mutate(t, func(m map[string]any) { delete(m, "total_currency") }),
			wantPath: "total_currency",
		},
		{
			name:     "empty slices",
			raw:      mutate(t, func(m map[string]any) { m["slices"] = []any{} }),
			wantPath: "slices",
		},
		{
			name: "missing departure time",
			raw: mutate(t, func(m map[string]any) {
				delete(firstSegment(m), "departing_at")
			}),
			wantPath: "slices.0.segments.0.departing_at",
		},
		{
			name: "missing carrier",
			raw: mutate(t, func(m map[string]any) {
				delete(firstSegment(m), "marketing_carrier")
			}),
			wantPath: "slices.0.segments.0.marketing_carrier.iata_code",
		},
		{
			name: "stops not a list",
			raw: mutate(t, func(m map[string]any) {
				firstSegment(m)["stops"] = 2
			}),
			wantPath: "slices.0.segments.0.stops",
		},
		{
			name: "arrival before departure",
			raw: mutate(t, func(m map[string]any) {
				delete(m["slices"].([]any)[0].(map[string]any), "duration")
				seg := firstSegment(m)
				delete(seg, "duration")
				seg["arriving_at"] = "2025-12-15T18:00:00"
			}),
			wantPath: "slices.0.segments.0.arriving_at",
		},
		{
			name: "service currency differs",
			raw: mutate(t, func(m map[string]any) {
				firstService(m)["total_currency"] = "EUR"
			}),
			wantPath: "available_services.0.total_currency",
		},
		{
			name: "service amount invalid",
			raw: mutate(t, func(m map[string]any) {
				firstService(m)["total_amount"] = "forty"
			}),
			wantPath: "available_services.0.total_amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdapter().Normalize(tt.raw, newContext(t, 1))
			require.Error(t, err)
			assert.True(t, domain.IsNormalization(err))

			var nerr *domain.NormalizationError
			require.True(t, errors.As(err, &nerr))
			assert.Equal(t, domain.ProviderDuffel, nerr.Provider)
			assert.Equal(t, tt.wantPath, nerr.Path)
		})
	}
}

// TestAdapter_Normalize_ErrorNamesOffer tests that errors after the id is read carry it.
func TestAdapter_Normalize_ErrorNamesOffer(t *testing.T) {
	raw := mutate(t, func(m map[string]any) { m["total_amount"] = "-1" })
	_, err := NewAdapter().Normalize(raw, newContext(t, 1))

	var nerr *domain.NormalizationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "off_0000AEdGRhtp5AUUdJqMxo", nerr.OfferID)
	assert.Contains(t, err.Error(), "off_0000AEdGRhtp5AUUdJqMxo")
}

// TestAdapter_Normalize_NilContext tests that a missing context is a validation error.
func TestAdapter_Normalize_NilContext(t *testing.T) {
	_, err := NewAdapter().Normalize(json.RawMessage(baseOffer), nil)
	assert.True(t, domain.IsValidation(err))
}
