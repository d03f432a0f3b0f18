// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// Fixture files under test/testdata.
const (
	AmadeusOffersFile    = "amadeus/flight_offers.json"
	DuffelOffersFile     = "duffel/offers.json"
	OneWayNonstopRequest = "requests/oneway_nonstop.json"
)

// TestDataPath returns the absolute path of a file under test/testdata.
func TestDataPath(t testing.TB, filename string) string {
	t.Helper()

	// Get the path to testdata relative to this file
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}

	// Navigate to project root (testutil is in test/testutil)
	projectRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")
	return filepath.Join(projectRoot, "test", "testdata", filename)
}

// LoadTestJSON loads a JSON file from the testdata directory.
// The filename should be relative to the testdata directory.
func LoadTestJSON(t testing.TB, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(TestDataPath(t, filename))
	if err != nil {
		t.Fatalf("Failed to load test file %s: %v", filename, err)
	}
	return data
}

// LoadRawOffers loads a fixture holding a JSON array of raw supplier offers.
func LoadRawOffers(t testing.TB, filename string) []json.RawMessage {
	t.Helper()

	var offers []json.RawMessage
	if err := json.Unmarshal(LoadTestJSON(t, filename), &offers); err != nil {
		t.Fatalf("Failed to decode offers in %s: %v", filename, err)
	}
	return offers
}

// FixtureBatches returns one batch per provider fixture, Amadeus first.
func FixtureBatches(t testing.TB) []domain.ProviderBatch {
	t.Helper()
	return []domain.ProviderBatch{
		{Provider: domain.ProviderAmadeus, Offers: LoadRawOffers(t, AmadeusOffersFile)},
		{Provider: domain.ProviderDuffel, Offers: LoadRawOffers(t, DuffelOffersFile)},
	}
}

// DefaultParams returns a valid one-way JFK to LHR search matching the fixtures:
// one passenger, a 500 USD budget, nonstop not required.
func DefaultParams() domain.FilterParams {
	return domain.FilterParams{
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-12-15",
		Passengers:    1,
		Budget:        decimal.NewFromInt(500),
		Currency:      "USD",
	}
}

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t testing.TB, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// OfferIDs returns the IDs of offers in order.
func OfferIDs(offers []domain.Offer) []string {
	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	return ids
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}
