package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

func TestIsCarryOn(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"carry_on", true},
		{"CARRY-ON", true},
		{"Carry on bag", true},
		{"carryon", true},
		{"Cabin bag 8kg", true},
		{"CABIN_BAG", true},
		{"checked", false},
		{"CHECKED_BAGS", false},
		{"seat", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCarryOn(tt.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "480", want: "480"},
		{name: "two decimals", input: "355.34", want: "355.34"},
		{name: "padded", input: " 40.00 ", want: "40"},
		{name: "zero is a real price", input: "0.00", want: "0"},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "NaN", wantErr: true},
		{name: "garbage", input: "12,50", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "PT2H10M", want: 2*time.Hour + 10*time.Minute},
		{input: "PT02H26M", want: 2*time.Hour + 26*time.Minute},
		{input: "PT45M", want: 45 * time.Minute},
		{input: "PT14H", want: 14 * time.Hour},
		{input: "P1DT2H", want: 26 * time.Hour},
		{input: "PT1H0M30S", want: time.Hour + 30*time.Second},
		{input: "pt1h", want: time.Hour},
		{input: "", wantErr: true},
		{input: "P", wantErr: true},
		{input: "PT", wantErr: true},
		{input: "2h10m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseISODuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalWithCarryOn(t *testing.T) {
	base := decimal.NewFromInt(480)
	fee := decimal.NewNullDecimal(decimal.NewFromInt(40))

	tests := []struct {
		name       string
		pricing    CarryOnPricing
		passengers int
		want       int64
	}{
		{
			name:       "included ignores fee",
			pricing:    CarryOnPricing{Included: true, Fee: fee, Scope: domain.FeeScopePerPassenger},
			passengers: 3,
			want:       480,
		},
		{
			name:       "per passenger fee, one traveller",
			pricing:    CarryOnPricing{Fee: fee, Scope: domain.FeeScopePerPassenger},
			passengers: 1,
			want:       520,
		},
		{
			name:       "per passenger fee, three travellers",
			pricing:    CarryOnPricing{Fee: fee, Scope: domain.FeeScopePerPassenger},
			passengers: 3,
			want:       600,
		},
		{
			name:       "fee already a total",
			pricing:    CarryOnPricing{Fee: fee, Scope: domain.FeeScopePerOffer},
			passengers: 3,
			want:       520,
		},
		{
			name:       "no discoverable fee",
			pricing:    CarryOnPricing{},
			passengers: 2,
			want:       480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalWithCarryOn(base, tt.pricing, tt.passengers)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("included leaves fee unset", func(t *testing.T) {
		o := domain.Offer{TotalBasePrice: decimal.NewFromInt(500)}
		Apply(&o, CarryOnPricing{Included: true, Fee: decimal.NewNullDecimal(decimal.NewFromInt(10))}, 1)

		assert.True(t, o.CarryOnIncluded)
		assert.False(t, o.CarryOnFee.Valid)
		assert.Empty(t, o.CarryOnFeeScope)
		assert.True(t, o.TotalPriceWithCarryOn.Equal(o.TotalBasePrice))
	})

	t.Run("fee recorded with scope", func(t *testing.T) {
		o := domain.Offer{TotalBasePrice: decimal.NewFromInt(480)}
		Apply(&o, CarryOnPricing{Fee: decimal.NewNullDecimal(decimal.NewFromInt(40)), Scope: domain.FeeScopePerPassenger}, 2)

		assert.False(t, o.CarryOnIncluded)
		assert.True(t, o.CarryOnFee.Valid)
		assert.Equal(t, domain.FeeScopePerPassenger, o.CarryOnFeeScope)
		assert.True(t, decimal.NewFromInt(560).Equal(o.TotalPriceWithCarryOn))
	})
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		id := "off_1"
		defer Recover(domain.ProviderDuffel, &id, &err)
		var m map[string]int
		m["boom"] = 1 // nil map write panics
		return nil
	}

	err := run()
	require.Error(t, err)
	assert.True(t, domain.IsNormalization(err))

	var nerr *domain.NormalizationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "off_1", nerr.OfferID)
}
