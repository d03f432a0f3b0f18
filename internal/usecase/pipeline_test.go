package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/timeutil"
)

func fixedID() string { return "exec-1" }

// TestPipeline_Execute_Stats tests per-stage counts and the execution envelope.
func TestPipeline_Execute_Stats(t *testing.T) {
	clock := timeutil.NewSteppingClock(baseDeparture, 15*time.Millisecond)
	p, err := CreatePipeline(domain.ProfileAutobook, WithClock(clock), WithIDGenerator(fixedID))
	require.NoError(t, err)

	offers := []domain.Offer{
		createTestOffer("A", "450", 0, 1, 8),
		createTestOffer("A", "450", 0, 1, 8),
		createTestOffer("RT", "300", 0, 2, 9),
		createTestOffer("STOP", "200", 1, 1, 10),
		createTestOffer("PRICEY", "900", 0, 1, 11),
		createTestOffer("B", "400", 0, 1, 12),
	}

	result, err := p.Execute(offers, createTestContext(t, withNonstop))
	require.NoError(t, err)

	assert.Equal(t, "exec-1", result.ExecutionID)
	assert.Equal(t, domain.ProfileAutobook, result.Profile)
	assert.Equal(t, int64(15), result.DurationMs)
	assert.Equal(t, []string{"B", "A"}, offerIDs(result.FilteredOffers))

	want := []struct {
		stage          StageName
		input, dropped int
	}{
		{StageDedup, 6, 1},
		{StageRoundTripShape, 5, 1},
		{StageNonstop, 4, 1},
		{StageBudget, 3, 1},
		{StageSelection, 2, 0},
	}
	require.Len(t, result.StageStats, len(want))
	for i, w := range want {
		s := result.StageStats[i]
		assert.Equal(t, w.stage, s.Stage)
		assert.Equal(t, w.input, s.Input)
		assert.Equal(t, w.dropped, s.Dropped)
		assert.Equal(t, s.Input-s.Dropped, s.Output)
		assert.Len(t, s.Rejections, s.Dropped)
	}
}

// TestPipeline_Execute_DoesNotMutateInput tests that the caller's slice is untouched.
func TestPipeline_Execute_DoesNotMutateInput(t *testing.T) {
	p, err := CreatePipeline(domain.ProfileAutobook)
	require.NoError(t, err)

	offers := []domain.Offer{
		createTestOffer("C", "300", 0, 1, 8),
		createTestOffer("A", "100", 0, 1, 9),
		createTestOffer("B", "200", 0, 1, 10),
	}
	snapshot := make([]domain.Offer, len(offers))
	copy(snapshot, offers)

	result, err := p.Execute(offers, createTestContext(t, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, offerIDs(result.FilteredOffers))
	assert.Equal(t, snapshot, offers)
}

// TestPipeline_Execute_Idempotent tests that re-running on the output changes nothing.
func TestPipeline_Execute_Idempotent(t *testing.T) {
	fctx := createTestContext(t, nil)
	offers := []domain.Offer{
		createTestOffer("C", "300", 0, 1, 8),
		createTestOffer("A", "100", 1, 1, 9),
		createTestOffer("B", "200", 0, 1, 10),
		createTestOffer("D", "800", 0, 1, 11),
	}

	for _, profile := range domain.Profiles() {
		t.Run(string(profile), func(t *testing.T) {
			p, err := CreatePipeline(profile)
			require.NoError(t, err)

			first, err := p.Execute(offers, fctx)
			require.NoError(t, err)
			second, err := p.Execute(first.FilteredOffers, fctx)
			require.NoError(t, err)

			assert.Equal(t, offerIDs(first.FilteredOffers), offerIDs(second.FilteredOffers))
		})
	}
}

// TestPipeline_Execute_Properties tests the invariants every surviving offer satisfies.
func TestPipeline_Execute_Properties(t *testing.T) {
	var offers []domain.Offer
	for i := 0; i < 40; i++ {
		price := decimal.NewFromInt(int64(300 + (i*37)%400)).String()
		offers = append(offers, createTestOffer(string(rune('a'+i%26))+string(rune('0'+i/26)), price, i%3, 1+i%2, 6+i%12))
	}

	contexts := map[string]func(*domain.FilterParams){
		"one-way":           nil,
		"round-trip":        withReturn,
		"nonstop":           withNonstop,
		"round-trip-direct": func(p *domain.FilterParams) { withReturn(p); withNonstop(p) },
	}

	for name, fn := range contexts {
		fctx := createTestContext(t, fn)
		for _, profile := range domain.Profiles() {
			t.Run(name+"/"+string(profile), func(t *testing.T) {
				p, err := CreatePipeline(profile)
				require.NoError(t, err)
				result, err := p.Execute(offers, fctx)
				require.NoError(t, err)

				legs := 1
				if fctx.HasReturnDate() {
					legs = 2
				}
				for _, o := range result.FilteredOffers {
					assert.True(t, o.TotalPriceWithCarryOn.LessThanOrEqual(fctx.Budget()))
					assert.Len(t, o.Itineraries, legs)
					if fctx.NonstopRequired() {
						assert.Equal(t, 0, o.StopsCount)
					}
				}
				if profile != domain.ProfileStandard {
					assert.Equal(t, offerIDs(SortOffers(result.FilteredOffers)), offerIDs(result.FilteredOffers))
				}
			})
		}
	}
}

// TestPipeline_Execute_Scenarios covers the documented end-to-end examples at pipeline level.
func TestPipeline_Execute_Scenarios(t *testing.T) {
	p, err := CreatePipeline(domain.ProfileAutobook)
	require.NoError(t, err)

	t.Run("A carry-on fee pushes offer over budget", func(t *testing.T) {
		o := createTestOffer("A", "480", 0, 1, 8)
		o.CarryOnFee = decimal.NewNullDecimal(decimal.RequireFromString("40"))
		o.CarryOnFeeScope = domain.FeeScopePerPassenger
		o.TotalPriceWithCarryOn = decimal.RequireFromString("520")

		result, err := p.Execute([]domain.Offer{o}, createTestContext(t, nil))
		require.NoError(t, err)
		assert.Empty(t, result.FilteredOffers)
	})

	t.Run("B bundled bag at budget is ranked first", func(t *testing.T) {
		bundled := createTestOffer("B", "500", 0, 1, 8)
		bundled.CarryOnIncluded = true
		cheaperBase := createTestOffer("X", "460", 0, 1, 9)
		cheaperBase.TotalPriceWithCarryOn = decimal.RequireFromString("510")

		result, err := p.Execute([]domain.Offer{cheaperBase, bundled}, createTestContext(t, func(fp *domain.FilterParams) {
			fp.Budget = decimal.RequireFromString("600")
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "X"}, offerIDs(result.FilteredOffers))
	})

	t.Run("C one-way offer in round-trip search", func(t *testing.T) {
		result, err := p.Execute([]domain.Offer{createTestOffer("C", "1", 0, 1, 8)}, createTestContext(t, withReturn))
		require.NoError(t, err)
		assert.Empty(t, result.FilteredOffers)
	})

	t.Run("D one stop with nonstop required", func(t *testing.T) {
		result, err := p.Execute([]domain.Offer{createTestOffer("D", "1", 1, 1, 8)}, createTestContext(t, withNonstop))
		require.NoError(t, err)
		assert.Empty(t, result.FilteredOffers)
	})

	t.Run("E equal prices ordered by departure", func(t *testing.T) {
		result, err := p.Execute([]domain.Offer{
			createTestOffer("late", "300", 0, 1, 17),
			createTestOffer("early", "300", 0, 1, 6),
		}, createTestContext(t, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"early", "late"}, offerIDs(result.FilteredOffers))
	})
}

// TestPipeline_Execute_InvalidOffers tests that incommensurable input aborts the run.
func TestPipeline_Execute_InvalidOffers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Offer)
	}{
		{
			name:   "empty currency",
			mutate: func(o *domain.Offer) { o.Currency = "" },
		},
		{
			name:   "negative base price",
			mutate: func(o *domain.Offer) { o.TotalBasePrice = decimal.NewFromInt(-1) },
		},
		{
			name:   "negative comparable price",
			mutate: func(o *domain.Offer) { o.TotalPriceWithCarryOn = decimal.NewFromInt(-1) },
		},
		{
			name:   "no itineraries",
			mutate: func(o *domain.Offer) { o.Itineraries = nil },
		},
	}

	p, err := CreatePipeline(domain.ProfileStandard)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := createTestOffer("bad", "100", 0, 1, 8)
			tt.mutate(&bad)

			result, err := p.Execute([]domain.Offer{createTestOffer("ok", "100", 0, 1, 8), bad}, createTestContext(t, nil))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, domain.IsInvalidOffer(err))
			assert.Contains(t, err.Error(), "bad")
		})
	}
}

// TestPipeline_Execute_NilContext tests that a context is required.
func TestPipeline_Execute_NilContext(t *testing.T) {
	p, err := CreatePipeline(domain.ProfileStandard)
	require.NoError(t, err)

	_, err = p.Execute(nil, nil)
	assert.True(t, domain.IsValidation(err))
}

// TestPipeline_Execute_EmptyInput tests that no offers yields an empty, non-nil result.
func TestPipeline_Execute_EmptyInput(t *testing.T) {
	p, err := CreatePipeline(domain.ProfileFlexible)
	require.NoError(t, err)

	result, err := p.Execute(nil, createTestContext(t, nil))
	require.NoError(t, err)
	assert.NotNil(t, result.FilteredOffers)
	assert.Empty(t, result.FilteredOffers)
	assert.Len(t, result.StageStats, 4)
	assert.NotEmpty(t, result.ExecutionID)
}

// TestPipeline_ExecutionIDsAreUnique tests the default id generator.
func TestPipeline_ExecutionIDsAreUnique(t *testing.T) {
	p, err := CreatePipeline(domain.ProfileStandard)
	require.NoError(t, err)
	fctx := createTestContext(t, nil)

	a, err := p.Execute(nil, fctx)
	require.NoError(t, err)
	b, err := p.Execute(nil, fctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ExecutionID, b.ExecutionID)
}
