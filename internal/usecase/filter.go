// Package usecase provides the filtering logic for normalized flight offers:
// the individual stages, the pipeline that runs them and the search use case
// that feeds raw supplier batches through adapters into a pipeline.
package usecase

import (
	"fmt"
	"strings"

	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// StageName identifies a filter stage in stats and logs.
type StageName string

// Known stages.
const (
	StageNonstop        StageName = "nonstop"
	StageMaxOneStop     StageName = "max_one_stop"
	StageRoundTripShape StageName = "round_trip_shape"
	StageBudget         StageName = "budget"
	StageDedup          StageName = "dedup"
	StageSelection      StageName = "selection"
)

// Rejection records why a stage dropped a single offer.
type Rejection struct {
	Provider domain.Provider `json:"provider"`
	OfferID  string          `json:"offerId"`
	Reason   string          `json:"reason"`

	// Err is set when the drop has a typed cause, e.g. a *domain.CurrencyMismatchError.
	Err error `json:"-"`
}

// stageFunc returns the offers it keeps and a rejection for every offer it drops.
// It must not modify its input slice.
type stageFunc func(offers []domain.Offer, fctx *domain.FilterContext) ([]domain.Offer, []Rejection, error)

// Stage is a named, pure transformation over an offer list.
type Stage struct {
	name  StageName
	apply stageFunc
}

// Name returns the stage name.
func (s Stage) Name() StageName {
	return s.name
}

// Apply runs the stage on offers.
func (s Stage) Apply(offers []domain.Offer, fctx *domain.FilterContext) ([]domain.Offer, []Rejection, error) {
	return s.apply(offers, fctx)
}

// Stages are built once; profiles reference these values.
var (
	nonstopStage        = Stage{name: StageNonstop, apply: keepIf(nonstopOnly)}
	maxOneStopStage     = Stage{name: StageMaxOneStop, apply: keepIf(atMostOneStop)}
	roundTripShapeStage = Stage{name: StageRoundTripShape, apply: keepIf(matchesTripShape)}
	budgetStage         = Stage{name: StageBudget, apply: keepIf(withinBudget)}
	dedupStage          = Stage{name: StageDedup, apply: dedupOffers}
	selectionStage      = Stage{name: StageSelection, apply: selectOffers}
)

// predicate decides whether an offer survives. When it does not, it returns the
// reason and, optionally, a typed cause.
type predicate func(o domain.Offer, fctx *domain.FilterContext) (keep bool, reason string, cause error)

// keepIf builds a stage that retains offers in order while pred holds.
func keepIf(pred predicate) stageFunc {
	return func(offers []domain.Offer, fctx *domain.FilterContext) ([]domain.Offer, []Rejection, error) {
		kept := make([]domain.Offer, 0, len(offers))
		var rejections []Rejection
		for _, o := range offers {
			keep, reason, cause := pred(o, fctx)
			if keep {
				kept = append(kept, o)
				continue
			}
			rejections = append(rejections, Rejection{
				Provider: o.Provider,
				OfferID:  o.ID,
				Reason:   reason,
				Err:      cause,
			})
		}
		return kept, rejections, nil
	}
}

// nonstopOnly keeps offers without stops when the search requires nonstop flights.
func nonstopOnly(o domain.Offer, fctx *domain.FilterContext) (bool, string, error) {
	if !fctx.NonstopRequired() || o.StopsCount == 0 {
		return true, "", nil
	}
	return false, fmt.Sprintf("%d stop(s), nonstop required", o.StopsCount), nil
}

// atMostOneStop keeps offers with at most one stop, or none when nonstop is required.
func atMostOneStop(o domain.Offer, fctx *domain.FilterContext) (bool, string, error) {
	limit := 1
	if fctx.NonstopRequired() {
		limit = 0
	}
	if o.StopsCount <= limit {
		return true, "", nil
	}
	return false, fmt.Sprintf("%d stop(s), at most %d allowed", o.StopsCount, limit), nil
}

// matchesTripShape keeps round-trip offers for round-trip searches and one-way offers otherwise.
func matchesTripShape(o domain.Offer, fctx *domain.FilterContext) (bool, string, error) {
	want := 1
	if fctx.HasReturnDate() {
		want = 2
	}
	if len(o.Itineraries) == want {
		return true, "", nil
	}
	return false, fmt.Sprintf("%d itinerary(ies), expected %d", len(o.Itineraries), want), nil
}

// withinBudget keeps offers whose comparable price does not exceed the budget.
// Offers priced in another currency cannot be compared and are dropped.
func withinBudget(o domain.Offer, fctx *domain.FilterContext) (bool, string, error) {
	if !strings.EqualFold(o.Currency, fctx.Currency()) {
		cause := &domain.CurrencyMismatchError{
			OfferID:         o.ID,
			OfferCurrency:   o.Currency,
			ContextCurrency: fctx.Currency(),
		}
		return false, cause.Error(), cause
	}
	if o.TotalPriceWithCarryOn.LessThanOrEqual(fctx.Budget()) {
		return true, "", nil
	}
	return false, fmt.Sprintf("total %s %s exceeds budget %s",
		o.TotalPriceWithCarryOn.StringFixed(2), o.Currency, fctx.Budget().StringFixed(2)), nil
}

// offerKey identifies an offer across batches.
type offerKey struct {
	provider domain.Provider
	id       string
}

// dedupOffers keeps the first occurrence of each (provider, id) pair.
func dedupOffers(offers []domain.Offer, _ *domain.FilterContext) ([]domain.Offer, []Rejection, error) {
	seen := make(map[offerKey]struct{}, len(offers))
	kept := make([]domain.Offer, 0, len(offers))
	var rejections []Rejection
	for _, o := range offers {
		key := offerKey{provider: o.Provider, id: o.ID}
		if _, dup := seen[key]; dup {
			rejections = append(rejections, Rejection{
				Provider: o.Provider,
				OfferID:  o.ID,
				Reason:   "duplicate offer",
			})
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, o)
	}
	return kept, rejections, nil
}
