package usecase

import (
	"github.com/flight-search/flight-offer-engine/internal/domain"
)

// ProfileVersion identifies the current set of profile definitions. Bump it whenever
// a profile's stage list changes so that callers can tell results apart.
const ProfileVersion = "2025-01"

// profileStages maps every profile to its ordered stage list.
var profileStages = map[domain.Profile][]Stage{
	domain.ProfileStandard: {roundTripShapeStage, nonstopStage, budgetStage},
	domain.ProfileAutobook: {dedupStage, roundTripShapeStage, nonstopStage, budgetStage, selectionStage},
	domain.ProfileFlexible: {roundTripShapeStage, maxOneStopStage, budgetStage, selectionStage},
}

// CreatePipeline builds the pipeline for profile. Unknown profiles return a
// *domain.ConfigurationError; there is no default profile.
func CreatePipeline(profile domain.Profile, opts ...PipelineOption) (*Pipeline, error) {
	stages, ok := profileStages[profile]
	if !ok {
		return nil, &domain.ConfigurationError{Profile: string(profile), Message: "unknown profile"}
	}
	return NewPipeline(profile, stages, opts...), nil
}

// ProfileStages returns the stage names profile runs, in order.
func ProfileStages(profile domain.Profile) ([]StageName, error) {
	p, err := CreatePipeline(profile)
	if err != nil {
		return nil, err
	}
	return p.StageNames(), nil
}
