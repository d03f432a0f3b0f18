package usecase

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/timeutil"
)

// StageStats describes what one stage did during an execution.
type StageStats struct {
	Stage      StageName   `json:"stage"`
	Input      int         `json:"input"`
	Output     int         `json:"output"`
	Dropped    int         `json:"dropped"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// PipelineResult is the outcome of one pipeline execution.
type PipelineResult struct {
	ExecutionID    string         `json:"executionId"`
	Profile        domain.Profile `json:"profile"`
	FilteredOffers []domain.Offer `json:"filteredOffers"`
	StageStats     []StageStats   `json:"stageStats"`
	DurationMs     int64          `json:"durationMs"`
}

// Pipeline runs an ordered list of stages. It holds no per-execution state and
// may be shared between goroutines.
type Pipeline struct {
	profile domain.Profile
	stages  []Stage
	clock   timeutil.Clock
	newID   func() string
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock sets the clock used for execution timing.
func WithClock(c timeutil.Clock) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithIDGenerator sets the execution id generator.
func WithIDGenerator(fn func() string) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewPipeline creates a pipeline running stages in the given order.
func NewPipeline(profile domain.Profile, stages []Stage, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		profile: profile,
		stages:  append([]Stage(nil), stages...),
		clock:   timeutil.NewRealClock(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile returns the profile the pipeline was built for.
func (p *Pipeline) Profile() domain.Profile {
	return p.profile
}

// StageNames returns the stage names in execution order.
func (p *Pipeline) StageNames() []StageName {
	names := make([]StageName, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Execute runs every stage in order over offers. The input slice is never modified.
//
// It fails only when fctx is nil or when an offer cannot be compared at all
// (no currency, a negative price or no itineraries); such errors wrap
// domain.ErrInvalidOffer.
func (p *Pipeline) Execute(offers []domain.Offer, fctx *domain.FilterContext) (*PipelineResult, error) {
	start := p.clock.Now()

	if fctx == nil {
		return nil, domain.NewValidationError("context", "filter context is required")
	}
	if err := validateOffers(offers); err != nil {
		return nil, err
	}

	current := make([]domain.Offer, len(offers))
	copy(current, offers)

	stats := make([]StageStats, 0, len(p.stages))
	for _, s := range p.stages {
		kept, rejections, err := s.Apply(current, fctx)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		stats = append(stats, StageStats{
			Stage:      s.Name(),
			Input:      len(current),
			Output:     len(kept),
			Dropped:    len(current) - len(kept),
			Rejections: rejections,
		})
		current = kept
	}

	if current == nil {
		current = []domain.Offer{}
	}

	return &PipelineResult{
		ExecutionID:    p.newID(),
		Profile:        p.profile,
		FilteredOffers: current,
		StageStats:     stats,
		DurationMs:     timeutil.Since(p.clock, start).Milliseconds(),
	}, nil
}

// validateOffers rejects offers no stage could reason about.
func validateOffers(offers []domain.Offer) error {
	for i, o := range offers {
		switch {
		case o.Currency == "":
			return domain.WrapInvalidOffer("offer %d (%s/%s) has no currency", i, o.Provider, o.ID)
		case o.TotalBasePrice.IsNegative(), o.TotalPriceWithCarryOn.IsNegative():
			return domain.WrapInvalidOffer("offer %d (%s/%s) has a negative price", i, o.Provider, o.ID)
		case len(o.Itineraries) == 0:
			return domain.WrapInvalidOffer("offer %d (%s/%s) has no itineraries", i, o.Provider, o.ID)
		}
	}
	return nil
}
