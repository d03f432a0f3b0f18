package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/logger"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/timeutil"
)

// OfferSearchUseCase defines the interface for filtering raw supplier offers.
type OfferSearchUseCase interface {
	// Filter normalizes every batch, runs the profile's pipeline and returns the
	// surviving offers. Offers that fail normalization are reported in the metadata
	// and never fail the call.
	Filter(ctx context.Context, req FilterRequest) (*FilterResult, error)
}

// FilterRequest is one filter call.
type FilterRequest struct {
	Profile domain.Profile
	Params  domain.FilterParams
	Batches []domain.ProviderBatch
}

// FilterResult holds the filtered offers and a description of the run.
type FilterResult struct {
	Offers   []domain.Offer `json:"offers"`
	Metadata Metadata       `json:"metadata"`
}

// Metadata describes one filter call.
type Metadata struct {
	ExecutionID           string              `json:"executionId"`
	Profile               domain.Profile      `json:"profile"`
	ProfileVersion        string              `json:"profileVersion"`
	Context               domain.FilterParams `json:"context"`
	OffersReceived        int                 `json:"offersReceived"`
	OffersNormalized      int                 `json:"offersNormalized"`
	NormalizationFailures []FailureSummary    `json:"normalizationFailures"`
	StageStats            []StageStats        `json:"stageStats"`
	DurationMs            int64               `json:"durationMs"`
}

// FailureSummary reports one offer that could not be normalized.
type FailureSummary struct {
	Provider domain.Provider `json:"provider"`
	Batch    int             `json:"batch"`
	Index    int             `json:"index"`
	OfferID  string          `json:"offerId,omitempty"`
	Path     string          `json:"path,omitempty"`
	Reason   string          `json:"reason"`
}

type offerSearchUseCase struct {
	registry    *domain.AdapterRegistry
	log         *logger.Logger
	metrics     MetricsRecorder
	clock       timeutil.Clock
	concurrency int
}

// NewOfferSearchUseCase creates a new OfferSearchUseCase. If config is nil, defaults are
// used; nil log and metrics disable logging and metrics.
func NewOfferSearchUseCase(registry *domain.AdapterRegistry, log *logger.Logger, metrics MetricsRecorder, config *Config) OfferSearchUseCase {
	cfg := DefaultConfig()
	if config != nil {
		if config.NormalizeConcurrency > 0 {
			cfg.NormalizeConcurrency = config.NormalizeConcurrency
		}
		if config.Clock != nil {
			cfg.Clock = config.Clock
		}
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &offerSearchUseCase{
		registry:    registry,
		log:         log,
		metrics:     metrics,
		clock:       cfg.Clock,
		concurrency: cfg.NormalizeConcurrency,
	}
}

// normalizedBatch is the per-batch slot a normalization goroutine writes into.
type normalizedBatch struct {
	offers   []domain.Offer
	failures []FailureSummary
}

// Filter implements OfferSearchUseCase.Filter.
func (uc *offerSearchUseCase) Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	start := uc.clock.Now()

	fctx, err := domain.NewFilterContext(req.Params)
	if err != nil {
		return nil, fmt.Errorf("invalid filter context: %w", err)
	}

	pipeline, err := CreatePipeline(req.Profile, WithClock(uc.clock))
	if err != nil {
		return nil, err
	}

	adapters := make([]domain.ProviderAdapter, len(req.Batches))
	for i, b := range req.Batches {
		a, err := uc.registry.Resolve(b.Provider)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		adapters[i] = a
	}

	slots := make([]normalizedBatch, len(req.Batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i := range req.Batches {
		i := i
		g.Go(func() error {
			return normalizeBatch(gctx, i, req.Batches[i], adapters[i], fctx, &slots[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	received := 0
	offers := make([]domain.Offer, 0)
	failures := make([]FailureSummary, 0)
	for i, b := range req.Batches {
		received += len(b.Offers)
		uc.metrics.OffersReceived(string(b.Provider), len(b.Offers))
		offers = append(offers, slots[i].offers...)
		failures = append(failures, slots[i].failures...)
	}
	for _, f := range failures {
		uc.metrics.NormalizationFailed(string(f.Provider))
		uc.log.Warn().
			Str("provider", string(f.Provider)).
			Str("offer_id", f.OfferID).
			Str("path", f.Path).
			Int("batch", f.Batch).
			Int("index", f.Index).
			Msg("offer dropped: " + f.Reason)
	}

	result, err := pipeline.Execute(offers, fctx)
	if err != nil {
		return nil, err
	}

	elapsed := timeutil.Since(uc.clock, start)
	for _, s := range result.StageStats {
		uc.metrics.StageDropped(string(result.Profile), string(s.Stage), s.Dropped)
	}
	uc.metrics.PipelineExecuted(string(result.Profile), elapsed)

	log := uc.log.WithExecution(result.ExecutionID, string(result.Profile))
	log.Debug().
		Int("received", received).
		Int("normalized", len(offers)).
		Int("failed", len(failures)).
		Int("returned", len(result.FilteredOffers)).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("filter completed")

	return &FilterResult{
		Offers: result.FilteredOffers,
		Metadata: Metadata{
			ExecutionID:           result.ExecutionID,
			Profile:               result.Profile,
			ProfileVersion:        ProfileVersion,
			Context:               fctx.Params(),
			OffersReceived:        received,
			OffersNormalized:      len(offers),
			NormalizationFailures: failures,
			StageStats:            result.StageStats,
			DurationMs:            elapsed.Milliseconds(),
		},
	}, nil
}

// normalizeBatch converts the records of one batch in order. Per-record failures are
// collected; only cancellation stops the batch.
func normalizeBatch(ctx context.Context, batch int, b domain.ProviderBatch, adapter domain.ProviderAdapter, fctx *domain.FilterContext, out *normalizedBatch) error {
	out.offers = make([]domain.Offer, 0, len(b.Offers))
	for j, r := range b.Offers {
		if err := ctx.Err(); err != nil {
			return err
		}
		offer, err := normalizeOne(b.Provider, adapter, r, fctx)
		if err != nil {
			out.failures = append(out.failures, summarizeFailure(b.Provider, batch, j, err))
			continue
		}
		out.offers = append(out.offers, offer)
	}
	return nil
}

// normalizeOne calls the adapter, converting a panic into a NormalizationError.
func normalizeOne(provider domain.Provider, adapter domain.ProviderAdapter, raw json.RawMessage, fctx *domain.FilterContext) (offer domain.Offer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewNormalizationError(provider, "", "$", fmt.Sprintf("panic: %v", r))
		}
	}()
	return adapter.Normalize(raw, fctx)
}

func summarizeFailure(provider domain.Provider, batch, index int, err error) FailureSummary {
	f := FailureSummary{
		Provider: provider,
		Batch:    batch,
		Index:    index,
		Reason:   err.Error(),
	}
	var nerr *domain.NormalizationError
	if errors.As(err, &nerr) {
		f.OfferID = nerr.OfferID
		f.Path = nerr.Path
		f.Reason = nerr.Reason
	}
	return f
}

// Ensure offerSearchUseCase implements OfferSearchUseCase at compile time.
var _ OfferSearchUseCase = (*offerSearchUseCase)(nil)
