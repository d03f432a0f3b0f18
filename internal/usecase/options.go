package usecase

import (
	"time"

	"github.com/flight-search/flight-offer-engine/internal/infrastructure/timeutil"
)

// DefaultNormalizeConcurrency is the number of batches normalized in parallel.
const DefaultNormalizeConcurrency = 4

// Config contains configuration options for the use case.
type Config struct {
	// NormalizeConcurrency bounds how many batches are normalized at once.
	NormalizeConcurrency int

	// Clock is used for execution timing. Defaults to the wall clock.
	Clock timeutil.Clock
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		NormalizeConcurrency: DefaultNormalizeConcurrency,
		Clock:                timeutil.NewRealClock(),
	}
}

// MetricsRecorder receives counters derived from each filter call.
type MetricsRecorder interface {
	OffersReceived(provider string, n int)
	NormalizationFailed(provider string)
	StageDropped(profile, stage string, dropped int)
	PipelineExecuted(profile string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) OffersReceived(string, int)             {}
func (nopMetrics) NormalizationFailed(string)             {}
func (nopMetrics) StageDropped(string, string, int)       {}
func (nopMetrics) PipelineExecuted(string, time.Duration) {}
