// Package integration provides helpers and integration tests for the offer engine.
// Integration tests run the real adapters, use case and HTTP stack together against
// the supplier fixtures in test/testdata.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	httpAdapter "github.com/flight-search/flight-offer-engine/internal/adapter/http"
	"github.com/flight-search/flight-offer-engine/internal/adapter/http/middleware"
	"github.com/flight-search/flight-offer-engine/internal/adapter/http/response"
	"github.com/flight-search/flight-offer-engine/internal/adapter/provider"
	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/logger"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/metrics"
	"github.com/flight-search/flight-offer-engine/internal/usecase"
)

// Engine bundles a use case with the recorder and log buffer it writes to.
type Engine struct {
	UseCase usecase.OfferSearchUseCase
	Metrics *metrics.Recorder
	Logs    *LogBuffer
}

// LogBuffer collects log output from concurrent filter calls.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewEngine creates a use case over registry; a nil registry uses the default adapters.
func NewEngine(registry *domain.AdapterRegistry) *Engine {
	if registry == nil {
		registry = provider.NewDefaultRegistry()
	}
	logs := &LogBuffer{}
	log := logger.NewWithOutput(logger.Config{Level: "debug", Format: "json", ServiceName: "integration"}, logs)
	recorder := metrics.NewRecorder()

	return &Engine{
		UseCase: usecase.NewOfferSearchUseCase(registry, log, recorder, &usecase.Config{NormalizeConcurrency: 2}),
		Metrics: recorder,
		Logs:    logs,
	}
}

// Scrape returns the engine's metrics in the Prometheus text format.
func (e *Engine) Scrape(t testing.TB) string {
	t.Helper()
	rec := httptest.NewRecorder()
	e.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape metrics: status %d", rec.Code)
	}
	return rec.Body.String()
}

// TestServer wraps an Echo instance wired the way cmd/server wires it.
type TestServer struct {
	Echo   *echo.Echo
	Engine *Engine
}

// NewTestServer creates a test server over engine with the given request timeout.
func NewTestServer(engine *Engine, timeout time.Duration) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.Setup(e, logger.Nop(), middleware.Options{
		Recovery: middleware.RecoveryConfig{DisablePrintStack: true},
		Timeout:  timeout,
		Metrics:  engine.Metrics,
	})

	handler := httpAdapter.NewOfferHandler(engine.UseCase, domain.ProfileStandard)
	httpAdapter.RegisterRoutes(e, handler, engine.Metrics.Handler())

	return &TestServer{
		Echo:   e,
		Engine: engine,
	}
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(method, path string, body []byte) Response {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, req)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// FilterRequest posts body to the filter endpoint.
func (ts *TestServer) FilterRequest(body []byte) Response {
	return ts.Do(http.MethodPost, "/api/v1/offers/filter", body)
}

// ParseResult decodes a successful filter response.
func (r *Response) ParseResult() (*usecase.FilterResult, error) {
	var result usecase.FilterResult
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseError decodes an error response.
func (r *Response) ParseError() (*response.ErrorDetail, error) {
	var detail response.ErrorDetail
	if err := json.Unmarshal(r.Body, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// RequestBody encodes a filter request document.
func RequestBody(t testing.TB, profile domain.Profile, params domain.FilterParams, batches []domain.ProviderBatch) []byte {
	t.Helper()

	doc := map[string]interface{}{
		"profile": profile,
		"context": params,
		"batches": batches,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	return body
}
