// Package main is the entry point for the offer filtering HTTP service.
//
//	@title			Flight Offer Filtering API
//	@version		1.0.0
//	@description	Normalizes raw supplier flight offers into one canonical model and filters them through named profiles.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/flight-search/flight-offer-engine/issues
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	offerhttp "github.com/flight-search/flight-offer-engine/internal/adapter/http"
	"github.com/flight-search/flight-offer-engine/internal/adapter/http/middleware"
	"github.com/flight-search/flight-offer-engine/internal/adapter/provider"
	"github.com/flight-search/flight-offer-engine/internal/config"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/logger"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/metrics"
	"github.com/flight-search/flight-offer-engine/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.IsDevelopment(),
		ServiceName:  "offer-engine",
	})

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("default_profile", cfg.Engine.DefaultProfile).
		Int("normalize_concurrency", cfg.Engine.NormalizeConcurrency).
		Str("profile_version", usecase.ProfileVersion).
		Msg("Configuration loaded")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	recorder := metrics.NewRecorder()

	middleware.Setup(e, log, middleware.Options{
		Recovery: middleware.RecoveryConfig{DisablePrintStack: cfg.IsProduction()},
		Timeout:  cfg.Engine.RequestTimeout,
		Metrics:  recorder,
	})

	setupRoutes(e, cfg, log, recorder)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, log)
}

// setupRoutes wires the engine into the HTTP routes.
func setupRoutes(e *echo.Echo, cfg *config.Config, log *logger.Logger, recorder *metrics.Recorder) {
	registry := provider.NewDefaultRegistry()

	offerUseCase := usecase.NewOfferSearchUseCase(registry, log, recorder, &usecase.Config{
		NormalizeConcurrency: cfg.Engine.NormalizeConcurrency,
	})

	handler := offerhttp.NewOfferHandler(offerUseCase, cfg.DefaultProfile())
	offerhttp.RegisterRoutes(e, handler, recorder.Handler())
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
