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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"roottrack-api/internal/config"
	"roottrack-api/internal/infrastructure/auth"
	"roottrack-api/internal/infrastructure/logger"
	"roottrack-api/internal/infrastructure/observability"
	"roottrack-api/internal/infrastructure/storage"
	"roottrack-api/internal/interfaces/httpserver"
)

// @title RootTrack API
// @version 1.0
// @description Plant root growth tracking with AI root analysis.
// @BasePath /
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(cfg *config.Config, httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		cfg:        cfg,
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the API and the metrics listener until ctx is cancelled or either fails.
func (a *Application) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.httpServer.Run(gctx)
	})
	g.Go(func() error {
		return a.runMetrics(gctx)
	})
	return g.Wait()
}

func (a *Application) runMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              a.cfg.MetricsAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.MetricsAddr()).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	log = log.With().Str("service", cfg.ServiceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	provider, err := newInferenceProvider(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize inference provider")
	}
	if !provider.Configured() {
		log.Warn().Str("provider", provider.Name()).Msg("AI credential is not set; analysis requests will fail until it is configured")
	}

	images, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize image storage")
	}

	dashboardCache, closeCache, err := newDashboardCache(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect dashboard cache")
	}
	defer closeCache()

	publisher, closePublisher := newActivityPublisher(cfg, log)
	defer closePublisher()

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}
	defer authValidator.Close()

	services, err := newServices(cfg, log, db, provider, images, dashboardCache, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("assemble services")
	}

	httpServer := httpserver.New(cfg, log, services, authValidator, newReadinessChecks(db, images))
	app := NewApplication(cfg, httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
