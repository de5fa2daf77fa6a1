package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	roottrackdocs "roottrack-api/docs/swagger"
	"roottrack-api/internal/config"
	"roottrack-api/internal/infrastructure/auth"
	"roottrack-api/internal/interfaces/httpserver/handlers"
	"roottrack-api/internal/interfaces/httpserver/middlewares"
	"roottrack-api/internal/interfaces/httpserver/responses"
	v1 "roottrack-api/internal/interfaces/httpserver/routes/v1"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the HTTP server with default middleware and routes.
func New(cfg *config.Config, log zerolog.Logger, services handlers.Services, authValidator *auth.Validator, readiness map[string]ReadinessCheck) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	roottrackdocs.SwaggerInfo.BasePath = "/"

	engine := gin.New()
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.TracingMiddleware(cfg.ServiceName))
	engine.Use(middlewares.LoggingMiddleware(log))
	engine.Use(middlewares.Recovery(log))
	engine.Use(middlewares.MetricsMiddleware())
	engine.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))

	registerCoreRoutes(engine, cfg, readiness)

	api := engine.Group("")
	if authValidator != nil {
		api.Use(authValidator.Middleware())
	}
	if services.Dashboard != nil {
		api.Use(middlewares.InvalidateDashboard(services.Dashboard))
	}
	v1.NewRoutes(handlers.NewProvider(services, log)).Register(api)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Handler exposes the engine for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP listener and handles graceful shutdown via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, readiness map[string]ReadinessCheck) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"status":  "ok",
		})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, responses.HealthResponse{Status: "healthy"})
	})

	engine.GET("/readyz", func(c *gin.Context) {
		failures := map[string]string{}
		for name, check := range readiness {
			if err := check(c.Request.Context()); err != nil {
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": failures})
			return
		}
		c.JSON(http.StatusOK, responses.HealthResponse{Status: "ready"})
	})

	if cfg.EnableSwagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
