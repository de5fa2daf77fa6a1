//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"roottrack-api/internal/config"
	"roottrack-api/internal/domain/workflow"
	"roottrack-api/internal/infrastructure/auth"
	"roottrack-api/internal/infrastructure/logger"
	"roottrack-api/internal/infrastructure/storage"
	"roottrack-api/internal/interfaces/httpserver"
)

var infrastructureSet = wire.NewSet(
	newGormDB,
	newInferenceProvider,
	storage.NewS3Storage,
	wire.Bind(new(workflow.ImageStore), new(*storage.S3Storage)),
	newDashboardCache,
	newActivityPublisher,
	auth.NewValidator,
	newReadinessChecks,
)

// BuildApplication assembles the service with Wire. The returned func
// releases redis and kafka connections.
func BuildApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		newLogger,
		infrastructureSet,
		newServices,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}
