package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"roottrack-api/internal/config"
	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/domain/dashboard"
	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/domain/workflow"
	"roottrack-api/internal/infrastructure/cache"
	"roottrack-api/internal/infrastructure/database"
	"roottrack-api/internal/infrastructure/database/repository/activityrepo"
	"roottrack-api/internal/infrastructure/database/repository/insightrepo"
	"roottrack-api/internal/infrastructure/database/repository/measurementrepo"
	"roottrack-api/internal/infrastructure/database/repository/plantrepo"
	"roottrack-api/internal/infrastructure/database/repository/predictionrepo"
	"roottrack-api/internal/infrastructure/database/transaction"
	"roottrack-api/internal/infrastructure/events"
	"roottrack-api/internal/infrastructure/httpclient"
	"roottrack-api/internal/infrastructure/inference/gateway"
	"roottrack-api/internal/infrastructure/inference/gemini"
	"roottrack-api/internal/infrastructure/storage"
	"roottrack-api/internal/interfaces/httpserver"
	"roottrack-api/internal/interfaces/httpserver/handlers"
)

// Capacity of the in-process dashboard cache.
const dashboardMemoryCacheSize = 16

func newGormDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(database.ConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("database migrated")
	}
	return db, nil
}

func newInferenceProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger) (analysis.Provider, error) {
	switch cfg.InferenceProvider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderGateway:
		client := httpclient.NewClient("ai-gateway", cfg.AIRequestTimeout)
		return gateway.NewClient(client, cfg.AIGatewayURL, cfg.AIGatewayAPIKey, cfg.AIModel, log), nil
	default:
		return nil, fmt.Errorf("unsupported inference provider %q", cfg.InferenceProvider)
	}
}

// newDashboardCache falls back to an in-process LRU when redis is not configured.
func newDashboardCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (dashboard.Cache, func(), error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set; using in-process dashboard cache")
		memoryCache, err := cache.NewMemoryCache(dashboardMemoryCacheSize)
		if err != nil {
			return nil, nil, err
		}
		return memoryCache, func() {}, nil
	}
	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, nil, err
	}
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}, nil
}

// newActivityPublisher returns a nil Publisher when kafka is not configured.
func newActivityPublisher(cfg *config.Config, log zerolog.Logger) (activity.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info().Msg("KAFKA_BROKERS not set; activity events disabled")
		return nil, func() {}
	}
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaActivityTopic, log)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("close kafka writer")
		}
	}
}

func newServices(
	cfg *config.Config,
	log zerolog.Logger,
	db *gorm.DB,
	provider analysis.Provider,
	images workflow.ImageStore,
	dashboardCache dashboard.Cache,
	publisher activity.Publisher,
) (handlers.Services, error) {
	prompts, err := analysis.LoadPrompts()
	if err != nil {
		return handlers.Services{}, err
	}

	txDB := transaction.NewDatabase(db)
	plantRepo := plantrepo.NewPlantGormRepository(txDB)

	activitySvc := activity.NewService(activityrepo.NewActivityGormRepository(txDB), publisher, log)
	plantSvc := plant.NewService(plantRepo, activitySvc, txDB, log)
	measurementSvc := measurement.NewService(measurementrepo.NewMeasurementGormRepository(txDB), plantRepo, activitySvc, txDB, log)
	insightSvc := insight.NewService(insightrepo.NewInsightGormRepository(txDB), log)
	predictionSvc := prediction.NewService(predictionrepo.NewPredictionGormRepository(txDB))
	analysisSvc := analysis.NewService(provider, prompts, log)
	dashboardSvc := dashboard.NewService(plantSvc, measurementSvc, dashboardCache, cfg.DashboardCacheTTL, log)

	workflowSvc := workflow.NewService(workflow.Deps{
		Analysis:      analysisSvc,
		Plants:        plantSvc,
		Measurements:  measurementSvc,
		Insights:      insightSvc,
		Predictions:   predictionSvc,
		Activity:      activitySvc,
		Images:        images,
		Tx:            txDB,
		MaxImageBytes: cfg.MaxImageBytes,
	}, log)

	return handlers.Services{
		Analysis:     analysisSvc,
		Plants:       plantSvc,
		Measurements: measurementSvc,
		Insights:     insightSvc,
		Activity:     activitySvc,
		Predictions:  predictionSvc,
		Dashboard:    dashboardSvc,
		Workflows:    workflowSvc,
	}, nil
}

func newReadinessChecks(db *gorm.DB, images *storage.S3Storage) map[string]httpserver.ReadinessCheck {
	return map[string]httpserver.ReadinessCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"storage": images.Health,
	}
}
