package repository

import (
	"github.com/google/wire"

	"roottrack-api/internal/infrastructure/database/repository/activityrepo"
	"roottrack-api/internal/infrastructure/database/repository/insightrepo"
	"roottrack-api/internal/infrastructure/database/repository/measurementrepo"
	"roottrack-api/internal/infrastructure/database/repository/plantrepo"
	"roottrack-api/internal/infrastructure/database/repository/predictionrepo"
)

var RepositoryProvider = wire.NewSet(
	plantrepo.NewPlantGormRepository,
	measurementrepo.NewMeasurementGormRepository,
	insightrepo.NewInsightGormRepository,
	activityrepo.NewActivityGormRepository,
	predictionrepo.NewPredictionGormRepository,
)
