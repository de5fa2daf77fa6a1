package predictionrepo

import (
	"context"

	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/infrastructure/database/entities"
	"roottrack-api/internal/infrastructure/database/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

type PredictionGormRepository struct {
	db *transaction.Database
}

var _ prediction.Repository = (*PredictionGormRepository)(nil)

func NewPredictionGormRepository(db *transaction.Database) prediction.Repository {
	return &PredictionGormRepository{db: db}
}

// Create implements prediction.Repository.
func (repo *PredictionGormRepository) Create(ctx context.Context, p *prediction.Prediction) error {
	row := entities.PredictionDtoE(p)
	if err := repo.db.GetTx(ctx).Omit("Plant").Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create prediction")
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	return nil
}

// ListByPlant implements prediction.Repository.
func (repo *PredictionGormRepository) ListByPlant(ctx context.Context, plantID string) ([]*prediction.Prediction, error) {
	var rows []entities.Prediction
	err := repo.db.GetTx(ctx).
		Where("plant_id = ?", plantID).
		Order("predicted_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list predictions")
	}
	result := make([]*prediction.Prediction, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}
