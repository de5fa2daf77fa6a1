package measurementrepo

import (
	"context"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/infrastructure/database/entities"
	"roottrack-api/internal/infrastructure/database/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

type MeasurementGormRepository struct {
	db *transaction.Database
}

var _ measurement.Repository = (*MeasurementGormRepository)(nil)

func NewMeasurementGormRepository(db *transaction.Database) measurement.Repository {
	return &MeasurementGormRepository{db: db}
}

// Create implements measurement.Repository.
func (repo *MeasurementGormRepository) Create(ctx context.Context, m *measurement.Measurement) error {
	row := entities.MeasurementDtoE(m)
	if err := repo.db.GetTx(ctx).Omit("Plant").Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create measurement")
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	return nil
}

// List implements measurement.Repository.
func (repo *MeasurementGormRepository) List(ctx context.Context, filter measurement.Filter) ([]*measurement.Measurement, error) {
	query := repo.db.GetTx(ctx).Model(&entities.Measurement{})
	if filter.PlantID != nil {
		query = query.Where("plant_id = ?", *filter.PlantID)
	}

	var rows []entities.Measurement
	if err := query.Order("measured_at ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list measurements")
	}
	result := make([]*measurement.Measurement, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}
