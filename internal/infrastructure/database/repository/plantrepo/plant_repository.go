package plantrepo

import (
	"context"
	"time"

	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/infrastructure/database/entities"
	"roottrack-api/internal/infrastructure/database/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

type PlantGormRepository struct {
	db *transaction.Database
}

var _ plant.Repository = (*PlantGormRepository)(nil)

func NewPlantGormRepository(db *transaction.Database) plant.Repository {
	return &PlantGormRepository{db: db}
}

// Create implements plant.Repository.
func (repo *PlantGormRepository) Create(ctx context.Context, p *plant.Plant) error {
	row := entities.PlantDtoE(p)
	if err := repo.db.GetTx(ctx).Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create plant")
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID implements plant.Repository.
func (repo *PlantGormRepository) GetByID(ctx context.Context, id string) (*plant.Plant, error) {
	var row entities.Plant
	if err := repo.db.GetTx(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "plant not found")
	}
	return row.EtoD(), nil
}

// List implements plant.Repository.
func (repo *PlantGormRepository) List(ctx context.Context) ([]*plant.Plant, error) {
	var rows []entities.Plant
	if err := repo.db.GetTx(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list plants")
	}
	result := make([]*plant.Plant, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// Update implements plant.Repository. Every column is written so zero values stick.
func (repo *PlantGormRepository) Update(ctx context.Context, p *plant.Plant) error {
	row := entities.PlantDtoE(p)
	row.UpdatedAt = time.Now()
	result := repo.db.GetTx(ctx).Model(&entities.Plant{}).
		Where("id = ?", p.ID).
		Select("name", "species", "root_length", "max_root_length", "stage", "days_planted",
			"health_score", "water_level", "light_level", "soil_type", "temperature", "moisture",
			"notes", "updated_at").
		Updates(row)
	if result.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to update plant")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "plant not found", nil, "c8a2f6d1-3e9b-4f75-a1d4-9b7e2c5f0a38")
	}
	p.UpdatedAt = row.UpdatedAt
	return nil
}
