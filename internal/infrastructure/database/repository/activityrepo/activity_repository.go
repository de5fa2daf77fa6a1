package activityrepo

import (
	"context"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/infrastructure/database/entities"
	"roottrack-api/internal/infrastructure/database/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

type ActivityGormRepository struct {
	db *transaction.Database
}

var _ activity.Repository = (*ActivityGormRepository)(nil)

func NewActivityGormRepository(db *transaction.Database) activity.Repository {
	return &ActivityGormRepository{db: db}
}

// Create implements activity.Repository.
func (repo *ActivityGormRepository) Create(ctx context.Context, entry *activity.Entry) error {
	row := entities.ActivityDtoE(entry)
	if err := repo.db.GetTx(ctx).Omit("Plant").Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create activity")
	}
	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	return nil
}

// ListRecent implements activity.Repository.
func (repo *ActivityGormRepository) ListRecent(ctx context.Context, limit int) ([]*activity.Entry, error) {
	var rows []entities.ActivityLog
	if err := repo.db.GetTx(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list activity")
	}
	result := make([]*activity.Entry, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}
