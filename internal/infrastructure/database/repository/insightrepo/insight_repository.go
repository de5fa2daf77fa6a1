package insightrepo

import (
	"context"

	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/infrastructure/database/entities"
	"roottrack-api/internal/infrastructure/database/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

type InsightGormRepository struct {
	db *transaction.Database
}

var _ insight.Repository = (*InsightGormRepository)(nil)

func NewInsightGormRepository(db *transaction.Database) insight.Repository {
	return &InsightGormRepository{db: db}
}

// Create implements insight.Repository.
func (repo *InsightGormRepository) Create(ctx context.Context, in *insight.Insight) error {
	row := entities.InsightDtoE(in)
	if err := repo.db.GetTx(ctx).Omit("Plant").Create(row).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create insight")
	}
	in.ID = row.ID
	in.CreatedAt = row.CreatedAt
	return nil
}

// List implements insight.Repository.
func (repo *InsightGormRepository) List(ctx context.Context) ([]*insight.Insight, error) {
	var rows []entities.Insight
	if err := repo.db.GetTx(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list insights")
	}
	result := make([]*insight.Insight, len(rows))
	for i := range rows {
		result[i] = rows[i].EtoD()
	}
	return result, nil
}

// MarkRead implements insight.Repository.
func (repo *InsightGormRepository) MarkRead(ctx context.Context, id string) (*insight.Insight, error) {
	db := repo.db.GetTx(ctx)
	var row entities.Insight
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "insight not found")
	}
	if !row.IsRead {
		if err := db.Model(&row).Update("is_read", true).Error; err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to mark insight read")
		}
		row.IsRead = true
	}
	return row.EtoD(), nil
}
