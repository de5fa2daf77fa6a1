package prediction

import (
	"context"

	"github.com/go-playground/validator/v10"

	"roottrack-api/internal/utils/platformerrors"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) Create(ctx context.Context, p *Prediction) error {
	if err := s.validate.Var(p.PlantID, "required,uuid"); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid plant id", err, "b9e3f1a7-4c2d-4e8b-a0f6-1d7c5e3b9a42")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store prediction")
	}
	return nil
}

func (s *Service) ListByPlant(ctx context.Context, plantID string) ([]*Prediction, error) {
	if err := s.validate.Var(plantID, "required,uuid"); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid plant id", err, "3a6f9c2e-8b1d-4d57-9e04-6c2a1f8b3d90")
	}
	items, err := s.repo.ListByPlant(ctx, plantID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list predictions")
	}
	return items, nil
}
