package plant

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

// Service handles plant registration and care actions.
type Service struct {
	repo     Repository
	activity *activity.Service
	tx       transaction.Manager
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo Repository, activitySvc *activity.Service, tx transaction.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		activity: activitySvc,
		tx:       tx,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "plant-service").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]*Plant, error) {
	plants, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list plants")
	}
	return plants, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Plant, error) {
	if err := s.validate.Var(id, "required,uuid"); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid plant id", err, "0b4f1d2c-6a3e-4f7b-8d91-2c5e7a9b3f10")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "plant not found")
	}
	return p, nil
}

// Create registers a plant, applying registration defaults to omitted fields.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Plant, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "plant validation failed", err, "6c2a9e41-7d3b-4b8e-a5f0-1e9d4c7b2a83")
	}

	p := NewPlant(in)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create plant")
	}
	s.log.Info().Str("plant_id", p.ID).Str("species", p.Species).Msg("plant registered")
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Plant, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "plant validation failed", err, "9e7d3c1a-2f4b-4a6e-b8c5-3d1f0a7e9b24")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.apply(in)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update plant")
	}
	return p, nil
}

// Water sets the plant's water level and records a water activity.
func (s *Service) Water(ctx context.Context, id string, level int) (*Plant, error) {
	if err := s.validate.Var(level, "gte=0,lte=100"); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "water level must be between 0 and 100", err, "2d8b6f3e-1c7a-4e92-9f05-7a4c3e1b8d66")
	}

	var (
		watered *Plant
		entry   *activity.Entry
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.Get(txCtx, id)
		if err != nil {
			return err
		}
		p.WaterLevel = level
		if err := s.repo.Update(txCtx, p); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to water plant")
		}

		entry, err = s.activity.Append(txCtx, activity.LogInput{
			PlantID:      &p.ID,
			ActivityType: activity.TypeWater,
			Description:  fmt.Sprintf("Watered to %d%% capacity", level),
			Metadata:     map[string]any{"water_level": level},
		})
		if err != nil {
			return err
		}
		watered = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, entry)
	return watered, nil
}
