package insight

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"roottrack-api/internal/utils/platformerrors"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "insight-service").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]*Insight, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list insights")
	}
	return items, nil
}

// Create stores an unread insight. Priority defaults to medium.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Insight, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "insight validation failed", err, "e1b7c4a9-0d3f-4c82-9a6e-5b2d8f1c3e70")
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	item := &Insight{
		PlantID:     in.PlantID,
		InsightType: in.InsightType,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create insight")
	}
	return item, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (*Insight, error) {
	if err := s.validate.Var(id, "required,uuid"); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid insight id", err, "58d2e9f4-6a1b-4f3c-8d70-2e4b9c6a1f05")
	}
	item, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "insight not found")
	}
	return item, nil
}
