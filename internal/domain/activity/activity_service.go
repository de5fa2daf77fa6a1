package activity

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"roottrack-api/internal/utils/platformerrors"
)

type Service struct {
	repo      Repository
	publisher Publisher
	validate  *validator.Validate
	log       zerolog.Logger
}

func NewService(repo Repository, publisher Publisher, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       log.With().Str("component", "activity-service").Logger(),
	}
}

// Log stores the entry and publishes it.
func (s *Service) Log(ctx context.Context, in LogInput) (*Entry, error) {
	entry, err := s.Append(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, entry)
	return entry, nil
}

// Append stores the entry without publishing. Callers inside a transaction
// publish after commit.
func (s *Service) Append(ctx context.Context, in LogInput) (*Entry, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid activity entry", err, "4f0c7a1e-2b1d-4c55-9a07-3f5d0e1c8b21")
	}

	entry := &Entry{
		PlantID:      in.PlantID,
		ActivityType: in.ActivityType,
		Description:  in.Description,
		Metadata:     in.Metadata,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to log activity")
	}
	return entry, nil
}

// Publish is best-effort: failures are logged and swallowed.
func (s *Service) Publish(ctx context.Context, entries ...*Entry) {
	if s.publisher == nil {
		return
	}
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if err := s.publisher.PublishActivity(ctx, entry); err != nil {
			s.log.Warn().Err(err).
				Str("activity_id", entry.ID).
				Str("activity_type", string(entry.ActivityType)).
				Msg("publish activity event")
		}
	}
}

// Recent returns the latest entries. Non-positive or oversized limits fall back to MaxRecent.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list activity")
	}
	return entries, nil
}
