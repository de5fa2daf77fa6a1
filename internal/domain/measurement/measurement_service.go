package measurement

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/domain/transaction"
	"roottrack-api/internal/utils/platformerrors"
)

type Service struct {
	repo     Repository
	plants   plant.Repository
	activity *activity.Service
	tx       transaction.Manager
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, plants plant.Repository, activitySvc *activity.Service, tx transaction.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		plants:   plants,
		activity: activitySvc,
		tx:       tx,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "measurement-service").Logger(),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, plantID string) ([]*Measurement, error) {
	filter := Filter{}
	if plantID != "" {
		if err := s.validate.Var(plantID, "uuid"); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid plant id", err, "7a1e4c9d-3b6f-4d20-8e57-0c9b2f6a1d38")
		}
		filter.PlantID = &plantID
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list measurements")
	}
	return items, nil
}

// Record stores the measurement, moves the plant's root length to it and
// logs a measurement activity, all in one transaction.
func (s *Service) Record(ctx context.Context, in RecordInput) (*Measurement, error) {
	m, entry, err := s.Append(ctx, in)
	if err != nil {
		return nil, err
	}
	s.activity.Publish(ctx, entry)
	return m, nil
}

// Append is Record without the activity event. It joins the transaction in
// ctx when there is one; the caller publishes the entry after commit.
func (s *Service) Append(ctx context.Context, in RecordInput) (*Measurement, *activity.Entry, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "measurement validation failed", err, "c3f8a2d1-5e9b-4a7c-b6d4-8f2e1a0c9b57")
	}

	measuredAt := s.now().UTC()
	if in.MeasuredAt != nil {
		measuredAt = in.MeasuredAt.UTC()
	}

	var (
		recorded *Measurement
		entry    *activity.Entry
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		p, err := s.plants.GetByID(txCtx, in.PlantID)
		if err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "plant not found")
		}
		change := in.RootLength - p.RootLength

		m := &Measurement{
			PlantID:        in.PlantID,
			RootLength:     in.RootLength,
			RootDepth:      in.RootDepth,
			BranchingCount: in.BranchingCount,
			DensityScore:   in.DensityScore,
			HealthNotes:    in.HealthNotes,
			ImageURL:       in.ImageURL,
			AIAnalysis:     in.AIAnalysis,
			MeasuredAt:     measuredAt,
		}
		if err := s.repo.Create(txCtx, m); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to record measurement")
		}

		p.RootLength = in.RootLength
		if err := s.plants.Update(txCtx, p); err != nil {
			return platformerrors.AsError(txCtx, platformerrors.LayerDomain, err, "failed to update plant root length")
		}

		entry, err = s.activity.Append(txCtx, activity.LogInput{
			PlantID:      &p.ID,
			ActivityType: activity.TypeMeasurement,
			Description:  Describe(in.RootLength, change),
			Metadata:     map[string]any{"root_length": in.RootLength, "change": change},
		})
		if err != nil {
			return err
		}
		recorded = m
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return recorded, entry, nil
}

// Describe renders the activity line for a measurement, e.g.
// "Root length: 5.5 cm (+1.5 cm)".
func Describe(rootLength, change float64) string {
	sign := ""
	if change >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("Root length: %s cm (%s%.1f cm)", strconv.FormatFloat(rootLength, 'f', -1, 64), sign, change)
}
