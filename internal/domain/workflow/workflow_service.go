package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/domain/transaction"
	"roottrack-api/internal/utils/dataurl"
	"roottrack-api/internal/utils/platformerrors"
)

// Service runs an analysis for a plant and persists what the answer implies.
// Nothing is persisted when the model answer degraded to a raw response.
type Service struct {
	analysis      *analysis.Service
	plants        *plant.Service
	measurements  *measurement.Service
	insights      *insight.Service
	predictions   *prediction.Service
	activity      *activity.Service
	images        ImageStore
	tx            transaction.Manager
	maxImageBytes int64
	log           zerolog.Logger
	now           func() time.Time
}

type Deps struct {
	Analysis      *analysis.Service
	Plants        *plant.Service
	Measurements  *measurement.Service
	Insights      *insight.Service
	Predictions   *prediction.Service
	Activity      *activity.Service
	Images        ImageStore
	Tx            transaction.Manager
	MaxImageBytes int64
}

func NewService(deps Deps, log zerolog.Logger) *Service {
	return &Service{
		analysis:      deps.Analysis,
		plants:        deps.Plants,
		measurements:  deps.Measurements,
		insights:      deps.Insights,
		predictions:   deps.Predictions,
		activity:      deps.Activity,
		images:        deps.Images,
		tx:            deps.Tx,
		maxImageBytes: deps.MaxImageBytes,
		log:           log.With().Str("component", "workflow-service").Logger(),
		now:           time.Now,
	}
}

// HealthCheck assesses a plant and saves up to three early warnings as
// health insights.
func (s *Service) HealthCheck(ctx context.Context, plantID string) (*Outcome, error) {
	p, result, err := s.analyzePlant(ctx, plantID, analysis.KindHealthAssessment)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Result: result}
	fields, ok := result.Fields()
	if !ok {
		return outcome, nil
	}

	score, hasScore := fields.Number("healthScore")
	priority := insight.PriorityMedium
	if hasScore && score < 50 {
		priority = insight.PriorityHigh
	}
	warnings := nonEmpty(fields.Texts("earlyWarnings"))
	if len(warnings) > MaxHealthWarnings {
		warnings = warnings[:MaxHealthWarnings]
	}

	description := "Health assessment completed"
	if hasScore {
		description = fmt.Sprintf("Health assessment completed: score %s", formatNumber(score))
	}
	if status := fields.String("healthStatus"); status != "" {
		description += fmt.Sprintf(" (%s)", status)
	}

	var entry *activity.Entry
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, warning := range warnings {
			item, err := s.insights.Create(txCtx, insight.CreateInput{
				PlantID:     &p.ID,
				InsightType: insight.TypeHealth,
				Title:       "Health Warning",
				Description: warning,
				Priority:    priority,
			})
			if err != nil {
				return err
			}
			outcome.Insights = append(outcome.Insights, item)
		}

		metadata := map[string]any{"kind": string(analysis.KindHealthAssessment), "warnings": len(warnings)}
		if hasScore {
			metadata["health_score"] = score
		}
		entry, err = s.activity.Append(txCtx, activity.LogInput{
			PlantID:      &p.ID,
			ActivityType: activity.TypeAnalysis,
			Description:  description,
			Metadata:     metadata,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, entry)
	return outcome, nil
}

// PredictGrowth forecasts root growth and stores each predicted point,
// dated now plus its day offset.
func (s *Service) PredictGrowth(ctx context.Context, plantID string) (*Outcome, error) {
	p, result, err := s.analyzePlant(ctx, plantID, analysis.KindPredictGrowth)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Result: result}
	fields, ok := result.Fields()
	if !ok {
		return outcome, nil
	}

	var conditions map[string]any
	if raw, ok := fields["optimalConditions"]; ok {
		if err := json.Unmarshal(raw, &conditions); err != nil {
			conditions = nil
		}
	}

	now := s.now().UTC()
	var entry *activity.Entry
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, point := range fields.Objects("predictions") {
			days, okDays := point.Number("days")
			length, okLength := point.Number("predictedLength")
			if !okDays || !okLength || days < 0 || days > MaxPredictionDays {
				continue
			}
			pred := &prediction.Prediction{
				PlantID:         p.ID,
				PredictedDate:   now.Add(time.Duration(days * float64(24*time.Hour))),
				PredictedLength: length,
				Conditions:      conditions,
			}
			if confidence, ok := point.Number("confidence"); ok {
				pred.Confidence = &confidence
			}
			if err := s.predictions.Create(txCtx, pred); err != nil {
				return err
			}
			outcome.Predictions = append(outcome.Predictions, pred)
		}

		var err error
		entry, err = s.activity.Append(txCtx, activity.LogInput{
			PlantID:      &p.ID,
			ActivityType: activity.TypeAnalysis,
			Description:  fmt.Sprintf("Growth prediction generated (%d points)", len(outcome.Predictions)),
			Metadata:     map[string]any{"kind": string(analysis.KindPredictGrowth), "predictions": len(outcome.Predictions)},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, entry)
	return outcome, nil
}

// GenerateInsights asks for recommendations and stores each one.
func (s *Service) GenerateInsights(ctx context.Context, plantID string) (*Outcome, error) {
	p, result, err := s.analyzePlant(ctx, plantID, analysis.KindGenerateInsights)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Result: result}
	fields, ok := result.Fields()
	if !ok {
		return outcome, nil
	}

	var entry *activity.Entry
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, generated := range fields.Objects("insights") {
			title := strings.TrimSpace(generated.String("title"))
			description := describeInsight(generated.String("description"), generated.Texts("actionItems"))
			if title == "" || description == "" {
				continue
			}
			item, err := s.insights.Create(txCtx, insight.CreateInput{
				PlantID:     &p.ID,
				InsightType: insightType(generated.String("type")),
				Title:       title,
				Description: description,
				Priority:    insightPriority(generated.String("priority")),
			})
			if err != nil {
				return err
			}
			outcome.Insights = append(outcome.Insights, item)
		}

		var err error
		entry, err = s.activity.Append(txCtx, activity.LogInput{
			PlantID:      &p.ID,
			ActivityType: activity.TypeAnalysis,
			Description:  fmt.Sprintf("Generated %d AI insights", len(outcome.Insights)),
			Metadata:     map[string]any{"kind": string(analysis.KindGenerateInsights), "insights": len(outcome.Insights)},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, entry)
	return outcome, nil
}

// AnalyzeImage analyzes a root photo, or a demonstration sample when no
// image is given. With a plant and a numeric rootLength in the answer, a
// measurement carrying the analysis and the stored image key is recorded.
func (s *Service) AnalyzeImage(ctx context.Context, plantID string, imageBase64 string) (*Outcome, error) {
	var p *plant.Plant
	if plantID != "" {
		var err error
		if p, err = s.plants.Get(ctx, plantID); err != nil {
			return nil, err
		}
	}

	var (
		image []byte
		info  ImageInfo
	)
	if imageBase64 != "" && !dataurl.IsRemote(imageBase64) {
		var err error
		if image, info, err = s.inspectImage(ctx, imageBase64); err != nil {
			return nil, err
		}
	}

	result, err := s.analysis.Analyze(ctx, analysis.Request{
		Type:        string(analysis.KindAnalyzeImage),
		ImageBase64: imageBase64,
	})
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Result: result}
	fields, ok := result.Fields()
	if !ok {
		return outcome, nil
	}

	if image != nil && s.images != nil && s.images.Enabled() {
		key, err := s.images.Put(ctx, info, image)
		if err != nil {
			s.log.Warn().Err(err).Msg("store root image")
		} else {
			outcome.ImageKey = key
		}
	}

	var plantRef *string
	if p != nil {
		plantRef = &p.ID
	}
	rootLength, hasLength := fields.Number("rootLength")

	description := "AI root analysis completed"
	if image == nil && imageBase64 == "" {
		description = "AI sample root analysis completed"
	}
	metadata := map[string]any{"kind": string(analysis.KindAnalyzeImage)}
	if hasLength {
		metadata["root_length"] = rootLength
	}
	if score, ok := fields.Number("healthScore"); ok {
		metadata["health_score"] = score
	}

	var entries []*activity.Entry
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if outcome.ImageKey != "" {
			entry, err := s.activity.Append(txCtx, activity.LogInput{
				PlantID:      plantRef,
				ActivityType: activity.TypePhoto,
				Description:  "Root photo uploaded",
				Metadata:     map[string]any{"image_key": outcome.ImageKey, "mime": info.MIME, "bytes": info.Size},
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		if p != nil && hasLength && rootLength >= 0 {
			m, entry, err := s.measurements.Append(txCtx, measurementInput(p.ID, rootLength, fields, result.Payload, outcome.ImageKey))
			if err != nil {
				return err
			}
			outcome.Measurement = m
			entries = append(entries, entry)
		}

		entry, err := s.activity.Append(txCtx, activity.LogInput{
			PlantID:      plantRef,
			ActivityType: activity.TypeAnalysis,
			Description:  description,
			Metadata:     metadata,
		})
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, entries...)
	return outcome, nil
}

func measurementInput(plantID string, rootLength float64, fields analysis.Fields, payload json.RawMessage, imageKey string) measurement.RecordInput {
	in := measurement.RecordInput{
		PlantID:    plantID,
		RootLength: rootLength,
		AIAnalysis: payload,
	}
	if v, ok := fields.Number("rootDepth"); ok && v >= 0 {
		in.RootDepth = &v
	}
	if v, ok := fields.Number("branchingCount"); ok && v >= 0 {
		n := int(math.Round(v))
		in.BranchingCount = &n
	}
	if v, ok := fields.Number("densityScore"); ok && v >= 0 {
		in.DensityScore = &v
	}
	if notes := fields.String("overallAssessment"); notes != "" {
		in.HealthNotes = &notes
	}
	if imageKey != "" {
		in.ImageURL = &imageKey
	}
	return in
}

func (s *Service) analyzePlant(ctx context.Context, plantID string, kind analysis.Kind) (*plant.Plant, *analysis.Result, error) {
	p, err := s.plants.Get(ctx, plantID)
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to encode plant", err, "2e8c4a6f-9b1d-4f53-a7e2-6d0b3f9c1a84")
	}
	result, err := s.analysis.Analyze(ctx, analysis.Request{Type: string(kind), Data: data})
	if err != nil {
		return nil, nil, err
	}
	return p, result, nil
}

func (s *Service) inspectImage(ctx context.Context, imageBase64 string) ([]byte, ImageInfo, error) {
	_, data, err := dataurl.Decode(imageBase64)
	if err != nil {
		return nil, ImageInfo{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "imageBase64 is not a valid base64 data URL", err, "4c1a8e3f-7d2b-4b96-9e05-3a6f1d8c2b47")
	}
	if s.maxImageBytes > 0 && int64(len(data)) > s.maxImageBytes {
		return nil, ImageInfo{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, fmt.Sprintf("image exceeds %d bytes", s.maxImageBytes), nil, "8f3d1b6a-2c9e-4e70-b4a8-5d1c7e3f9a26")
	}
	if s.images == nil {
		return data, ImageInfo{Size: len(data)}, nil
	}
	info, err := s.images.Inspect(data)
	if err != nil {
		return nil, ImageInfo{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "unsupported image type", err, "b6e2d9a4-1f7c-4a35-8c90-7e3b5d1f4a68")
	}
	return data, info, nil
}

func describeInsight(description string, actionItems []analysis.Text) string {
	description = strings.TrimSpace(description)
	items := nonEmpty(actionItems)
	if len(items) == 0 {
		return description
	}
	var b strings.Builder
	b.WriteString(description)
	if description != "" {
		b.WriteString("\n\n")
	}
	b.WriteString("Action items:")
	for _, item := range items {
		b.WriteString("\n- ")
		b.WriteString(item)
	}
	return b.String()
}

func insightType(raw string) insight.Type {
	switch t := insight.Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case insight.TypeIrrigation, insight.TypeFertilization, insight.TypeHealth, insight.TypeStress:
		return t
	}
	return insight.TypeGeneral
}

func insightPriority(raw string) insight.Priority {
	switch p := insight.Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case insight.PriorityLow, insight.PriorityMedium, insight.PriorityHigh, insight.PriorityCritical:
		return p
	}
	return insight.PriorityMedium
}

func nonEmpty(items []analysis.Text) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(string(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
