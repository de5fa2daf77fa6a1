package workflow

import (
	"context"

	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/prediction"
)

// MaxHealthWarnings caps the early warnings saved as insights per health check.
const MaxHealthWarnings = 3

// MaxPredictionDays bounds the day offset of a stored growth prediction.
// Points further out are skipped.
const MaxPredictionDays = 3650

// ImageInfo describes a sniffed root image.
type ImageInfo struct {
	MIME      string
	Extension string
	Size      int
}

// ImageStore validates and keeps uploaded root photos.
type ImageStore interface {
	// Inspect sniffs the content type and rejects anything but supported images.
	Inspect(data []byte) (ImageInfo, error)
	Enabled() bool
	// Put uploads the image and returns its object key.
	Put(ctx context.Context, info ImageInfo, data []byte) (string, error)
}

// Outcome is the analysis result plus whatever was persisted from it.
type Outcome struct {
	Result      *analysis.Result
	Insights    []*insight.Insight
	Predictions []*prediction.Prediction
	Measurement *measurement.Measurement
	ImageKey    string
}
