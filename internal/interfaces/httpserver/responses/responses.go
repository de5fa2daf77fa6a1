package responses

import (
	"encoding/json"

	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/prediction"
)

// AnalyzeResponse is the body of a successful analysis.
type AnalyzeResponse struct {
	Success bool            `json:"success" example:"true"`
	Result  json.RawMessage `json:"result" swaggertype:"object"`
}

// ListResponse wraps collection endpoints.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Total: len(items)}
}

// WorkflowResponse is an analysis result plus the rows persisted from it.
type WorkflowResponse struct {
	Success     bool                     `json:"success" example:"true"`
	Result      json.RawMessage          `json:"result" swaggertype:"object"`
	Persisted   bool                     `json:"persisted"`
	Insights    []*insight.Insight       `json:"insights,omitempty"`
	Predictions []*prediction.Prediction `json:"predictions,omitempty"`
	Measurement *measurement.Measurement `json:"measurement,omitempty"`
	ImageKey    string                   `json:"image_key,omitempty"`
}

// HealthResponse is returned by /healthz and /readyz.
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
