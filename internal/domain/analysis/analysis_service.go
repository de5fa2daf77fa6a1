package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"roottrack-api/internal/utils/platformerrors"
)

const (
	MessageNotConfigured = "AI provider API key is not configured"
	MessageInvalidType   = "Invalid analysis type"
	MessageRateLimited   = "Rate limit exceeded. Please try again later."
	MessageCredits       = "AI credits exhausted. Please add credits to continue."
)

// Request is the proxy input. Data is any plant-shaped JSON.
type Request struct {
	Type        string          `json:"type"`
	Data        json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	ImageBase64 string          `json:"imageBase64,omitempty"`
}

// Service proxies analysis requests to the configured model provider.
type Service struct {
	provider Provider
	prompts  Prompts
	log      zerolog.Logger
}

func NewService(provider Provider, prompts Prompts, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		prompts:  prompts,
		log:      log.With().Str("component", "analysis-service").Logger(),
	}
}

// Analyze forwards one request upstream and parses the answer. The credential
// is checked before the kind, matching the order callers rely on.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if !s.provider.Configured() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConfiguration, MessageNotConfigured, nil, "a5d1e8c3-7f2b-4e96-b0a4-9c3e6f1d2b78")
	}

	kind := Kind(req.Type)
	prompt, ok := s.prompts[kind]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, MessageInvalidType, nil, "f2c9b7e1-4d3a-4b85-9e60-1a7d5c3f8e94")
	}

	chat := ChatRequest{
		Kind:   kind,
		System: prompt.System,
		User:   s.userContent(kind, prompt, req),
	}

	content, err := s.provider.Complete(ctx, chat)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "AI provider request failed")
	}

	result := ParseContent(kind, content, prompt.ArrayKeys)
	if result.Raw {
		s.log.Warn().Str("kind", string(kind)).Int("content_length", len(content)).Msg("model content is not JSON, returning raw response")
	}
	return &result, nil
}

func (s *Service) userContent(kind Kind, prompt Prompt, req Request) []ContentPart {
	if kind == KindAnalyzeImage {
		if req.ImageBase64 != "" {
			return []ContentPart{
				{Type: PartText, Text: prompt.LeadIn},
				{Type: PartImageURL, ImageURL: req.ImageBase64},
			}
		}
		return []ContentPart{{Type: PartText, Text: prompt.Demo}}
	}
	return []ContentPart{{Type: PartText, Text: prompt.LeadIn + " " + compactJSON(req.Data)}}
}

// compactJSON renders data the way a JSON encoder would serialize it; absent data is null.
func compactJSON(data json.RawMessage) string {
	if len(bytes.TrimSpace(data)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return strings.TrimSpace(string(data))
	}
	return buf.String()
}
