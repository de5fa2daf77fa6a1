package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"resty.dev/v3"

	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/infrastructure/metrics"
	"roottrack-api/internal/infrastructure/observability"
	"roottrack-api/internal/utils/platformerrors"
)

const providerName = "gateway"

// Client talks to an OpenAI-compatible chat-completions gateway.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	model   string
	log     zerolog.Logger
}

var _ analysis.Provider = (*Client)(nil)

func NewClient(client *resty.Client, baseURL, apiKey, model string, log zerolog.Logger) *Client {
	return &Client{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		log:     log.With().Str("component", "gateway-provider").Logger(),
	}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Configured() bool { return c.apiKey != "" }

// Complete sends one chat completion and returns choices[0].message.content.
// There is no retry.
func (c *Client) Complete(ctx context.Context, req analysis.ChatRequest) (string, error) {
	ctx, span := observability.StartSpan(ctx, "gateway.chat_completion")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", providerName),
		attribute.String("ai.model", c.model),
		attribute.String("analysis.kind", string(req.Kind)),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.apiKey)).
		SetBody(c.buildRequest(req)).
		Post(c.baseURL + "/chat/completions")
	status := statusCode(resp)
	metrics.RecordUpstream(providerName, strconv.Itoa(status), time.Since(start).Seconds())

	if err != nil {
		observability.RecordError(ctx, err)
		c.log.Error().Err(err).Str("kind", string(req.Kind)).Msg("AI gateway request failed")
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "AI Gateway request failed", err, "d7a3f9e2-1b5c-4e68-a2d0-6f8c4b1e9a35")
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if !resp.IsSuccess() {
		perr := errorFromStatus(ctx, status)
		c.log.Error().
			Int("status", status).
			Str("kind", string(req.Kind)).
			Str("body", truncate(resp.String(), 512)).
			Msg("AI gateway error")
		observability.RecordError(ctx, perr)
		return "", perr
	}

	// The body is decoded whatever Content-Type the gateway sends.
	var respBody openai.ChatCompletionResponse
	if err := json.Unmarshal(resp.Bytes(), &respBody); err != nil {
		c.log.Error().
			Err(err).
			Str("kind", string(req.Kind)).
			Str("body", truncate(resp.String(), 512)).
			Msg("AI gateway returned an undecodable body")
		observability.RecordError(ctx, err)
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "AI Gateway returned an invalid response", err, "a4c8e1f6-3d7b-4e92-8b15-9f2d6a0c7e31")
	}

	if len(respBody.Choices) == 0 {
		return "", nil
	}
	return respBody.Choices[0].Message.Content, nil
}

func (c *Client) buildRequest(req analysis.ChatRequest) openai.ChatCompletionRequest {
	parts := make([]openai.ChatMessagePart, 0, len(req.User))
	for _, part := range req.User {
		switch part.Type {
		case analysis.PartImageURL:
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: part.ImageURL},
			})
		default:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		}
	}

	return openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
}

// errorFromStatus maps a non-2xx gateway status onto the proxy's error contract.
func errorFromStatus(ctx context.Context, status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeRateLimited, analysis.MessageRateLimited, nil, "8e2b6d4f-3a1c-4f97-b5e0-2d9c7a3f1e86")
	case http.StatusPaymentRequired:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypePaymentRequired, analysis.MessageCredits, nil, "1c7f4a9e-6d2b-4b38-9e51-7a0d3c8f2b64")
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, fmt.Sprintf("AI Gateway error: %d", status), nil, "5b9e1d3a-8f4c-4a27-b6e3-0c1f7d5a9e42")
	}
}

func normalizeBaseURL(base string) string {
	trimmed := strings.TrimSpace(base)
	trimmed = strings.TrimRight(trimmed, "/")
	return strings.TrimSuffix(trimmed, "/chat/completions")
}

func statusCode(resp *resty.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
