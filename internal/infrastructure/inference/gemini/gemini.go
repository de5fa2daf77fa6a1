package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/infrastructure/metrics"
	"roottrack-api/internal/infrastructure/observability"
	"roottrack-api/internal/utils/dataurl"
	"roottrack-api/internal/utils/platformerrors"
)

const providerName = "gemini"

// Client calls the Gemini API directly with the same prompts as the gateway.
type Client struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

var _ analysis.Provider = (*Client)(nil)

// NewClient builds a Gemini provider. An empty apiKey yields an unconfigured
// provider so the missing credential surfaces per request.
func NewClient(ctx context.Context, apiKey, model, baseURL string, log zerolog.Logger) (*Client, error) {
	c := &Client{
		model: model,
		log:   log.With().Str("component", "gemini-provider").Logger(),
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return c, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *Client) Name() string { return providerName }

func (c *Client) Configured() bool { return c.client != nil }

func (c *Client) Complete(ctx context.Context, req analysis.ChatRequest) (string, error) {
	ctx, span := observability.StartSpan(ctx, "gemini.generate_content")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", providerName),
		attribute.String("ai.model", c.model),
		attribute.String("analysis.kind", string(req.Kind)),
	)

	parts, err := buildParts(req.User)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation, "imageBase64 is not a valid base64 data URL", err, "0f6d2b8e-9c3a-4e71-a5b4-3d8e1f7c2a90")
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		perr := mapError(ctx, err)
		metrics.RecordUpstream(providerName, strconv.Itoa(apiStatus(err)), time.Since(start).Seconds())
		observability.RecordError(ctx, perr)
		c.log.Error().Err(err).Str("kind", string(req.Kind)).Msg("Gemini request failed")
		return "", perr
	}
	metrics.RecordUpstream(providerName, strconv.Itoa(http.StatusOK), time.Since(start).Seconds())
	return resp.Text(), nil
}

// remoteImageTypes are matched against the extension of a remote image URL.
var remoteImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/heic"}

// remoteImageMIME guesses the type of an image Gemini fetches itself.
// Unknown extensions are sent as JPEG.
func remoteImageMIME(rawURL string) string {
	ext := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		ext = u.Path
	}
	ext = strings.ToLower(path.Ext(ext))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	for _, candidate := range remoteImageTypes {
		if m := mimetype.Lookup(candidate); m != nil && m.Extension() == ext {
			return m.String()
		}
	}
	return "image/jpeg"
}

func buildParts(user []analysis.ContentPart) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(user))
	for _, p := range user {
		if p.Type != analysis.PartImageURL {
			parts = append(parts, genai.NewPartFromText(p.Text))
			continue
		}
		if dataurl.IsRemote(p.ImageURL) {
			parts = append(parts, genai.NewPartFromURI(p.ImageURL, remoteImageMIME(p.ImageURL)))
			continue
		}
		mime, data, err := dataurl.Decode(p.ImageURL)
		if err != nil {
			return nil, err
		}
		if mime == "" {
			mime = mimetype.Detect(data).String()
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}
	return parts, nil
}

func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func mapError(ctx context.Context, err error) error {
	switch status := apiStatus(err); status {
	case http.StatusTooManyRequests:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeRateLimited, analysis.MessageRateLimited, err, "6a4e2c9f-1d7b-4f38-8b05-9e3c1a7d4f62")
	case http.StatusPaymentRequired:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypePaymentRequired, analysis.MessageCredits, err, "3d9b7f1e-5a2c-4c64-a8e7-1f6d0b3c9e25")
	case 0:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, "AI Gateway request failed", err, "7e1c5a3d-2f9b-4d86-b4a0-8c2e6f1d3b57")
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeInternal, fmt.Sprintf("AI Gateway error: %d", status), err, "9b3f6d2a-4e8c-4a19-9d72-5e1b8c4f0a63")
	}
}
