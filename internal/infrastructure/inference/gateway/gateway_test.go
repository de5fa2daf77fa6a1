package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/infrastructure/httpclient"
	"roottrack-api/internal/utils/platformerrors"
)

type capturedRequest struct {
	path          string
	authorization string
	body          map[string]any
	hits          atomic.Int32
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	return newTestServerWithContentType(t, status, "application/json", response)
}

func newTestServerWithContentType(t *testing.T, status int, contentType, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.hits.Add(1)
		captured.path = r.URL.Path
		captured.authorization = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(baseURL string) *Client {
	return NewClient(httpclient.NewClient("gateway-test", 5*time.Second), baseURL, "test-key", "google/gemini-2.5-flash", zerolog.Nop())
}

func imageRequest() analysis.ChatRequest {
	return analysis.ChatRequest{
		Kind:   analysis.KindAnalyzeImage,
		System: "system prompt",
		User: []analysis.ContentPart{
			{Type: analysis.PartText, Text: "Analyze this root image and provide detailed metrics:"},
			{Type: analysis.PartImageURL, ImageURL: "data:image/png;base64,AAAA"},
		},
	}
}

func TestComplete_RequestShape(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"{\"rootLength\":5}"}}]}`)
	client := newTestClient(srv.URL + "/v1/")

	content, err := client.Complete(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"rootLength":5}`, content)

	assert.Equal(t, "/v1/chat/completions", captured.path)
	assert.Equal(t, "Bearer test-key", captured.authorization)
	assert.Equal(t, "google/gemini-2.5-flash", captured.body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured.body["response_format"])

	messages, ok := captured.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)

	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "system prompt", system["content"])

	user := messages[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	parts, ok := user["content"].([]any)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].(map[string]any)["type"])
	image := parts[1].(map[string]any)
	assert.Equal(t, "image_url", image["type"])
	assert.Equal(t, "data:image/png;base64,AAAA", image["image_url"].(map[string]any)["url"])
}

func TestComplete_NoChoices(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"choices":[]}`)

	content, err := newTestClient(srv.URL).Complete(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestComplete_StatusMapping(t *testing.T) {
	cases := []struct {
		status  int
		errType platformerrors.ErrorType
		message string
	}{
		{http.StatusTooManyRequests, platformerrors.ErrorTypeRateLimited, analysis.MessageRateLimited},
		{http.StatusPaymentRequired, platformerrors.ErrorTypePaymentRequired, analysis.MessageCredits},
		{http.StatusInternalServerError, platformerrors.ErrorTypeInternal, "AI Gateway error: 500"},
		{http.StatusBadRequest, platformerrors.ErrorTypeInternal, "AI Gateway error: 400"},
		{http.StatusNotModified, platformerrors.ErrorTypeInternal, "AI Gateway error: 304"},
		{http.StatusMultipleChoices, platformerrors.ErrorTypeInternal, "AI Gateway error: 300"},
	}
	for _, tc := range cases {
		srv, captured := newTestServer(t, tc.status, `{"error":"upstream"}`)

		content, err := newTestClient(srv.URL).Complete(context.Background(), imageRequest())
		require.Error(t, err, "status %d", tc.status)
		assert.Empty(t, content)

		var perr *platformerrors.PlatformError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, tc.errType, perr.GetErrorType(), "status %d", tc.status)
		assert.Equal(t, tc.message, perr.Message, "status %d", tc.status)
		assert.Equal(t, int32(1), captured.hits.Load(), "status %d is not retried", tc.status)
	}
}

func TestComplete_DecodesBodyRegardlessOfContentType(t *testing.T) {
	body := `{"choices":[{"message":{"content":"{\"rootLength\":5}"}}]}`
	for _, contentType := range []string{"text/plain", ""} {
		srv, _ := newTestServerWithContentType(t, http.StatusOK, contentType, body)

		content, err := newTestClient(srv.URL).Complete(context.Background(), imageRequest())
		require.NoError(t, err, "content type %q", contentType)
		assert.Equal(t, `{"rootLength":5}`, content, "content type %q", contentType)
	}
}

func TestComplete_UndecodableBody(t *testing.T) {
	srv, _ := newTestServerWithContentType(t, http.StatusOK, "text/html", "<html>maintenance</html>")

	_, err := newTestClient(srv.URL).Complete(context.Background(), imageRequest())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal))
}

func TestComplete_TransportError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Complete(context.Background(), imageRequest())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal))
}

func TestConfigured(t *testing.T) {
	assert.True(t, newTestClient("http://example.test").Configured())
	unconfigured := NewClient(httpclient.NewClient("gateway-test", 0), "http://example.test", "  ", "m", zerolog.Nop())
	assert.False(t, unconfigured.Configured())
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://ai.gateway.lovable.dev/v1", normalizeBaseURL("https://ai.gateway.lovable.dev/v1/"))
	assert.Equal(t, "https://ai.gateway.lovable.dev/v1", normalizeBaseURL(" https://ai.gateway.lovable.dev/v1/chat/completions "))
}
