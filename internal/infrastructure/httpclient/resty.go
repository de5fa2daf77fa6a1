package httpclient

import (
	"context"
	"time"

	"roottrack-api/internal/infrastructure/logger"

	"resty.dev/v3"
)

type startsAtKey struct{}

// NewClient returns a resty client that logs every call at debug level.
// Bodies are not logged; analysis requests carry base64 images.
func NewClient(clientName string, timeout time.Duration) *resty.Client {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startsAtKey{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		startTime, _ := r.Request.Context().Value(startsAtKey{}).(time.Time)

		event := log.Debug().
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime))
		if raw := r.Request.RawRequest; raw != nil {
			event = event.Str("method", raw.Method).Str("path", raw.URL.Path)
		}
		event.Msg("HTTP client request")
		return nil
	})
	return client
}
