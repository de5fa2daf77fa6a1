package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/utils/platformerrors"
)

const cacheKey = "roottrack:dashboard:summary"

// Cache stores serialized summaries. A miss returns ok=false and no error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	plants       *plant.Service
	measurements *measurement.Service
	cache        Cache
	ttl          time.Duration
	log          zerolog.Logger
	now          func() time.Time
}

func NewService(plants *plant.Service, measurements *measurement.Service, cache Cache, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		plants:       plants,
		measurements: measurements,
		cache:        cache,
		ttl:          ttl,
		log:          log.With().Str("component", "dashboard-service").Logger(),
		now:          time.Now,
	}
}

// Summary returns the cached dashboard when fresh, otherwise recomputes it.
// Cache failures are logged and never fail the request.
func (s *Service) Summary(ctx context.Context) (*Summary, bool, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, true, nil
	}

	plants, err := s.plants.List(ctx)
	if err != nil {
		return nil, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load plants")
	}
	measurements, err := s.measurements.List(ctx, "")
	if err != nil {
		return nil, false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load measurements")
	}

	summary := Summarize(plants, measurements, s.now())
	s.store(ctx, summary)
	return summary, false, nil
}

// Invalidate drops the cached summary.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.log.Warn().Err(err).Msg("invalidate dashboard cache")
	}
}

func (s *Service) fromCache(ctx context.Context) (*Summary, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read dashboard cache")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.log.Warn().Err(err).Msg("decode cached dashboard")
		return nil, false
	}
	return &summary, true
}

func (s *Service) store(ctx context.Context, summary *Summary) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("write dashboard cache")
	}
}
