package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/config"
	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/analysis"
	"roottrack-api/internal/domain/dashboard"
	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/domain/workflow"
	"roottrack-api/internal/infrastructure/database/dbtest"
	"roottrack-api/internal/infrastructure/database/repository/activityrepo"
	"roottrack-api/internal/infrastructure/database/repository/insightrepo"
	"roottrack-api/internal/infrastructure/database/repository/measurementrepo"
	"roottrack-api/internal/infrastructure/database/repository/plantrepo"
	"roottrack-api/internal/infrastructure/database/repository/predictionrepo"
	"roottrack-api/internal/infrastructure/export"
	"roottrack-api/internal/interfaces/httpserver"
	"roottrack-api/internal/interfaces/httpserver/handlers"
	"roottrack-api/internal/utils/platformerrors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubProvider struct {
	configured bool
	content    string
	err        error
}

func (p *stubProvider) Name() string     { return "stub" }
func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) Complete(context.Context, analysis.ChatRequest) (string, error) {
	return p.content, p.err
}

type mapCache struct{ values map[string][]byte }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

type testServer struct {
	handler  http.Handler
	provider *stubProvider
}

func newTestServer(t *testing.T, readiness map[string]httpserver.ReadinessCheck) *testServer {
	t.Helper()
	db := dbtest.NewDatabase(t)
	log := zerolog.Nop()

	prompts, err := analysis.LoadPrompts()
	require.NoError(t, err)
	provider := &stubProvider{configured: true}

	plantRepo := plantrepo.NewPlantGormRepository(db)
	activitySvc := activity.NewService(activityrepo.NewActivityGormRepository(db), nil, log)
	analysisSvc := analysis.NewService(provider, prompts, log)
	plants := plant.NewService(plantRepo, activitySvc, db, log)
	measurements := measurement.NewService(measurementrepo.NewMeasurementGormRepository(db), plantRepo, activitySvc, db, log)
	insights := insight.NewService(insightrepo.NewInsightGormRepository(db), log)
	predictions := prediction.NewService(predictionrepo.NewPredictionGormRepository(db))

	services := handlers.Services{
		Analysis:     analysisSvc,
		Plants:       plants,
		Measurements: measurements,
		Insights:     insights,
		Activity:     activitySvc,
		Predictions:  predictions,
		Dashboard:    dashboard.NewService(plants, measurements, &mapCache{values: map[string][]byte{}}, time.Minute, log),
		Workflows: workflow.NewService(workflow.Deps{
			Analysis:     analysisSvc,
			Plants:       plants,
			Measurements: measurements,
			Insights:     insights,
			Predictions:  predictions,
			Activity:     activitySvc,
			Tx:           db,
		}, log),
	}

	cfg := &config.Config{ServiceName: "roottrack-api", CORSOrigins: []string{"*"}}
	srv := httpserver.New(cfg, log, services, nil, readiness)
	return &testServer{handler: srv.Handler(), provider: provider}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAnalyze_Success(t *testing.T) {
	s := newTestServer(t, nil)
	s.provider.content = `{"healthScore":91,"healthStatus":"excellent"}`

	for _, path := range []string{"/v1/analyze", "/functions/v1/analyze-root"} {
		rec := s.do(t, http.MethodPost, path, map[string]any{"type": "health-assessment", "data": map[string]any{"name": "Tomato"}})
		require.Equal(t, http.StatusOK, rec.Code, path)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, true, body["success"])
		result := body["result"].(map[string]any)
		assert.EqualValues(t, 91, result["healthScore"])
		assert.Equal(t, []any{}, result["stressIndicators"])
	}
}

func TestAnalyze_RawResponse(t *testing.T) {
	s := newTestServer(t, nil)
	s.provider.content = "not json at all"

	rec := s.do(t, http.MethodPost, "/v1/analyze", map[string]any{"type": "predict-growth"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"rawResponse": "not json at all"}, body["result"])
}

func TestAnalyze_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/v1/analyze", map[string]any{"type": "soil-scan"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, analysis.MessageInvalidType, decode[map[string]any](t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/v1/analyze", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.provider.err = platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure, platformerrors.ErrorTypePaymentRequired, analysis.MessageCredits, nil, "test-402")
	rec = s.do(t, http.MethodPost, "/v1/analyze", map[string]any{"type": "generate-insights"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, analysis.MessageCredits, decode[map[string]any](t, rec)["error"])

	s.provider.err = nil
	s.provider.configured = false
	rec = s.do(t, http.MethodPost, "/v1/analyze", map[string]any{"type": "soil-scan"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, analysis.MessageNotConfigured, decode[map[string]any](t, rec)["error"])
}

func TestAnalyze_Schemas(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/v1/analyze/schemas", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Contains(t, body, string(analysis.KindAnalyzeImage))
	assert.Contains(t, body, string(analysis.KindHealthAssessment))
}

func TestPlantLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/v1/plants", map[string]any{"name": "Tomato A", "species": "Solanum lycopersicum"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[plant.Plant](t, rec)
	assert.Equal(t, plant.DefaultHealthScore, created.HealthScore)

	rec = s.do(t, http.MethodPatch, "/v1/plants/"+created.ID, map[string]any{"stage": "seedling"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, plant.StageSeedling, decode[plant.Plant](t, rec).Stage)

	rec = s.do(t, http.MethodPost, "/v1/plants/"+created.ID+"/water", map[string]any{"water_level": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, decode[plant.Plant](t, rec).WaterLevel)

	rec = s.do(t, http.MethodPost, "/v1/measurements", map[string]any{"plant_id": created.ID, "root_length": 2.5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/v1/plants/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 2.5, decode[plant.Plant](t, rec).RootLength, 1e-9)

	rec = s.do(t, http.MethodGet, "/v1/measurements?plant_id="+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["total"])

	rec = s.do(t, http.MethodGet, "/v1/activity?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, feed["total"])

	rec = s.do(t, http.MethodGet, "/v1/plants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["total"])
}

func TestPlantErrors(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/v1/plants/1b6f3c2a-9d4e-4f8a-b7c1-2e5d8a9f0c34", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/plants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/plants", map[string]any{"species": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode[map[string]any](t, rec)["error"])
}

func TestInsightsAndActivity(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/v1/insights", map[string]any{"insight_type": "fertilization", "title": "Add nitrogen", "description": "Leaves are pale."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[insight.Insight](t, rec)
	assert.Equal(t, insight.PriorityMedium, item.Priority)

	rec = s.do(t, http.MethodPatch, "/v1/insights/"+item.ID+"/read", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[insight.Insight](t, rec).IsRead)

	rec = s.do(t, http.MethodPost, "/v1/activity", map[string]any{"activity_type": "note", "description": "Moved tray"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/activity", map[string]any{"activity_type": "party", "description": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard_CachedUntilWrite(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	summary := decode[dashboard.Summary](t, rec)
	assert.Zero(t, summary.Stats.TotalPlants)
	assert.Len(t, summary.GrowthChart, len(dashboard.FallbackChart))

	rec = s.do(t, http.MethodGet, "/v1/dashboard", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = s.do(t, http.MethodPost, "/v1/plants", map[string]any{"name": "Bean", "species": "Phaseolus vulgaris", "root_length": 7})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/dashboard", nil)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	summary = decode[dashboard.Summary](t, rec)
	assert.Equal(t, 1, summary.Stats.TotalPlants)
	assert.InDelta(t, 1.0, summary.Stats.AvgGrowthRate, 1e-9)
}

func TestWorkflowRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/v1/plants", map[string]any{"name": "Carrot", "species": "Daucus carota"})
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[plant.Plant](t, rec)

	s.provider.content = `{"predictions":[{"days":7,"predictedLength":3,"confidence":0.8}]}`
	rec = s.do(t, http.MethodPost, "/v1/plants/"+p.ID+"/predictions", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["persisted"])
	assert.Len(t, body["predictions"], 1)

	rec = s.do(t, http.MethodGet, "/v1/plants/"+p.ID+"/predictions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["total"])

	s.provider.content = "cannot help"
	rec = s.do(t, http.MethodPost, "/v1/plants/"+p.ID+"/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["persisted"])

	s.provider.content = `{"rootLength":4.2}`
	rec = s.do(t, http.MethodPost, "/v1/analysis/image", map[string]any{"plant_id": p.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, decode[map[string]any](t, rec)["measurement"])
}

func TestExportMeasurements(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/v1/exports/measurements.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t, map[string]httpserver.ReadinessCheck{
		"database": func(context.Context) error { return nil },
	})
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/readyz", nil).Code)

	failing := newTestServer(t, map[string]httpserver.ReadinessCheck{
		"storage": func(context.Context) error { return errors.New("bucket missing") },
	})
	rec := failing.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "bucket missing")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
