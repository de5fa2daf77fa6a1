package measurement_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/infrastructure/database/dbtest"
	"roottrack-api/internal/infrastructure/database/repository/activityrepo"
	"roottrack-api/internal/infrastructure/database/repository/measurementrepo"
	"roottrack-api/internal/infrastructure/database/repository/plantrepo"
	"roottrack-api/internal/utils/platformerrors"
)

type fixture struct {
	svc      *measurement.Service
	plants   plant.Repository
	activity *activity.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.NewDatabase(t)
	plants := plantrepo.NewPlantGormRepository(db)
	activitySvc := activity.NewService(activityrepo.NewActivityGormRepository(db), nil, zerolog.Nop())
	return fixture{
		svc:      measurement.NewService(measurementrepo.NewMeasurementGormRepository(db), plants, activitySvc, db, zerolog.Nop()),
		plants:   plants,
		activity: activitySvc,
	}
}

func (f fixture) seedPlant(t *testing.T, rootLength float64) *plant.Plant {
	t.Helper()
	p := plant.NewPlant(plant.CreateInput{Name: "Tomato", Species: "Solanum lycopersicum", RootLength: &rootLength})
	require.NoError(t, f.plants.Create(context.Background(), p))
	return p
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Root length: 5.5 cm (+1.5 cm)", measurement.Describe(5.5, 1.5))
	assert.Equal(t, "Root length: 4 cm (-0.5 cm)", measurement.Describe(4, -0.5))
	assert.Equal(t, "Root length: 3 cm (+0.0 cm)", measurement.Describe(3, 0))
}

func TestRecord_UpdatesPlantAndLogsActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedPlant(t, 4)

	depth := 3.0
	m, err := f.svc.Record(ctx, measurement.RecordInput{
		PlantID:    p.ID,
		RootLength: 5.5,
		RootDepth:  &depth,
		AIAnalysis: json.RawMessage(`{"healthScore":80}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.MeasuredAt.IsZero())

	reloaded, err := f.plants.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, reloaded.RootLength, 1e-9)

	entries, err := f.activity.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.TypeMeasurement, entries[0].ActivityType)
	assert.Equal(t, "Root length: 5.5 cm (+1.5 cm)", entries[0].Description)

	items, err := f.svc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.JSONEq(t, `{"healthScore":80}`, string(items[0].AIAnalysis))
}

func TestRecord_KeepsExplicitMeasuredAt(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlant(t, 1)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m, err := f.svc.Record(context.Background(), measurement.RecordInput{PlantID: p.ID, RootLength: 2, MeasuredAt: &at})
	require.NoError(t, err)
	assert.True(t, at.Equal(m.MeasuredAt))
}

func TestRecord_UnknownPlant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, measurement.RecordInput{PlantID: uuid.NewString(), RootLength: 2})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	items, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecord_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlant(t, 1)

	_, err := f.svc.Record(context.Background(), measurement.RecordInput{PlantID: p.ID, RootLength: -1})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.Record(context.Background(), measurement.RecordInput{PlantID: "plant-1", RootLength: 1})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestList_InvalidPlantFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), "abc")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}
