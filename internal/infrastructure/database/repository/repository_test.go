package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roottrack-api/internal/domain/activity"
	"roottrack-api/internal/domain/insight"
	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
	"roottrack-api/internal/domain/prediction"
	"roottrack-api/internal/infrastructure/database/dbtest"
	"roottrack-api/internal/infrastructure/database/repository/activityrepo"
	"roottrack-api/internal/infrastructure/database/repository/insightrepo"
	"roottrack-api/internal/infrastructure/database/repository/measurementrepo"
	"roottrack-api/internal/infrastructure/database/repository/plantrepo"
	"roottrack-api/internal/infrastructure/database/repository/predictionrepo"
	"roottrack-api/internal/utils/platformerrors"
)

func newPlant(name string) *plant.Plant {
	return plant.NewPlant(plant.CreateInput{Name: name, Species: "Solanum lycopersicum"})
}

func TestPlantRepository(t *testing.T) {
	ctx := context.Background()
	repo := plantrepo.NewPlantGormRepository(dbtest.NewDatabase(t))

	first := newPlant("Tomato A")
	require.NoError(t, repo.Create(ctx, first))
	require.NotEmpty(t, first.ID)
	second := newPlant("Tomato B")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, repo.Create(ctx, second))

	plants, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, plants, 2)
	assert.Equal(t, "Tomato B", plants[0].Name, "newest first")

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, plant.DefaultMaxRootLength, got.MaxRootLength)
	assert.Equal(t, plant.DefaultSoilType, got.SoilType)

	got.WaterLevel = 0
	got.RootLength = 3.2
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.WaterLevel, "zero values are written")
	assert.InDelta(t, 3.2, reloaded.RootLength, 1e-9)
}

func TestPlantRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := plantrepo.NewPlantGormRepository(dbtest.NewDatabase(t))

	_, err := repo.GetByID(ctx, "9b2f3c1e-0000-4000-8000-000000000000")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	missing := newPlant("ghost")
	missing.ID = "9b2f3c1e-0000-4000-8000-000000000000"
	err = repo.Update(ctx, missing)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestMeasurementRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDatabase(t)
	plants := plantrepo.NewPlantGormRepository(db)
	repo := measurementrepo.NewMeasurementGormRepository(db)

	a, b := newPlant("A"), newPlant("B")
	require.NoError(t, plants.Create(ctx, a))
	require.NoError(t, plants.Create(ctx, b))

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	depth := 2.5
	require.NoError(t, repo.Create(ctx, &measurement.Measurement{PlantID: a.ID, RootLength: 4, MeasuredAt: base.Add(48 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &measurement.Measurement{
		PlantID: a.ID, RootLength: 2, RootDepth: &depth, MeasuredAt: base,
		AIAnalysis: json.RawMessage(`{"rootLength":2}`),
	}))
	require.NoError(t, repo.Create(ctx, &measurement.Measurement{PlantID: b.ID, RootLength: 9, MeasuredAt: base.Add(24 * time.Hour)}))

	all, err := repo.List(ctx, measurement.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []float64{2, 9, 4}, []float64{all[0].RootLength, all[1].RootLength, all[2].RootLength})

	onlyA, err := repo.List(ctx, measurement.Filter{PlantID: &a.ID})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.InDelta(t, 2.5, *onlyA[0].RootDepth, 1e-9)
	assert.JSONEq(t, `{"rootLength":2}`, string(onlyA[0].AIAnalysis))
	assert.Nil(t, onlyA[1].AIAnalysis)
}

func TestInsightRepository(t *testing.T) {
	ctx := context.Background()
	repo := insightrepo.NewInsightGormRepository(dbtest.NewDatabase(t))

	in := &insight.Insight{InsightType: insight.TypeIrrigation, Title: "Water", Description: "Soil is dry", Priority: insight.PriorityHigh}
	require.NoError(t, repo.Create(ctx, in))
	require.NotEmpty(t, in.ID)

	read, err := repo.MarkRead(ctx, in.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	again, err := repo.MarkRead(ctx, in.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
	assert.Nil(t, list[0].PlantID)

	_, err = repo.MarkRead(ctx, "9b2f3c1e-0000-4000-8000-000000000000")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestActivityRepository(t *testing.T) {
	ctx := context.Background()
	repo := activityrepo.NewActivityGormRepository(dbtest.NewDatabase(t))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &activity.Entry{
			ActivityType: activity.TypeNote,
			Description:  "note",
			Metadata:     map[string]any{"n": i},
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.EqualValues(t, 4, recent[0].Metadata["n"])
	assert.EqualValues(t, 2, recent[2].Metadata["n"])
}

func TestPredictionRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDatabase(t)
	plants := plantrepo.NewPlantGormRepository(db)
	repo := predictionrepo.NewPredictionGormRepository(db)

	p := newPlant("A")
	require.NoError(t, plants.Create(ctx, p))

	now := time.Now().UTC()
	confidence := 0.8
	require.NoError(t, repo.Create(ctx, &prediction.Prediction{PlantID: p.ID, PredictedDate: now.Add(14 * 24 * time.Hour), PredictedLength: 20}))
	require.NoError(t, repo.Create(ctx, &prediction.Prediction{
		PlantID: p.ID, PredictedDate: now.Add(7 * 24 * time.Hour), PredictedLength: 15,
		Confidence: &confidence, Conditions: map[string]any{"moisture": "60%"},
	}))

	items, err := repo.ListByPlant(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.InDelta(t, 15, items[0].PredictedLength, 1e-9)
	assert.InDelta(t, 0.8, *items[0].Confidence, 1e-9)
	assert.Equal(t, "60%", items[0].Conditions["moisture"])
	assert.Nil(t, items[1].Confidence)
}

func TestWithinTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewDatabase(t)
	plants := plantrepo.NewPlantGormRepository(db)

	boom := errors.New("boom")
	err := db.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, plants.Create(txCtx, newPlant("rolled back")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := plants.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
