package dashboard

import (
	"time"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
)

type Stats struct {
	TotalPlants   int     `json:"totalPlants"`
	AvgGrowthRate float64 `json:"avgGrowthRate"`
	AvgWaterLevel int     `json:"avgWaterLevel"`
	AvgLightLevel int     `json:"avgLightLevel"`
}

// PlantCard is a plant with its display-only derived values.
type PlantCard struct {
	*plant.Plant
	GrowthPercentage float64 `json:"growth_percentage"`
	HealthBand       Band    `json:"health_band"`
}

// Summary is the dashboard payload.
type Summary struct {
	Stats       Stats        `json:"stats"`
	GrowthChart []ChartPoint `json:"growthChart"`
	Plants      []PlantCard  `json:"plants"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// Summarize computes the dashboard from newest-first plants and oldest-first measurements.
func Summarize(plants []*plant.Plant, measurements []*measurement.Measurement, now time.Time) *Summary {
	cards := make([]PlantCard, 0, len(plants))
	for _, p := range plants {
		cards = append(cards, PlantCard{
			Plant:            p,
			GrowthPercentage: GrowthPercentage(p),
			HealthBand:       HealthBand(p.HealthScore),
		})
	}

	return &Summary{
		Stats: Stats{
			TotalPlants:   len(plants),
			AvgGrowthRate: AverageGrowthRate(plants),
			AvgWaterLevel: AverageWaterLevel(plants),
			AvgLightLevel: AverageLightLevel(plants),
		},
		GrowthChart: GrowthChart(measurements),
		Plants:      cards,
		GeneratedAt: now.UTC(),
	}
}
