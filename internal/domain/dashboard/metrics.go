package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"roottrack-api/internal/domain/measurement"
	"roottrack-api/internal/domain/plant"
)

// ChartWindow is the number of most recent measurements plotted.
const ChartWindow = 7

// expectedGrowthFactor projects each measured point 5% ahead.
var expectedGrowthFactor = decimal.RequireFromString("1.05")

// ChartPoint is one point of the growth chart.
type ChartPoint struct {
	Day        string  `json:"day"`
	RootLength float64 `json:"rootLength"`
	Expected   float64 `json:"expected"`
}

// FallbackChart is plotted when no measurement exists yet.
var FallbackChart = []ChartPoint{
	{Day: "Day 1", RootLength: 0.5, Expected: 0.5},
	{Day: "Day 7", RootLength: 2.1, Expected: 2.0},
	{Day: "Day 14", RootLength: 4.8, Expected: 5.0},
	{Day: "Day 21", RootLength: 8.2, Expected: 8.5},
	{Day: "Day 28", RootLength: 12.5, Expected: 12.0},
}

// AverageGrowthRate is the mean root length spread over a week, in cm/day,
// rounded to one decimal.
func AverageGrowthRate(plants []*plant.Plant) float64 {
	if len(plants) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, p := range plants {
		sum = sum.Add(decimal.NewFromFloat(p.RootLength))
	}
	rate := sum.Div(decimal.NewFromInt(int64(len(plants)))).Div(decimal.NewFromInt(7))
	return rate.Round(1).InexactFloat64()
}

// AverageWaterLevel is the mean water level rounded half away from zero.
func AverageWaterLevel(plants []*plant.Plant) int {
	return roundedMean(plants, func(p *plant.Plant) int { return p.WaterLevel })
}

// AverageLightLevel is the mean light level rounded half away from zero.
func AverageLightLevel(plants []*plant.Plant) int {
	return roundedMean(plants, func(p *plant.Plant) int { return p.LightLevel })
}

func roundedMean(plants []*plant.Plant, value func(*plant.Plant) int) int {
	if len(plants) == 0 {
		return 0
	}
	var sum int64
	for _, p := range plants {
		sum += int64(value(p))
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(plants))))
	return int(mean.Round(0).IntPart())
}

// GrowthChart plots the last ChartWindow measurements of an oldest-first
// list, or all of them when fewer exist. An empty list yields FallbackChart.
func GrowthChart(measurements []*measurement.Measurement) []ChartPoint {
	if len(measurements) == 0 {
		out := make([]ChartPoint, len(FallbackChart))
		copy(out, FallbackChart)
		return out
	}

	window := measurements
	if len(window) > ChartWindow {
		window = window[len(window)-ChartWindow:]
	}
	points := make([]ChartPoint, 0, len(window))
	for i, m := range window {
		length := decimal.NewFromFloat(m.RootLength)
		points = append(points, ChartPoint{
			Day:        fmt.Sprintf("Day %d", i+1),
			RootLength: m.RootLength,
			Expected:   length.Mul(expectedGrowthFactor).InexactFloat64(),
		})
	}
	return points
}

// GrowthPercentage is how far the root has grown towards its maximum.
func GrowthPercentage(p *plant.Plant) float64 {
	if p == nil || p.MaxRootLength <= 0 {
		return 0
	}
	return decimal.NewFromFloat(p.RootLength).
		Div(decimal.NewFromFloat(p.MaxRootLength)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}

type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

func HealthBand(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 50:
		return BandFair
	default:
		return BandPoor
	}
}
