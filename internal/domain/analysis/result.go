package analysis

import (
	"bytes"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Text is a free-form list item. Models sometimes answer with objects where
// a sentence was asked for; those are kept as compact JSON text.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// RootAnalysisResult is the analyze-image payload.
type RootAnalysisResult struct {
	RootLength         *float64 `json:"rootLength,omitempty"`
	RootDepth          *float64 `json:"rootDepth,omitempty"`
	BranchingPattern   string   `json:"branchingPattern,omitempty" jsonschema:"enum=sparse,enum=moderate,enum=dense"`
	BranchingCount     *int     `json:"branchingCount,omitempty"`
	HealthScore        *float64 `json:"healthScore,omitempty" jsonschema:"minimum=0,maximum=100"`
	DensityScore       *float64 `json:"densityScore,omitempty"`
	StressIndicators   []Text   `json:"stressIndicators"`
	NutrientEfficiency any      `json:"nutrientEfficiency,omitempty"`
	Recommendations    []Text   `json:"recommendations"`
	OverallAssessment  string   `json:"overallAssessment,omitempty"`
}

type PredictionPoint struct {
	Days            float64  `json:"days"`
	PredictedLength float64  `json:"predictedLength"`
	Confidence      *float64 `json:"confidence,omitempty"`
}

// GrowthPrediction is the predict-growth payload.
type GrowthPrediction struct {
	Predictions       []PredictionPoint `json:"predictions"`
	OptimalConditions any               `json:"optimalConditions,omitempty"`
	GrowthFactors     any               `json:"growthFactors,omitempty"`
	Recommendations   []Text            `json:"recommendations"`
}

type GeneratedInsight struct {
	Type        string   `json:"type" jsonschema:"enum=irrigation,enum=fertilization,enum=health,enum=stress"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority" jsonschema:"enum=low,enum=medium,enum=high,enum=critical"`
	ActionItems []Text   `json:"actionItems,omitempty"`
}

// InsightsResult is the generate-insights payload.
type InsightsResult struct {
	Insights []GeneratedInsight `json:"insights"`
}

type StressIndicator struct {
	Indicator string `json:"indicator"`
	Severity  string `json:"severity,omitempty"`
	Cause     string `json:"cause,omitempty"`
}

// HealthAssessment is the health-assessment payload.
type HealthAssessment struct {
	HealthScore              *float64          `json:"healthScore,omitempty" jsonschema:"minimum=0,maximum=100"`
	HealthStatus             string            `json:"healthStatus,omitempty" jsonschema:"enum=excellent,enum=good,enum=fair,enum=poor,enum=critical"`
	StressIndicators         []StressIndicator `json:"stressIndicators"`
	NutrientAnalysis         any               `json:"nutrientAnalysis,omitempty"`
	EarlyWarnings            []Text            `json:"earlyWarnings"`
	TreatmentRecommendations []Text            `json:"treatmentRecommendations"`
}

// Schemas returns the JSON schema of each kind's payload.
func Schemas() map[Kind]*jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	return map[Kind]*jsonschema.Schema{
		KindAnalyzeImage:     r.Reflect(&RootAnalysisResult{}),
		KindPredictGrowth:    r.Reflect(&GrowthPrediction{}),
		KindGenerateInsights: r.Reflect(&InsightsResult{}),
		KindHealthAssessment: r.Reflect(&HealthAssessment{}),
	}
}

// Decode unmarshals a non-raw result into dst. Model output is loosely typed,
// so decode errors mean the payload does not fit the documented shape.
func (r *Result) Decode(dst any) error {
	return json.Unmarshal(r.Payload, dst)
}
