package analysis

type Kind string

const (
	KindAnalyzeImage     Kind = "analyze-image"
	KindPredictGrowth    Kind = "predict-growth"
	KindGenerateInsights Kind = "generate-insights"
	KindHealthAssessment Kind = "health-assessment"
)

// Kinds lists every supported analysis kind.
var Kinds = []Kind{KindAnalyzeImage, KindPredictGrowth, KindGenerateInsights, KindHealthAssessment}

func (k Kind) Valid() bool {
	switch k {
	case KindAnalyzeImage, KindPredictGrowth, KindGenerateInsights, KindHealthAssessment:
		return true
	}
	return false
}
