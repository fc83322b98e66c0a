package narrative

// Config carries the model settings and prompt limits.
type Config struct {
	Model           string
	Temperature     float32
	SystemPrompt    string
	MaxPromptTokens int
	SearchRadiusM   int
	GridCellLevel   int
}

// Place is a named map feature near a coordinate.
type Place struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Attention levels returned by AnalyzeDay.
const (
	AttentionLow    = "LOW"
	AttentionMedium = "MEDIUM"
	AttentionHigh   = "HIGH"
)

// DayAnalysis is the narrative read of one day's movement.
type DayAnalysis struct {
	Summary        string   `json:"summary"`
	AttentionLevel string   `json:"attentionLevel"`
	KeyInsights    []string `json:"keyInsights"`
}

const (
	clusterEmpty  = "No intelligence available."
	aoiEmpty      = "Analysis unavailable."
	locationEmpty = "Site analysis unavailable."
	fallbackEmpty = "Fallback analysis unavailable."
	failedText    = "Analysis failed completely."
)

func unavailableDay() DayAnalysis {
	return DayAnalysis{
		Summary:        "Analysis unavailable due to connection error.",
		AttentionLevel: AttentionLow,
		KeyInsights:    []string{"Data unavailable"},
	}
}
