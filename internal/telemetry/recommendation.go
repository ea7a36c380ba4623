package telemetry

type RecommendationType string

const (
	RecommendGear        RecommendationType = "gear"
	RecommendTemperature RecommendationType = "temperature"
	RecommendRPM         RecommendationType = "rpm"
	RecommendPower       RecommendationType = "power"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Recommendation is one finding of an analysis cycle. EfficiencyDelta is
// the (non-positive) score change attributed to it.
type Recommendation struct {
	Type            RecommendationType `json:"type"`
	Severity        Severity           `json:"severity"`
	Message         string             `json:"message"`
	EfficiencyDelta int                `json:"efficiency"`
}
