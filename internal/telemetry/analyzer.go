package telemetry

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/san-kum/cartwin/internal/vehicle"
)

type Mode string

const (
	ModeEfficiency Mode = "EFFICIENCY"
	ModePower      Mode = "POWER"
)

// DefaultAnalysisInterval is the minimum spacing between full evaluations.
const DefaultAnalysisInterval = time.Second

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

var (
	efficiencyRPMRange  = Range{Min: 2000, Max: 6000}
	efficiencyTempRange = Range{Min: 85, Max: 95}
	powerRPMRange       = Range{Min: 3500, Max: 7000}
	powerTempRange      = Range{Min: 90, Max: 98}
)

// PerformanceMetrics is the analyzer's long-lived state.
type PerformanceMetrics struct {
	OptimalHorsepower    Range            `json:"optimalHpRange"`
	OptimalTemperature   Range            `json:"optimalTempRange"`
	OptimalRPM           Range            `json:"optimalRpmRange"`
	FuelEfficiencyTarget float64          `json:"fuelEfficiencyTarget"`
	LastAnalysis         time.Time        `json:"lastAnalysis"`
	AnalysisInterval     time.Duration    `json:"analysisInterval"`
	Recommendations      []Recommendation `json:"recommendations"`
	Efficiency           int              `json:"currentEfficiency"`
	PeakPowerMode        bool             `json:"peakPowerMode"`
}

func defaultMetrics(m *vehicle.Model) PerformanceMetrics {
	return PerformanceMetrics{
		OptimalHorsepower:    Range{Min: 0, Max: m.Engine.MaxHorsepower},
		OptimalTemperature:   efficiencyTempRange,
		OptimalRPM:           efficiencyRPMRange,
		FuelEfficiencyTarget: 15,
		AnalysisInterval:     DefaultAnalysisInterval,
		Recommendations:      []Recommendation{},
		Efficiency:           100,
	}
}

// Sample is one reading fed to the analyzer.
type Sample struct {
	Speed       float64
	RPM         float64
	Temperature float64
	Gear        vehicle.Gear
	Accelerator float64
}

// LiveMetrics are recomputed on every call, debounced or not.
type LiveMetrics struct {
	Temperature    float64 `json:"temperature"`
	RPM            float64 `json:"rpm"`
	Horsepower     float64 `json:"horsepower"`
	GearEfficiency float64 `json:"gearEfficiency"`
}

type Report struct {
	Efficiency      int              `json:"efficiency"`
	Recommendations []Recommendation `json:"recommendations"`
	Mode            Mode             `json:"currentMode"`
	Metrics         LiveMetrics      `json:"metrics"`
	// Evaluated is true when this call ran a full evaluation.
	Evaluated bool `json:"-"`
}

// Analyzer is not safe for concurrent use.
type Analyzer struct {
	model   *vehicle.Model
	metrics PerformanceMetrics
	history *History
}

func New(model *vehicle.Model) *Analyzer {
	return &Analyzer{
		model:   model,
		metrics: defaultMetrics(model),
		history: NewHistory(DefaultHistorySize),
	}
}

// SetInterval changes the debounce interval; non-positive values are ignored.
func (a *Analyzer) SetInterval(d time.Duration) {
	if d > 0 {
		a.metrics.AnalysisInterval = d
	}
}

// Analyze records s into history and, when at least one interval has passed
// since the last evaluation (or none has happened yet), recomputes the
// efficiency score and recommendations.
func (a *Analyzer) Analyze(now time.Time, s Sample) Report {
	var elapsed time.Duration
	if !a.metrics.LastAnalysis.IsZero() {
		elapsed = now.Sub(a.metrics.LastAnalysis)
	}

	throttle := clampPercent(s.Accelerator) / 100
	hp := a.model.Horsepower(s.RPM, throttle)
	gearEff := a.model.GearEfficiency(s.Gear, s.Speed)

	fuel := a.model.FuelConsumption(s.Speed, s.RPM, s.Gear, math.Max(0, elapsed.Seconds()))
	a.history.Append(s.RPM, s.Temperature, hp, fuel)

	live := LiveMetrics{
		Temperature:    s.Temperature,
		RPM:            s.RPM,
		Horsepower:     hp,
		GearEfficiency: gearEff,
	}

	if !a.metrics.LastAnalysis.IsZero() && elapsed < a.metrics.AnalysisInterval {
		return a.report(live, false)
	}

	a.metrics.LastAnalysis = now
	a.evaluate(s, hp, gearEff)
	return a.report(live, true)
}

func (a *Analyzer) evaluate(s Sample, hp, gearEff float64) {
	pm := &a.metrics
	recs := make([]Recommendation, 0, 4)

	gearScore := int(math.Round(gearEff * 100))
	score := gearScore

	if gearEff < 0.6 {
		recs = append(recs, Recommendation{
			Type:            RecommendGear,
			Severity:        SeverityMedium,
			Message:         fmt.Sprintf("Current gear efficiency: %d%%. Consider optimizing gear selection.", gearScore),
			EfficiencyDelta: -(100 - gearScore),
		})
	}

	switch {
	case s.Temperature > pm.OptimalTemperature.Max:
		over := s.Temperature - pm.OptimalTemperature.Max
		penalty := capPenalty(over*1.5, 25)
		recs = append(recs, Recommendation{
			Type:            RecommendTemperature,
			Severity:        SeverityHigh,
			Message:         fmt.Sprintf("Engine temperature %.0f°C above optimal range. Reduce load or check cooling system.", s.Temperature),
			EfficiencyDelta: -penalty,
		})
		score = floorZero(score - penalty)
	case s.Temperature < pm.OptimalTemperature.Min:
		under := pm.OptimalTemperature.Min - s.Temperature
		penalty := capPenalty(under, 15)
		recs = append(recs, Recommendation{
			Type:            RecommendTemperature,
			Severity:        SeverityMedium,
			Message:         "Engine below optimal temperature. Performance limited until warm.",
			EfficiencyDelta: -penalty,
		})
		score = floorZero(score - penalty)
	}

	switch {
	case s.RPM > pm.OptimalRPM.Max:
		overRev := (s.RPM - pm.OptimalRPM.Max) / 1000
		penalty := capPenalty(overRev*10, 20)
		recs = append(recs, Recommendation{
			Type:            RecommendRPM,
			Severity:        SeverityMedium,
			Message:         fmt.Sprintf("High RPM detected (%.0f). Consider shifting to %s for better efficiency.", s.RPM, OptimalGear(s.Speed)),
			EfficiencyDelta: -penalty,
		})
		score = floorZero(score - penalty)
	case s.RPM < pm.OptimalRPM.Min && s.Speed > 20:
		underRev := (pm.OptimalRPM.Min - s.RPM) / 1000
		penalty := capPenalty(underRev*8, 15)
		recs = append(recs, Recommendation{
			Type:            RecommendRPM,
			Severity:        SeverityLow,
			Message:         fmt.Sprintf("Engine RPM below optimal range (%.0f). Consider downshifting for better response.", s.RPM),
			EfficiencyDelta: -penalty,
		})
		score = floorZero(score - penalty)
	}

	if hp > 300 && s.Accelerator > 80 {
		penalty := capPenalty((hp-300)/100*5, 15)
		recs = append(recs, Recommendation{
			Type:            RecommendPower,
			Severity:        SeverityMedium,
			Message:         fmt.Sprintf("High power demand (%.0fhp). Moderate acceleration above 300hp for better efficiency.", hp),
			EfficiencyDelta: -penalty,
		})
		score = floorZero(score - penalty)
	}

	if pm.PeakPowerMode {
		score = min(100, score+15)
	}

	pm.Recommendations = recs
	pm.Efficiency = floorZero(score)
}

func (a *Analyzer) report(live LiveMetrics, evaluated bool) Report {
	return Report{
		Efficiency:      a.metrics.Efficiency,
		Recommendations: slices.Clone(a.metrics.Recommendations),
		Mode:            a.Mode(),
		Metrics:         live,
		Evaluated:       evaluated,
	}
}

func (a *Analyzer) Mode() Mode {
	if a.metrics.PeakPowerMode {
		return ModePower
	}
	return ModeEfficiency
}

// ToggleMode flips between efficiency and peak-power mode and returns the
// new mode. Both optimal ranges change together.
func (a *Analyzer) ToggleMode() Mode {
	a.metrics.PeakPowerMode = !a.metrics.PeakPowerMode
	if a.metrics.PeakPowerMode {
		a.metrics.OptimalRPM = powerRPMRange
		a.metrics.OptimalTemperature = powerTempRange
	} else {
		a.metrics.OptimalRPM = efficiencyRPMRange
		a.metrics.OptimalTemperature = efficiencyTempRange
	}
	return a.Mode()
}

// SetMode switches to mode if not already active.
func (a *Analyzer) SetMode(mode Mode) {
	if a.Mode() != mode {
		a.ToggleMode()
	}
}

// Metrics returns a copy of the analyzer state.
func (a *Analyzer) Metrics() PerformanceMetrics {
	m := a.metrics
	m.Recommendations = append([]Recommendation(nil), a.metrics.Recommendations...)
	return m
}

func (a *Analyzer) History() *History { return a.history }

// Reset restores initial metrics and clears history. The debounce interval
// is kept.
func (a *Analyzer) Reset() {
	interval := a.metrics.AnalysisInterval
	a.metrics = defaultMetrics(a.model)
	a.metrics.AnalysisInterval = interval
	a.history.Reset()
}

// OptimalGear suggests a manual gear for speed (mph).
func OptimalGear(speed float64) vehicle.Gear {
	switch {
	case speed < 10:
		return vehicle.GearFirst
	case speed < 25:
		return vehicle.GearSecond
	case speed < 45:
		return vehicle.GearThird
	case speed < 65:
		return vehicle.GearFourth
	default:
		return vehicle.GearFifth
	}
}

func capPenalty(raw float64, limit int) int {
	return min(limit, int(math.Round(raw)))
}

func floorZero(v int) int {
	return max(0, v)
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
