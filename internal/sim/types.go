package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

// Controller decides the driver input for the next tick. The simulator
// fills in DeltaTime.
type Controller interface {
	Compute(st vehicle.State, t float64) vehicle.Input
}

type Metric interface {
	Name() string
	Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64)
	Value() float64
	Reset()
}

// Observer receives every tick read-only.
type Observer interface {
	OnStep(st vehicle.State, out vehicle.Output, rep telemetry.Report, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
	// Start anchors simulated time to the wall clock for the analyzer and
	// snapshot timestamps. Zero means time.Now() at run start.
	Start       time.Time
	StartEngine bool
	Mode        telemetry.Mode
	SessionID   string
}

func DefaultConfig() Config {
	return Config{
		Dt:          0.05,
		Duration:    60,
		StartEngine: true,
		Mode:        telemetry.ModeEfficiency,
	}
}

// Sample is one recorded tick.
type Sample struct {
	Time        float64 `csv:"time" json:"time"`
	Gear        string  `csv:"gear" json:"gear"`
	Accelerator float64 `csv:"accelerator" json:"accelerator"`
	Brake       float64 `csv:"brake" json:"brake"`
	Speed       float64 `csv:"speed" json:"speed"`
	RPM         float64 `csv:"rpm" json:"rpm"`
	Temperature float64 `csv:"temperature" json:"temperature"`
	Fuel        float64 `csv:"fuel" json:"fuel"`
	Horsepower  float64 `csv:"horsepower" json:"horsepower"`
	EngineLoad  float64 `csv:"engine_load" json:"engineLoad"`
	FuelUsed    float64 `csv:"fuel_used" json:"fuelUsed"`
	Mileage     float64 `csv:"mileage" json:"mileage"`
	Efficiency  int     `csv:"efficiency" json:"efficiency"`
	Status      string  `csv:"status" json:"status"`
}

type Result struct {
	Samples    []Sample
	Final      vehicle.State
	Report     telemetry.Report
	History    telemetry.HistorySummary
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
