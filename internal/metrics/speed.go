package metrics

import (
	"math"

	"github.com/san-kum/cartwin/internal/vehicle"
)

type AverageSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewAverageSpeed() *AverageSpeed {
	return &AverageSpeed{name: "avg_speed"}
}

func (a *AverageSpeed) Name() string { return a.name }

func (a *AverageSpeed) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	a.sum += st.Speed
	a.samples++
}

func (a *AverageSpeed) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AverageSpeed) Reset() {
	a.sum = 0
	a.samples = 0
}

type TopSpeed struct {
	name string
	max  float64
}

func NewTopSpeed() *TopSpeed {
	return &TopSpeed{name: "top_speed"}
}

func (m *TopSpeed) Name() string { return m.name }

func (m *TopSpeed) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	m.max = math.Max(m.max, st.Speed)
}

func (m *TopSpeed) Value() float64 { return m.max }

func (m *TopSpeed) Reset() { m.max = 0 }

// SpeedError is the RMS deviation from a target speed.
type SpeedError struct {
	name    string
	target  float64
	sumSq   float64
	samples int
}

func NewSpeedError(target float64) *SpeedError {
	return &SpeedError{name: "speed_error", target: target}
}

func (e *SpeedError) Name() string { return e.name }

func (e *SpeedError) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	d := st.Speed - e.target
	e.sumSq += d * d
	e.samples++
}

func (e *SpeedError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *SpeedError) Reset() {
	e.sumSq = 0
	e.samples = 0
}
