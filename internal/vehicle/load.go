package vehicle

import "math"

const (
	minLoad = 5.0
	maxLoad = 95.0
)

// EngineLoad estimates how hard the engine works, in [5,95].
func (m *Model) EngineLoad(speed, rpm float64) float64 {
	idle := m.Engine.IdleRPM
	if rpm <= idle {
		return minLoad
	}

	span := m.Engine.MaxRPM - idle
	rpmLoad := 0.0
	if span > 0 {
		rpmLoad = math.Pow((rpm-idle)/span, 1.5) * 40
	}
	speedLoad := math.Pow(speed/100, 2) * 35

	accelLoad := 0.0
	if expected := ExpectedRPM(speed); rpm > expected {
		accelLoad = math.Min((rpm-expected)/1000*20, 25)
	}

	return clamp(rpmLoad+speedLoad+accelLoad+minLoad, minLoad, maxLoad)
}

// ExpectedRPM is the cruising RPM a steady driver would hold at speed.
func ExpectedRPM(speed float64) float64 {
	switch {
	case speed < 20:
		return 1200
	case speed < 40:
		return 1800
	case speed < 60:
		return 2200
	case speed < 80:
		return 2600
	default:
		return 3000
	}
}
