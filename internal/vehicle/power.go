package vehicle

import "math"

// Horsepower returns delivered power for rpm and a [0,1] throttle.
func (m *Model) Horsepower(rpm, throttle float64) float64 {
	if rpm == 0 || m.Engine.MaxRPM == 0 {
		return 0
	}
	return math.Max(0, m.Engine.MaxHorsepower*throttle*powerCurve(rpm/m.Engine.MaxRPM))
}

func powerCurve(ratio float64) float64 {
	switch {
	case ratio < 0.3:
		return ratio * 2
	case ratio < 0.7:
		return 0.6 + (ratio-0.3)*1.5
	case ratio < 0.85:
		return 1.0
	default:
		return 1.0 - (ratio-0.85)*2
	}
}
