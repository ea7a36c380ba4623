package vehicle

import "math"

const (
	idleConsumption = 0.8
	mphToKmh        = 1.60934
	minMileage      = 5.0
	maxMileage      = 25.0
)

// FuelConsumption returns liters burned over dt seconds.
func (m *Model) FuelConsumption(speed, rpm float64, gear Gear, dt float64) float64 {
	if rpm == 0 || m.Engine.MaxRPM == 0 {
		return 0
	}
	rpmConsumption := idleConsumption * (1 + rpm/m.Engine.MaxRPM*8)
	speedConsumption := math.Pow(math.Max(0, speed)/100, 2.5) * 2
	loadConsumption := m.EngineLoad(speed, rpm) / 100 * 4
	gearPenalty := (1 - m.GearEfficiency(gear, speed)) * 2

	litersPerHour := idleConsumption + rpmConsumption + speedConsumption + loadConsumption + gearPenalty
	return math.Max(0, litersPerHour/3600*dt)
}

// Mileage converts speed (mph) and a per-second consumption rate into
// km per liter, clamped to [5,25]. Zero inputs yield zero.
func (m *Model) Mileage(speed, rate float64) float64 {
	if rate == 0 || speed == 0 {
		return 0
	}
	economy := speed * mphToKmh / (rate * 3600)
	return clamp(economy, minMileage, maxMileage)
}

// GearEfficiency scores how close speed is to the gear's optimal speed.
// Rolling in park or neutral is penalized to 0.1.
func (m *Model) GearEfficiency(gear Gear, speed float64) float64 {
	if gear.Disengaged() && speed > 0 {
		return 0.1
	}
	diff := math.Abs(speed - m.Gearbox.OptimalSpeed(gear))
	return math.Max(0.3, 1-diff/100)
}
