package vehicle

import "math"

const (
	cooldownRate   = 0.008
	rpmHeatFactor  = 0.001
	loadHeatFactor = 0.1
	airflowFactor  = 0.05
	airflowMax     = 8.0
	radiatorFactor = 0.03
	thermalInertia = 0.02
	idleBand       = 1.1
	idleHeadroom   = 2.0
)

// Temperature integrates engine temperature (°C) over dt seconds.
//
// A stopped engine cools exponentially toward ambient. A running engine
// balances RPM and load heat against airflow and radiator cooling; at idle
// it is held at or below BaseTemp+2.
func (m *Model) Temperature(speed, rpm, current, dt float64, engineRunning bool) float64 {
	ambient := m.Thermal.AmbientTemp
	if !engineRunning || rpm == 0 {
		next := current - (current-ambient)*cooldownRate*dt
		return math.Max(ambient, next)
	}

	target := m.Thermal.BaseTemp
	rpmHeat := math.Max(0, (rpm-m.Engine.IdleRPM)*rpmHeatFactor)

	loadHeat := 0.0
	if speed > 0 {
		loadHeat = m.EngineLoad(speed, rpm) * loadHeatFactor
	}

	airflow := 0.0
	if speed > 10 {
		airflow = math.Min(speed*airflowFactor, airflowMax)
	}
	radiator := math.Max(0, (current-target)*radiatorFactor)

	change := (rpmHeat + loadHeat - airflow - radiator) * dt

	if speed == 0 && rpm <= m.Engine.IdleRPM*idleBand {
		return math.Max(ambient, math.Min(current, target+idleHeadroom))
	}

	return clamp(current+change*thermalInertia, ambient, m.Thermal.MaxTemp)
}
