package vehicle

// EngineStatus classifies the engine for dashboards.
type EngineStatus struct {
	Status string `json:"status"`
	Color  string `json:"color"`
}

var (
	StatusOff         = EngineStatus{Status: "OFF", Color: "gray"}
	StatusOverheating = EngineStatus{Status: "OVERHEATING", Color: "red"}
	StatusRedline     = EngineStatus{Status: "REDLINE", Color: "red"}
	StatusHighRPM     = EngineStatus{Status: "HIGH_RPM", Color: "yellow"}
	StatusHot         = EngineStatus{Status: "HOT", Color: "orange"}
	StatusNormal      = EngineStatus{Status: "NORMAL", Color: "green"}
)

func (m *Model) IsInRedline(rpm float64) bool {
	return rpm >= m.Engine.RedlineRPM
}

// Status checks conditions in priority order: off, overheating, redline,
// high rpm, hot.
func (m *Model) Status(rpm, temperature float64) EngineStatus {
	switch {
	case rpm == 0:
		return StatusOff
	case temperature > 110:
		return StatusOverheating
	case m.IsInRedline(rpm):
		return StatusRedline
	case rpm > 4000:
		return StatusHighRPM
	case temperature > 100:
		return StatusHot
	default:
		return StatusNormal
	}
}

// Range estimates remaining distance in km.
func Range(fuel, mileage float64) float64 {
	if mileage == 0 {
		return 0
	}
	return fuel * mileage
}

func (m *Model) PistonStrokesPerMinute(rpm float64) float64 {
	return rpm * float64(m.Engine.StrokesPerCycle) * float64(m.Engine.Pistons)
}
