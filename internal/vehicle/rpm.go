package vehicle

import "math"

const mphToMetersPerSecond = 0.44704

type autoSegment struct {
	from  float64
	base  float64
	slope float64
}

// autoSegments describes the automatic transmission RPM curve as
// piecewise-linear segments keyed by the speed they start at.
func (m *Model) autoSegments() []autoSegment {
	return []autoSegment{
		{from: 0, base: m.Engine.IdleRPM, slope: 80},
		{from: 15, base: 2000, slope: 60},
		{from: 30, base: 2900, slope: 40},
		{from: 50, base: 3700, slope: 30},
		{from: 70, base: 4300, slope: 20},
	}
}

// RPM derives engine speed from road speed (mph) and gear, clamped to
// [IdleRPM, MaxRPM] while running.
func (m *Model) RPM(speed float64, gear Gear, engineRunning bool) float64 {
	if !engineRunning {
		return 0
	}
	if gear.Disengaged() {
		return m.Engine.IdleRPM
	}

	var rpm float64
	if gear == GearDrive {
		rpm = m.AutoTransmissionRPM(speed)
	} else {
		speedMS := speed * mphToMetersPerSecond
		wheelRPS := speedMS / (math.Pi * m.Gearbox.WheelDiameter)
		rpm = math.Abs(wheelRPS * 60 * math.Abs(m.Gearbox.Ratio(gear)) * m.Gearbox.FinalDriveRatio)
	}
	return clamp(rpm, m.Engine.IdleRPM, m.Engine.MaxRPM)
}

// AutoTransmissionRPM is the unclamped engine speed in drive.
func (m *Model) AutoTransmissionRPM(speed float64) float64 {
	segs := m.autoSegments()
	seg := segs[0]
	for _, s := range segs[1:] {
		if speed < s.from {
			break
		}
		seg = s
	}
	return seg.base + (speed-seg.from)*seg.slope
}
