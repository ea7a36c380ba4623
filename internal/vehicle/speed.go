package vehicle

import "math"

const (
	brakeDecelRate = 25.0
	dragDecelRate  = 2.0
	accelRate      = 5.0
	referenceHP    = 700.0
)

// AdvanceSpeed integrates vehicle speed (mph) over dt seconds.
//
// Park and neutral always yield zero. Braking and passive drag apply
// regardless of the accelerator; the accelerator only contributes while
// the brake is fully released.
func (m *Model) AdvanceSpeed(current float64, gear Gear, pedals PedalState, dt float64) float64 {
	if gear.Disengaged() {
		return 0
	}
	pedals = pedals.Clamped()

	accel := 0.0
	if pedals.Accelerator > 0 && pedals.Brake == 0 {
		powerRatio := pedals.Throttle() * (m.Engine.MaxHorsepower / referenceHP)
		accel = powerRatio * accelRate * dt * m.Gearbox.AccelMultiplier(gear)
	}

	decel := 0.0
	if pedals.Brake > 0 {
		decel = pedals.Brake / 100 * brakeDecelRate * dt
	}

	drag := 0.0
	if current > 0 {
		drag = dragDecelRate * dt
	}

	return clamp(current+accel-decel-drag, 0, m.MaxSpeedForGear(gear))
}

// MaxSpeedForGear returns the speed cap for a gear. Drive has no table cap;
// it is governed by the automatic curve and tops out where that curve
// reaches MaxRPM.
func (m *Model) MaxSpeedForGear(gear Gear) float64 {
	if gear == GearDrive {
		return m.autoTopSpeed()
	}
	return m.Gearbox.MaxSpeed(gear)
}

func (m *Model) autoTopSpeed() float64 {
	segs := m.autoSegments()
	for i, seg := range segs {
		end := math.Inf(1)
		if i+1 < len(segs) {
			end = segs[i+1].from
		}
		s := seg.from + (m.Engine.MaxRPM-seg.base)/seg.slope
		if s < seg.from {
			return seg.from
		}
		if s < end {
			return s
		}
	}
	return 0
}
