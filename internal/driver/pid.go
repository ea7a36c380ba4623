package driver

import (
	"math"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

const (
	brakeDeadband = 2.0
	integralLimit = 200.0
)

// Cruise holds Target speed (mph) with a PID loop. Positive effort maps to
// the accelerator, negative effort beyond a small deadband to the brake.
// With AutoShift set it drives the manual gearbox using the optimal-gear
// table; otherwise it stays in drive.
type Cruise struct {
	Kp        float64
	Ki        float64
	Kd        float64
	Target    float64
	AutoShift bool
	integral  float64
	prevErr   float64
	prevT     float64
	first     bool
}

func NewCruise(kp, ki, kd, target float64) *Cruise {
	return &Cruise{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *Cruise) Compute(st vehicle.State, t float64) vehicle.Input {
	in := vehicle.Input{Gear: vehicle.GearDrive}
	if p.AutoShift {
		in.Gear = telemetry.OptimalGear(st.Speed)
	}

	err := p.Target - st.Speed

	var u float64
	if p.first {
		p.first = false
		u = p.Kp * err
	} else if dt := t - p.prevT; dt > 0 {
		p.integral = math.Max(-integralLimit, math.Min(integralLimit, p.integral+err*dt))
		derivative := (err - p.prevErr) / dt
		u = p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	} else {
		u = p.Kp * err
	}
	p.prevErr = err
	p.prevT = t

	switch {
	case u > 0:
		in.Pedals.SetAccelerator(u)
	case u < -brakeDeadband:
		in.Pedals.SetBrake(-u)
	}
	return in
}

// Reset clears integral and derivative state
func (p *Cruise) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *Cruise) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a cruise parameter
func (p *Cruise) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}
