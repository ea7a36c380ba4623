package driver

import "github.com/san-kum/cartwin/internal/vehicle"

// Throttle holds constant pedal positions in one gear.
type Throttle struct {
	Gear   vehicle.Gear
	Pedals vehicle.PedalState
}

func NewThrottle(gear vehicle.Gear, accelerator, brake float64) *Throttle {
	th := &Throttle{Gear: gear}
	th.Pedals.SetAccelerator(accelerator)
	th.Pedals.SetBrake(brake)
	return th
}

func (th *Throttle) Compute(st vehicle.State, t float64) vehicle.Input {
	return vehicle.Input{Gear: th.Gear, Pedals: th.Pedals}
}
