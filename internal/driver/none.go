package driver

import "github.com/san-kum/cartwin/internal/vehicle"

// Coast releases both pedals and keeps the current gear.
type Coast struct{}

func NewCoast() *Coast {
	return &Coast{}
}

func (c *Coast) Compute(st vehicle.State, t float64) vehicle.Input {
	return vehicle.Input{Gear: st.Gear}
}
