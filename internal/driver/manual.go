package driver

import "github.com/san-kum/cartwin/internal/vehicle"

// Manual passes inputs set between ticks by an interactive front end.
type Manual struct {
	pedals vehicle.PedalState
	gear   vehicle.Gear
}

func NewManual() *Manual {
	return &Manual{gear: vehicle.GearPark}
}

func (m *Manual) SetAccelerator(position float64) { m.pedals.SetAccelerator(position) }
func (m *Manual) SetBrake(position float64)       { m.pedals.SetBrake(position) }

// SetGear ignores unsupported symbols and reports whether the gear changed.
func (m *Manual) SetGear(g vehicle.Gear) bool {
	if !g.Valid() {
		return false
	}
	m.gear = g
	return true
}

func (m *Manual) Pedals() vehicle.PedalState { return m.pedals }
func (m *Manual) Gear() vehicle.Gear         { return m.gear }

func (m *Manual) Compute(st vehicle.State, t float64) vehicle.Input {
	return vehicle.Input{Gear: m.gear, Pedals: m.pedals}
}
