package metrics

import (
	"github.com/san-kum/cartwin/internal/vehicle"
)

// FuelUsed totals liters burned over a run.
type FuelUsed struct {
	name  string
	total float64
}

func NewFuelUsed() *FuelUsed {
	return &FuelUsed{name: "fuel_used"}
}

func (f *FuelUsed) Name() string { return f.name }

func (f *FuelUsed) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	f.total += out.FuelUsed
}

func (f *FuelUsed) Value() float64 { return f.total }

func (f *FuelUsed) Reset() { f.total = 0 }

// Economy averages instantaneous mileage over ticks with the car moving.
type Economy struct {
	name    string
	sum     float64
	samples int
}

func NewEconomy() *Economy {
	return &Economy{name: "economy"}
}

func (e *Economy) Name() string { return e.name }

func (e *Economy) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	if st.Speed <= 0 || out.FuelUsed <= 0 {
		return
	}
	e.sum += out.Mileage
	e.samples++
}

func (e *Economy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Economy) Reset() {
	e.sum = 0
	e.samples = 0
}
