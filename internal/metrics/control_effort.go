package metrics

import (
	"github.com/san-kum/cartwin/internal/vehicle"
)

// PedalEffort averages combined accelerator and brake travel in percent.
type PedalEffort struct {
	name    string
	sum     float64
	samples int
}

func NewPedalEffort() *PedalEffort {
	return &PedalEffort{
		name: "pedal_effort",
	}
}

func (c *PedalEffort) Name() string {
	return c.name
}

func (c *PedalEffort) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	p := in.Pedals.Clamped()
	c.sum += p.Accelerator + p.Brake
	c.samples++
}

func (c *PedalEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *PedalEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
