package metrics

import (
	"github.com/san-kum/cartwin/internal/vehicle"
)

// Stability is the fraction of ticks spent outside redline and overheating.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{
		name: "stability",
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st vehicle.State, in vehicle.Input, out vehicle.Output, t float64) {
	s.samples++
	switch out.Status {
	case vehicle.StatusRedline, vehicle.StatusOverheating:
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
