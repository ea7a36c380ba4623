package driver

import (
	"fmt"

	"github.com/san-kum/cartwin/internal/vehicle"
)

// Segment is one leg of a drive cycle, active until Until seconds. A
// positive Cruise speed hands control to a PID loop for the segment.
type Segment struct {
	Until       float64      `yaml:"until"`
	Gear        vehicle.Gear `yaml:"gear"`
	Accelerator float64      `yaml:"accelerator"`
	Brake       float64      `yaml:"brake"`
	Cruise      float64      `yaml:"cruise,omitempty"`
}

// Script replays segments in order and coasts after the last one.
type Script struct {
	segments []Segment
	cruise   *Cruise
	active   int
}

func NewScript(segments []Segment, kp, ki, kd float64) (*Script, error) {
	prev := 0.0
	for i, seg := range segments {
		if seg.Until <= prev {
			return nil, fmt.Errorf("segment %d: until %.2f must be after %.2f", i, seg.Until, prev)
		}
		if seg.Gear != "" && !seg.Gear.Valid() {
			return nil, fmt.Errorf("segment %d: %w: %q", i, vehicle.ErrUnsupportedGear, seg.Gear)
		}
		prev = seg.Until
	}
	return &Script{
		segments: segments,
		cruise:   NewCruise(kp, ki, kd, 0),
		active:   -1,
	}, nil
}

// Duration is the end time of the last segment.
func (s *Script) Duration() float64 {
	if len(s.segments) == 0 {
		return 0
	}
	return s.segments[len(s.segments)-1].Until
}

func (s *Script) Compute(st vehicle.State, t float64) vehicle.Input {
	idx := -1
	for i, seg := range s.segments {
		if t < seg.Until {
			idx = i
			break
		}
	}
	if idx < 0 {
		return vehicle.Input{Gear: st.Gear}
	}

	seg := s.segments[idx]
	if idx != s.active {
		s.active = idx
		s.cruise.Reset()
	}

	gear := seg.Gear
	if gear == "" {
		gear = st.Gear
	}

	if seg.Cruise > 0 {
		s.cruise.Target = seg.Cruise
		in := s.cruise.Compute(st, t)
		in.Gear = gear
		return in
	}

	in := vehicle.Input{Gear: gear}
	in.Pedals.SetAccelerator(seg.Accelerator)
	in.Pedals.SetBrake(seg.Brake)
	return in
}
