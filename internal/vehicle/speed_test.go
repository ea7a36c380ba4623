package vehicle

import (
	"math"
	"testing"
)

func pedals(acc, brake float64) PedalState {
	var p PedalState
	p.SetAccelerator(acc)
	p.SetBrake(brake)
	return p
}

func TestAdvanceSpeed_Disengaged(t *testing.T) {
	m := DefaultModel()
	for _, g := range []Gear{GearPark, GearNeutral} {
		for _, p := range []PedalState{pedals(0, 0), pedals(100, 0), pedals(50, 50), pedals(0, 100)} {
			if got := m.AdvanceSpeed(42, g, p, 0.05); got != 0 {
				t.Errorf("gear %s pedals %+v: expected 0, got %f", g, p, got)
			}
		}
	}
}

func TestAdvanceSpeed(t *testing.T) {
	m := DefaultModel()

	tests := []struct {
		name     string
		current  float64
		gear     Gear
		pedals   PedalState
		dt       float64
		expected float64
	}{
		{"first gear launch", 0, GearFirst, pedals(100, 0), 1, 12.5},
		{"first gear capped", 24, GearFirst, pedals(100, 0), 1, 25},
		{"brake overrides throttle", 50, GearThird, pedals(100, 100), 0.1, 47.3},
		{"coasting drag", 10, GearFourth, pedals(0, 0), 0.5, 9},
		{"drag floors at zero", 0.5, GearFourth, pedals(0, 0), 1, 0},
		{"drive is not capped at zero", 0, GearDrive, pedals(100, 0), 1, 6.5},
		{"reverse capped", 14, GearReverse, pedals(100, 0), 1, 15},
		{"unknown gear clamps to zero", 30, Gear("X"), pedals(100, 0), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.AdvanceSpeed(tt.current, tt.gear, tt.pedals, tt.dt)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestAdvanceSpeed_MonotonicInAccelerator(t *testing.T) {
	m := DefaultModel()
	for _, g := range []Gear{GearFirst, GearThird, GearFifth, GearDrive, GearReverse} {
		prev := -1.0
		for acc := 0.0; acc <= 100; acc += 5 {
			got := m.AdvanceSpeed(10, g, pedals(acc, 0), 0.05)
			if got < prev {
				t.Fatalf("gear %s: speed decreased from %f to %f at accelerator %f", g, prev, got, acc)
			}
			prev = got
		}
	}
}

func TestMaxSpeedForGear_Drive(t *testing.T) {
	m := DefaultModel()
	top := m.MaxSpeedForGear(GearDrive)
	if math.Abs(top-275) > 1e-9 {
		t.Errorf("expected drive top speed 275, got %f", top)
	}
	if rpm := m.AutoTransmissionRPM(top); math.Abs(rpm-m.Engine.MaxRPM) > 1e-9 {
		t.Errorf("expected automatic curve at max rpm, got %f", rpm)
	}
}
