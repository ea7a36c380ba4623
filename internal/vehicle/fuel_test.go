package vehicle

import (
	"math"
	"testing"
)

func TestGearEfficiency(t *testing.T) {
	m := DefaultModel()
	tests := []struct {
		gear     Gear
		speed    float64
		expected float64
	}{
		{GearNeutral, 30, 0.1},
		{GearPark, 5, 0.1},
		{GearPark, 0, 0.5},
		{GearThird, 40, 1.0},
		{GearFourth, 50, 0.9},
		{GearFirst, 100, 0.3},
		{GearDrive, 50, 1.0},
		{Gear("X"), 50, 1.0},
	}
	for _, tt := range tests {
		if got := m.GearEfficiency(tt.gear, tt.speed); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("gear %s speed %f: expected %f, got %f", tt.gear, tt.speed, tt.expected, got)
		}
	}
}

func TestFuelConsumption(t *testing.T) {
	m := DefaultModel()

	if got := m.FuelConsumption(50, 0, GearThird, 1); got != 0 {
		t.Errorf("expected 0 with rpm 0, got %f", got)
	}

	// 0.8 idle + 1.409524 rpm + 0.2 load + 1.0 gear penalty, per hour
	want := 3.409524 / 3600
	if got := m.FuelConsumption(0, 800, GearPark, 1); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %g, got %g", want, got)
	}

	if got := m.FuelConsumption(50, 3000, GearFourth, 0); got != 0 {
		t.Errorf("expected 0 over zero time, got %f", got)
	}
}

func TestMileage(t *testing.T) {
	m := DefaultModel()
	tests := []struct {
		name     string
		speed    float64
		rate     float64
		expected float64
	}{
		{"zero rate", 60, 0, 0},
		{"zero speed", 0, 0.002, 0},
		{"mid range", 60, 0.002, 13.4112},
		{"clamped high", 60, 1e-6, 25},
		{"clamped low", 1, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Mileage(tt.speed, tt.rate); math.Abs(got-tt.expected) > 1e-4 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}
