package vehicle

import (
	"math"
	"testing"
)

func TestHorsepower(t *testing.T) {
	m := DefaultModel()
	max := m.Engine.MaxRPM

	tests := []struct {
		name     string
		rpm      float64
		throttle float64
		expected float64
	}{
		{"engine stopped", 0, 1, 0},
		{"no throttle", max * 0.5, 0, 0},
		{"rising segment", max * 0.2, 1, 280},
		{"mid segment", max * 0.5, 1, 630},
		{"half throttle", max * 0.5, 0.5, 315},
		{"flat segment", max * 0.8, 1, 700},
		{"falling segment", max, 1, 490},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Horsepower(tt.rpm, tt.throttle); math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestHorsepower_NeverNegative(t *testing.T) {
	m := DefaultModel()
	if got := m.Horsepower(m.Engine.MaxRPM*2, 1); got != 0 {
		t.Errorf("expected floor at 0 past the curve, got %f", got)
	}
}
