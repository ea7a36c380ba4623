package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/cartwin/internal/vehicle"
)

func TestPedalEffort(t *testing.T) {
	m := NewPedalEffort()
	if m.Value() != 0 {
		t.Errorf("empty effort = %f, want 0", m.Value())
	}

	m.Observe(vehicle.State{}, vehicle.Input{Pedals: vehicle.PedalState{Accelerator: 40}}, vehicle.Output{}, 0)
	m.Observe(vehicle.State{}, vehicle.Input{Pedals: vehicle.PedalState{Brake: 20}}, vehicle.Output{}, 0.1)
	if m.Value() != 30 {
		t.Errorf("effort = %f, want 30", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestFuelUsed(t *testing.T) {
	m := NewFuelUsed()
	m.Observe(vehicle.State{}, vehicle.Input{}, vehicle.Output{FuelUsed: 0.002}, 0)
	m.Observe(vehicle.State{}, vehicle.Input{}, vehicle.Output{FuelUsed: 0.003}, 0.1)
	if math.Abs(m.Value()-0.005) > 1e-12 {
		t.Errorf("fuel used = %f, want 0.005", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero fuel after reset")
	}
}

func TestEconomySkipsStationaryTicks(t *testing.T) {
	m := NewEconomy()
	m.Observe(vehicle.State{Speed: 0}, vehicle.Input{}, vehicle.Output{FuelUsed: 0.001, Mileage: 5}, 0)
	m.Observe(vehicle.State{Speed: 30}, vehicle.Input{}, vehicle.Output{FuelUsed: 0.001, Mileage: 20}, 0.1)
	m.Observe(vehicle.State{Speed: 40}, vehicle.Input{}, vehicle.Output{FuelUsed: 0.001, Mileage: 10}, 0.2)
	if m.Value() != 15 {
		t.Errorf("economy = %f, want 15", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability()
	if m.Value() != 1 {
		t.Errorf("empty stability = %f, want 1", m.Value())
	}

	statuses := []vehicle.EngineStatus{
		vehicle.StatusNormal,
		vehicle.StatusRedline,
		vehicle.StatusHot,
		vehicle.StatusOverheating,
	}
	for i, s := range statuses {
		m.Observe(vehicle.State{}, vehicle.Input{}, vehicle.Output{Status: s}, float64(i))
	}
	if m.Value() != 0.5 {
		t.Errorf("stability = %f, want 0.5", m.Value())
	}
}

func TestSpeedMetrics(t *testing.T) {
	avg := NewAverageSpeed()
	top := NewTopSpeed()
	for i, v := range []float64{10, 50, 30} {
		st := vehicle.State{Speed: v}
		avg.Observe(st, vehicle.Input{}, vehicle.Output{}, float64(i))
		top.Observe(st, vehicle.Input{}, vehicle.Output{}, float64(i))
	}
	if avg.Value() != 30 {
		t.Errorf("avg = %f, want 30", avg.Value())
	}
	if top.Value() != 50 {
		t.Errorf("top = %f, want 50", top.Value())
	}
	top.Reset()
	if top.Value() != 0 {
		t.Error("expected zero top speed after reset")
	}
}

func TestSpeedError(t *testing.T) {
	m := NewSpeedError(50)
	m.Observe(vehicle.State{Speed: 47}, vehicle.Input{}, vehicle.Output{}, 0)
	m.Observe(vehicle.State{Speed: 54}, vehicle.Input{}, vehicle.Output{}, 0.1)
	want := math.Sqrt((9.0 + 16.0) / 2)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("speed error = %f, want %f", m.Value(), want)
	}
}
