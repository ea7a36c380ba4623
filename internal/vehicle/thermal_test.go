package vehicle

import "testing"

func TestTemperature_CooldownConverges(t *testing.T) {
	m := DefaultModel()
	temp := 85.0
	for i := 0; i < 500; i++ {
		next := m.Temperature(0, 0, temp, 10, false)
		if next > temp {
			t.Fatalf("step %d: temperature rose from %f to %f", i, temp, next)
		}
		if next < m.Thermal.AmbientTemp {
			t.Fatalf("step %d: temperature %f below ambient", i, next)
		}
		temp = next
	}
	if temp-m.Thermal.AmbientTemp > 0.01 {
		t.Errorf("expected convergence to ambient, got %f", temp)
	}

	if got := m.Temperature(0, 0, 20, 10, false); got != 20 {
		t.Errorf("expected to stay at ambient, got %f", got)
	}
}

func TestTemperature_CooldownWhenRPMZero(t *testing.T) {
	m := DefaultModel()
	got := m.Temperature(0, 0, 85, 10, true)
	want := 85 - 65*0.008*10
	if got != want {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestTemperature_Idle(t *testing.T) {
	m := DefaultModel()
	if got := m.Temperature(0, 800, 100, 1, true); got != 87 {
		t.Errorf("expected idle clamp to 87, got %f", got)
	}
	if got := m.Temperature(0, 850, 50, 1, true); got != 50 {
		t.Errorf("expected idle to hold 50, got %f", got)
	}
}

func TestTemperature_Running(t *testing.T) {
	m := DefaultModel()

	if got := m.Temperature(30, 5000, 85, 1, true); got <= 85 {
		t.Errorf("expected heating under load, got %f", got)
	}

	got := m.Temperature(50, 8000, 114.9, 10, true)
	if got > m.Thermal.MaxTemp || got < 114.9 {
		t.Errorf("expected clamp at %f, got %f", m.Thermal.MaxTemp, got)
	}
}
