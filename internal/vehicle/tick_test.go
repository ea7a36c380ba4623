package vehicle

import (
	"errors"
	"testing"
)

func running(m *Model, gear Gear) State {
	st := m.Start(m.InitialState())
	st.Gear = gear
	return st
}

func TestTick_Accelerates(t *testing.T) {
	m := DefaultModel()
	st := running(m, GearDrive)

	in := Input{Gear: GearDrive, DeltaTime: 0.05}
	in.Pedals.SetAccelerator(80)

	var out Output
	var err error
	for i := 0; i < 100; i++ {
		st, out, err = Tick(m, st, in)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if st.Speed <= 0 {
		t.Errorf("expected positive speed, got %f", st.Speed)
	}
	if st.RPM < m.Engine.IdleRPM || st.RPM > m.Engine.MaxRPM {
		t.Errorf("rpm %f out of range", st.RPM)
	}
	if st.Fuel >= 60 {
		t.Errorf("expected fuel to drop, got %f", st.Fuel)
	}
	if out.Horsepower <= 0 {
		t.Errorf("expected positive horsepower, got %f", out.Horsepower)
	}
	if out.EngineLoad < 5 || out.EngineLoad > 95 {
		t.Errorf("load %f out of range", out.EngineLoad)
	}
	if out.Mileage < 5 || out.Mileage > 25 {
		t.Errorf("mileage %f out of range", out.Mileage)
	}
}

func TestTick_EngineOff(t *testing.T) {
	m := DefaultModel()
	st := m.InitialState()
	st.Gear = GearDrive
	st.Speed = 30

	in := Input{DeltaTime: 1}
	in.Pedals.SetAccelerator(100)

	next, out, err := Tick(m, st, in)
	if err != nil {
		t.Fatal(err)
	}
	if next.RPM != 0 || out.Horsepower != 0 || out.FuelUsed != 0 {
		t.Errorf("engine off should produce no rpm/power/fuel, got %+v", out)
	}
	if next.Speed >= 30 {
		t.Errorf("expected coasting down, got %f", next.Speed)
	}
	if next.Temperature >= st.Temperature {
		t.Errorf("expected cooling, got %f", next.Temperature)
	}
	if out.Status != StatusOff {
		t.Errorf("expected OFF status, got %s", out.Status.Status)
	}
}

func TestTick_UnsupportedGear(t *testing.T) {
	m := DefaultModel()
	st := running(m, GearFirst)
	st.Speed = 10

	next, _, err := Tick(m, st, Input{Gear: "7", DeltaTime: 0.05})
	if !errors.Is(err, ErrUnsupportedGear) {
		t.Fatalf("expected ErrUnsupportedGear, got %v", err)
	}
	if next.Speed != 0 {
		t.Errorf("fallback gear has no speed allowance, got %f", next.Speed)
	}
	if next.RPM < m.Engine.IdleRPM {
		t.Errorf("rpm %f below idle", next.RPM)
	}
}

func TestTick_InvalidDeltaTime(t *testing.T) {
	m := DefaultModel()
	st := running(m, GearThird)
	next, _, err := Tick(m, st, Input{DeltaTime: -1})
	if !errors.Is(err, ErrInvalidDeltaTime) {
		t.Fatalf("expected ErrInvalidDeltaTime, got %v", err)
	}
	if next != st {
		t.Error("state should be unchanged on invalid delta")
	}
}

func TestTick_KeepsGear(t *testing.T) {
	m := DefaultModel()
	st := running(m, GearSecond)
	next, _, err := Tick(m, st, Input{DeltaTime: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if next.Gear != GearSecond {
		t.Errorf("expected gear 2 kept, got %s", next.Gear)
	}
}

func TestTick_FuelNeverNegative(t *testing.T) {
	m := DefaultModel()
	st := running(m, GearFifth)
	st.Fuel = 0.01
	st.Speed = 100

	in := Input{DeltaTime: 1}
	in.Pedals.SetAccelerator(100)
	for i := 0; i < 1000; i++ {
		st, _, _ = Tick(m, st, in)
		if st.Fuel < 0 {
			t.Fatalf("tick %d: fuel went negative: %f", i, st.Fuel)
		}
	}
	if st.Fuel != 0 {
		t.Errorf("expected empty tank, got %f", st.Fuel)
	}
}
