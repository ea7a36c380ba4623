package vehicle

import (
	"fmt"
	"log/slog"
	"math"
)

// State is the caller-owned vehicle state carried between ticks.
type State struct {
	EngineRunning bool    `json:"engineRunning"`
	Gear          Gear    `json:"currentGear"`
	Speed         float64 `json:"speed"`
	RPM           float64 `json:"rpm"`
	Temperature   float64 `json:"temperature"`
	Fuel          float64 `json:"fuel"`
}

// Input is one tick's worth of driver input. An empty Gear keeps the
// current gear.
type Input struct {
	Pedals    PedalState `json:"pedals"`
	Gear      Gear       `json:"gear"`
	DeltaTime float64    `json:"deltaTime"`
}

// Output is everything derived during a tick.
type Output struct {
	Speed       float64      `json:"speed"`
	RPM         float64      `json:"rpm"`
	Temperature float64      `json:"temperature"`
	Fuel        float64      `json:"fuel"`
	Horsepower  float64      `json:"horsepower"`
	EngineLoad  float64      `json:"engineLoad"`
	FuelUsed    float64      `json:"fuelUsed"`
	Mileage     float64      `json:"mileage"`
	Range       float64      `json:"range"`
	Status      EngineStatus `json:"status"`
}

// LogValue implements slog.LogValuer for structured logging.
func (o Output) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("speed", o.Speed),
		slog.Float64("rpm", o.RPM),
		slog.Float64("temp", o.Temperature),
		slog.Float64("fuel", o.Fuel),
		slog.Float64("hp", o.Horsepower),
		slog.Float64("load", o.EngineLoad),
		slog.Float64("mileage", o.Mileage),
		slog.String("status", o.Status.Status),
	)
}

// Tick advances st by one step. It never mutates its arguments.
//
// An unknown gear still produces a valid state using the fallback gear
// table entry; the returned error wraps ErrUnsupportedGear so callers can
// surface it. An invalid DeltaTime leaves the state untouched.
func Tick(m *Model, st State, in Input) (State, Output, error) {
	dt := in.DeltaTime
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return st, snapshotOutput(m, st), fmt.Errorf("%w: %v", ErrInvalidDeltaTime, dt)
	}

	var err error
	gear := in.Gear
	if gear == "" {
		gear = st.Gear
	}
	if !gear.Valid() {
		err = fmt.Errorf("%w: %q", ErrUnsupportedGear, gear)
	}

	pedals := in.Pedals.Clamped()
	if !st.EngineRunning {
		pedals.Accelerator = 0
	}

	next := st
	next.Gear = gear
	next.Speed = m.AdvanceSpeed(st.Speed, gear, pedals, dt)
	next.RPM = m.RPM(next.Speed, gear, st.EngineRunning)
	next.Temperature = m.Temperature(next.Speed, next.RPM, st.Temperature, dt, st.EngineRunning)

	used := m.FuelConsumption(next.Speed, next.RPM, gear, dt)
	next.Fuel = clamp(st.Fuel-used, 0, m.Engine.FuelCapacity)

	out := snapshotOutput(m, next)
	out.Horsepower = m.Horsepower(next.RPM, pedals.Throttle())
	out.FuelUsed = used
	if dt > 0 {
		out.Mileage = m.Mileage(next.Speed, used/dt)
	}
	out.Range = Range(next.Fuel, out.Mileage)

	return next, out, err
}

func snapshotOutput(m *Model, st State) Output {
	out := Output{
		Speed:       st.Speed,
		RPM:         st.RPM,
		Temperature: st.Temperature,
		Fuel:        st.Fuel,
		Status:      m.Status(st.RPM, st.Temperature),
	}
	if st.EngineRunning {
		out.EngineLoad = m.EngineLoad(st.Speed, st.RPM)
	}
	return out
}

// Start returns a running engine state at idle, warmed to BaseTemp when
// the engine is colder.
func (m *Model) Start(st State) State {
	st.EngineRunning = true
	st.RPM = m.Engine.IdleRPM
	if st.Temperature < m.Thermal.BaseTemp {
		st.Temperature = m.Thermal.BaseTemp
	}
	return st
}

// Stop shuts the engine down and returns the selector to park.
func (m *Model) Stop(st State) State {
	st.EngineRunning = false
	st.RPM = 0
	st.Speed = 0
	st.Gear = GearPark
	return st
}

// InitialState is a parked car at base temperature with a partially
// filled tank.
func (m *Model) InitialState() State {
	return State{
		Gear:        GearPark,
		Temperature: m.Thermal.BaseTemp,
		Fuel:        60,
	}
}
