// Package vehicle implements the tick-driven vehicle dynamics core.
//
// A [Model] bundles the immutable engine and gearbox configuration. Its
// methods are pure functions of their arguments:
//
//   - [Model.AdvanceSpeed]: integrates speed from pedals, gear and elapsed time
//   - [Model.RPM]: engine speed for manual gears and the automatic curve
//   - [Model.Temperature]: engine thermal model with cooldown when off
//   - [Model.EngineLoad]: synthetic [5,95] load estimate
//   - [Model.FuelConsumption], [Model.Mileage], [Model.GearEfficiency]
//   - [Model.Horsepower]: piecewise power curve
//
// [Tick] composes all of them into one (model, state, input) -> (state,
// output) transform.
//
// # Example
//
//	m := vehicle.DefaultModel()
//	st := vehicle.State{EngineRunning: true, Gear: vehicle.GearDrive, Temperature: 85, Fuel: 60}
//	in := vehicle.Input{Gear: vehicle.GearDrive, DeltaTime: 0.05}
//	in.Pedals.SetAccelerator(60)
//	st, out, _ := vehicle.Tick(m, st, in)
//
// # Thread Safety
//
// Model is read-only after construction and safe to share. State is owned by
// the caller; concurrent ticks on one State must be serialized by the caller.
package vehicle
