// Package driver provides controllers that produce pedal and gear input
// for a simulated vehicle.
//
// Controllers implement [sim.Controller]:
//
//   - [Coast]: no pedals, keeps the current gear
//   - [Throttle]: fixed pedal positions in a fixed gear
//   - [Manual]: inputs set externally, e.g. from a keyboard
//   - [Cruise]: PID speed holding with optional automatic upshift advice
//   - [Script]: a timed drive cycle of segments
//
// # Usage
//
//	cruise := driver.NewCruise(10, 0.1, 5, 65)  // Kp, Ki, Kd, target mph
//	s := sim.New(model, cruise)
//	// Compute is called once per tick
package driver
