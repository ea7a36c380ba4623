// Package analysis inspects recorded telemetry after a run.
//
//   - [Field]: named accessors over telemetry samples
//   - [NewPortrait]: two-field scatter, e.g. rpm against speed, showing
//     the shift pattern of a drive
//   - [Spectrum]: power spectrum of one field, used to spot a cruise
//     controller hunting around its target
//
// # Hunting Detection
//
//	spec, _ := analysis.Spectrum(samples, "speed", dt)
//	if spec.Dominant > 0 {
//	    fmt.Printf("speed oscillates every %.1fs\n", spec.Period())
//	}
package analysis
