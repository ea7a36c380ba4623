// Package telemetry turns per-tick vehicle readings into a rolling
// performance assessment.
//
// The [Analyzer] appends every reading to a bounded [History] and, at most
// once per analysis interval, recomputes an efficiency score with a ranked
// list of [Recommendation] values. Between evaluations it returns the cached
// assessment with live metrics refreshed.
//
// Time is always supplied by the caller, so debounce behavior is
// deterministic under test.
package telemetry
