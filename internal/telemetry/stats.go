package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one history channel.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Summarize returns zero values for an empty slice and a zero deviation for
// a single sample.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Count: len(values),
	}
	if len(values) == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}

type HistorySummary struct {
	RPM             Summary `json:"rpm"`
	Temperature     Summary `json:"temperature"`
	Horsepower      Summary `json:"horsepower"`
	FuelConsumption Summary `json:"fuelConsumption"`
}

func (h *History) Summary() HistorySummary {
	return HistorySummary{
		RPM:             Summarize(h.RPM.Values()),
		Temperature:     Summarize(h.Temperature.Values()),
		Horsepower:      Summarize(h.Horsepower.Values()),
		FuelConsumption: Summarize(h.FuelConsumption.Values()),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s HistorySummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("samples", s.RPM.Count),
		slog.Float64("rpm_mean", s.RPM.Mean),
		slog.Float64("rpm_max", s.RPM.Max),
		slog.Float64("temp_mean", s.Temperature.Mean),
		slog.Float64("temp_max", s.Temperature.Max),
		slog.Float64("hp_mean", s.Horsepower.Mean),
		slog.Float64("fuel_mean", s.FuelConsumption.Mean),
	)
}
