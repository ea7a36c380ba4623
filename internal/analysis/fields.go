package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/cartwin/internal/sim"
)

type Accessor func(sim.Sample) float64

var fields = map[string]Accessor{
	"time":        func(s sim.Sample) float64 { return s.Time },
	"speed":       func(s sim.Sample) float64 { return s.Speed },
	"rpm":         func(s sim.Sample) float64 { return s.RPM },
	"temperature": func(s sim.Sample) float64 { return s.Temperature },
	"horsepower":  func(s sim.Sample) float64 { return s.Horsepower },
	"fuel":        func(s sim.Sample) float64 { return s.Fuel },
	"load":        func(s sim.Sample) float64 { return s.EngineLoad },
	"mileage":     func(s sim.Sample) float64 { return s.Mileage },
	"accelerator": func(s sim.Sample) float64 { return s.Accelerator },
	"brake":       func(s sim.Sample) float64 { return s.Brake },
	"efficiency":  func(s sim.Sample) float64 { return float64(s.Efficiency) },
}

func Field(name string) (Accessor, error) {
	fn, ok := fields[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s (available: %v)", name, FieldNames())
	}
	return fn, nil
}

func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series extracts one field from every sample.
func Series(samples []sim.Sample, name string) ([]float64, error) {
	fn, err := Field(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = fn(s)
	}
	return out, nil
}
