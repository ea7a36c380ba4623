package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/cartwin/internal/config"
	"github.com/san-kum/cartwin/internal/driver"
	"github.com/san-kum/cartwin/internal/metrics"
	"github.com/san-kum/cartwin/internal/sim"
	"github.com/san-kum/cartwin/internal/vehicle"
)

type Registry struct {
	drivers map[string]func(*config.Config) (sim.Controller, error)
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		drivers: make(map[string]func(*config.Config) (sim.Controller, error)),
		metrics: make(map[string]func() sim.Metric),
	}

	r.drivers["coast"] = func(c *config.Config) (sim.Controller, error) {
		return driver.NewCoast(), nil
	}
	r.drivers["throttle"] = func(c *config.Config) (sim.Controller, error) {
		p := c.DriverParams
		gear, err := vehicle.ParseGear(p.Gear)
		if err != nil {
			return nil, err
		}
		return driver.NewThrottle(gear, p.Accelerator, p.Brake), nil
	}
	r.drivers["cruise"] = func(c *config.Config) (sim.Controller, error) {
		p := c.DriverParams
		cruise := driver.NewCruise(p.Kp, p.Ki, p.Kd, p.Target)
		cruise.AutoShift = p.AutoShift
		return cruise, nil
	}
	r.drivers["script"] = func(c *config.Config) (sim.Controller, error) {
		p := c.DriverParams
		return driver.NewScript(p.Segments, p.Kp, p.Ki, p.Kd)
	}
	r.drivers["manual"] = func(c *config.Config) (sim.Controller, error) {
		return driver.NewManual(), nil
	}

	r.metrics["pedal_effort"] = func() sim.Metric { return metrics.NewPedalEffort() }
	r.metrics["fuel_used"] = func() sim.Metric { return metrics.NewFuelUsed() }
	r.metrics["economy"] = func() sim.Metric { return metrics.NewEconomy() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability() }
	r.metrics["avg_speed"] = func() sim.Metric { return metrics.NewAverageSpeed() }
	r.metrics["top_speed"] = func() sim.Metric { return metrics.NewTopSpeed() }

	return r
}

func (r *Registry) GetDriver(cfg *config.Config) (sim.Controller, error) {
	fn, ok := r.drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
	return fn(cfg)
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListDrivers() []string {
	return sortedKeys(r.drivers)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	names := r.ListMetrics()
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name]())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
