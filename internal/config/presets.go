package config

import (
	"sort"

	"github.com/san-kum/cartwin/internal/driver"
	"github.com/san-kum/cartwin/internal/vehicle"
)

type preset struct {
	description string
	apply       func(*Config)
}

var presets = map[string]preset{
	"city": {
		description: "stop and go through the manual gearbox",
		apply: func(c *Config) {
			c.Driver = "script"
			c.Duration = 90
			c.DriverParams.Segments = []driver.Segment{
				{Until: 6, Gear: vehicle.GearFirst, Accelerator: 60},
				{Until: 14, Gear: vehicle.GearSecond, Accelerator: 50},
				{Until: 30, Gear: vehicle.GearThird, Cruise: 30},
				{Until: 38, Gear: vehicle.GearThird, Brake: 40},
				{Until: 45, Gear: vehicle.GearNeutral, Brake: 80},
				{Until: 52, Gear: vehicle.GearFirst, Accelerator: 70},
				{Until: 60, Gear: vehicle.GearSecond, Accelerator: 50},
				{Until: 80, Gear: vehicle.GearThird, Cruise: 35},
				{Until: 90, Gear: vehicle.GearNeutral, Brake: 60},
			}
		},
	},
	"highway": {
		description: "merge and hold 65 mph in fifth",
		apply: func(c *Config) {
			c.Driver = "script"
			c.Duration = 180
			c.DriverParams.Segments = []driver.Segment{
				{Until: 5, Gear: vehicle.GearFirst, Accelerator: 80},
				{Until: 10, Gear: vehicle.GearSecond, Accelerator: 80},
				{Until: 18, Gear: vehicle.GearThird, Accelerator: 70},
				{Until: 28, Gear: vehicle.GearFourth, Accelerator: 60},
				{Until: 180, Gear: vehicle.GearFifth, Cruise: 65},
			}
		},
	},
	"launch": {
		description: "full throttle in drive",
		apply: func(c *Config) {
			c.Driver = "throttle"
			c.Mode = "POWER"
			c.Duration = 20
			c.DriverParams.Gear = string(vehicle.GearDrive)
			c.DriverParams.Accelerator = 100
			c.DriverParams.Brake = 0
		},
	},
	"warmup": {
		description: "five minutes idling in park",
		apply: func(c *Config) {
			c.Driver = "coast"
			c.Duration = 300
			c.Dt = 0.1
			c.InitState.Gear = string(vehicle.GearPark)
		},
	},
	"cruise": {
		description: "PID speed hold at 55 mph with shift advice",
		apply: func(c *Config) {
			c.Driver = "cruise"
			c.Duration = 120
			c.DriverParams.Target = 55
			c.DriverParams.AutoShift = true
		},
	},
}

// GetPreset returns a fresh default config with the named preset applied,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.apply(cfg)
	return cfg
}

func DescribePreset(name string) string {
	return presets[name].description
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
