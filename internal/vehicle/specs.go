package vehicle

import (
	"fmt"
	"strings"
)

type Gear string

const (
	GearPark    Gear = "P"
	GearReverse Gear = "R"
	GearNeutral Gear = "N"
	GearDrive   Gear = "D"
	GearFirst   Gear = "1"
	GearSecond  Gear = "2"
	GearThird   Gear = "3"
	GearFourth  Gear = "4"
	GearFifth   Gear = "5"
)

// Gears lists every supported gear in selector order.
var Gears = []Gear{GearPark, GearReverse, GearNeutral, GearDrive, GearFirst, GearSecond, GearThird, GearFourth, GearFifth}

// ParseGear accepts a gear symbol, case-insensitive for the lettered gears.
func ParseGear(s string) (Gear, error) {
	g := Gear(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return g, fmt.Errorf("%w: %q", ErrUnsupportedGear, s)
	}
	return g, nil
}

func (g Gear) Valid() bool {
	for _, known := range Gears {
		if g == known {
			return true
		}
	}
	return false
}

// Disengaged reports whether no drive reaches the wheels.
func (g Gear) Disengaged() bool {
	return g == GearPark || g == GearNeutral
}

func (g Gear) String() string { return string(g) }

type EngineSpecs struct {
	IdleRPM         float64 `yaml:"idle_rpm"`
	MaxRPM          float64 `yaml:"max_rpm"`
	RedlineRPM      float64 `yaml:"redline_rpm"`
	MaxHorsepower   float64 `yaml:"max_horsepower"`
	Pistons         int     `yaml:"pistons"`
	StrokesPerCycle int     `yaml:"strokes_per_cycle"`
	FuelCapacity    float64 `yaml:"fuel_capacity"`
}

func DefaultEngineSpecs() EngineSpecs {
	return EngineSpecs{
		IdleRPM:         800,
		MaxRPM:          8400,
		RedlineRPM:      8000,
		MaxHorsepower:   700,
		Pistons:         8,
		StrokesPerCycle: 2,
		FuelCapacity:    75,
	}
}

func (s EngineSpecs) Validate() error {
	if s.IdleRPM <= 0 || s.IdleRPM >= s.RedlineRPM || s.RedlineRPM > s.MaxRPM {
		return fmt.Errorf("%w: idle=%.0f redline=%.0f max=%.0f", ErrInvalidSpecs, s.IdleRPM, s.RedlineRPM, s.MaxRPM)
	}
	if s.MaxHorsepower <= 0 {
		return fmt.Errorf("%w: max horsepower must be positive, got %.1f", ErrInvalidSpecs, s.MaxHorsepower)
	}
	if s.FuelCapacity <= 0 {
		return fmt.Errorf("%w: fuel capacity must be positive, got %.1f", ErrInvalidSpecs, s.FuelCapacity)
	}
	return nil
}

// GearSpec holds the per-gear empirical tables.
type GearSpec struct {
	Ratio           float64 `yaml:"ratio"`
	MaxSpeed        float64 `yaml:"max_speed"`
	AccelMultiplier float64 `yaml:"accel_multiplier"`
	OptimalSpeed    float64 `yaml:"optimal_speed"`
}

// fallbackGear is used for symbols missing from the table.
var fallbackGear = GearSpec{Ratio: 1, MaxSpeed: 0, AccelMultiplier: 1, OptimalSpeed: 50}

type GearTable struct {
	Gears           map[Gear]GearSpec `yaml:"gears"`
	FinalDriveRatio float64           `yaml:"final_drive_ratio"`
	WheelDiameter   float64           `yaml:"wheel_diameter"`
}

func DefaultGearTable() GearTable {
	return GearTable{
		Gears: map[Gear]GearSpec{
			GearPark:    {Ratio: 0, MaxSpeed: 0, AccelMultiplier: 0, OptimalSpeed: 0},
			GearReverse: {Ratio: -3.5, MaxSpeed: 15, AccelMultiplier: 1.8, OptimalSpeed: 5},
			GearNeutral: {Ratio: 0, MaxSpeed: 0, AccelMultiplier: 0, OptimalSpeed: 0},
			GearDrive:   {Ratio: 1, MaxSpeed: 0, AccelMultiplier: 1.3, OptimalSpeed: 50},
			GearFirst:   {Ratio: 3.5, MaxSpeed: 25, AccelMultiplier: 2.5, OptimalSpeed: 15},
			GearSecond:  {Ratio: 2.1, MaxSpeed: 45, AccelMultiplier: 2.0, OptimalSpeed: 25},
			GearThird:   {Ratio: 1.4, MaxSpeed: 70, AccelMultiplier: 1.5, OptimalSpeed: 40},
			GearFourth:  {Ratio: 1.0, MaxSpeed: 100, AccelMultiplier: 1.2, OptimalSpeed: 60},
			GearFifth:   {Ratio: 0.8, MaxSpeed: 140, AccelMultiplier: 1.0, OptimalSpeed: 80},
		},
		FinalDriveRatio: 3.9,
		WheelDiameter:   0.65,
	}
}

// Ratio returns the gear ratio; zero and unknown entries read as 1.
func (t GearTable) Ratio(g Gear) float64 {
	spec, ok := t.Gears[g]
	if !ok || spec.Ratio == 0 {
		return fallbackGear.Ratio
	}
	return spec.Ratio
}

func (t GearTable) MaxSpeed(g Gear) float64 {
	spec, ok := t.Gears[g]
	if !ok {
		return fallbackGear.MaxSpeed
	}
	return spec.MaxSpeed
}

// AccelMultiplier returns the acceleration multiplier; zero and unknown
// entries read as 1.
func (t GearTable) AccelMultiplier(g Gear) float64 {
	spec, ok := t.Gears[g]
	if !ok || spec.AccelMultiplier == 0 {
		return fallbackGear.AccelMultiplier
	}
	return spec.AccelMultiplier
}

// OptimalSpeed returns the most efficient cruising speed for a gear. Zero
// entries read as the fallback, matching the table lookup of the original
// tuning where P and N are special-cased by GearEfficiency.
func (t GearTable) OptimalSpeed(g Gear) float64 {
	spec, ok := t.Gears[g]
	if !ok || spec.OptimalSpeed == 0 {
		return fallbackGear.OptimalSpeed
	}
	return spec.OptimalSpeed
}

// ThermalSpecs configures the cooling model.
type ThermalSpecs struct {
	BaseTemp    float64 `yaml:"base_temp"`
	AmbientTemp float64 `yaml:"ambient_temp"`
	MaxTemp     float64 `yaml:"max_temp"`
}

func DefaultThermalSpecs() ThermalSpecs {
	return ThermalSpecs{BaseTemp: 85, AmbientTemp: 20, MaxTemp: 115}
}

// Model is the immutable vehicle configuration all dynamics are derived from.
type Model struct {
	Engine  EngineSpecs  `yaml:"engine"`
	Gearbox GearTable    `yaml:"gearbox"`
	Thermal ThermalSpecs `yaml:"thermal"`
}

func DefaultModel() *Model {
	return &Model{
		Engine:  DefaultEngineSpecs(),
		Gearbox: DefaultGearTable(),
		Thermal: DefaultThermalSpecs(),
	}
}

// Validate checks the engine invariants and gearbox scalars.
func (m *Model) Validate() error {
	if err := m.Engine.Validate(); err != nil {
		return err
	}
	if m.Gearbox.FinalDriveRatio <= 0 || m.Gearbox.WheelDiameter <= 0 {
		return fmt.Errorf("%w: final drive and wheel diameter must be positive", ErrInvalidSpecs)
	}
	if m.Thermal.AmbientTemp >= m.Thermal.MaxTemp {
		return fmt.Errorf("%w: ambient temperature must be below max", ErrInvalidSpecs)
	}
	return nil
}

// Clone returns a deep copy so sessions can run on independent models.
func (m *Model) Clone() *Model {
	c := *m
	c.Gearbox.Gears = make(map[Gear]GearSpec, len(m.Gearbox.Gears))
	for g, spec := range m.Gearbox.Gears {
		c.Gearbox.Gears[g] = spec
	}
	return &c
}
