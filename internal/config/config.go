package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cartwin/internal/driver"
	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

const (
	DefaultDt               = 0.05
	DefaultDuration         = 60.0
	DefaultKp               = 10.0
	DefaultKi               = 0.1
	DefaultKd               = 5.0
	DefaultDataDir          = ".cartwin"
	DefaultSnapshotInterval = 5.0
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Vehicle      vehicle.Model   `yaml:"vehicle"`
	Driver       string          `yaml:"driver"`
	Mode         string          `yaml:"mode"`
	Dt           float64         `yaml:"dt"`
	Duration     float64         `yaml:"duration"`
	InitState    InitStateConfig `yaml:"init_state"`
	DriverParams DriverConfig    `yaml:"driver_params"`
	Storage      StorageConfig   `yaml:"storage"`
}

type InitStateConfig struct {
	EngineRunning bool    `yaml:"engine_running"`
	Gear          string  `yaml:"gear"`
	Speed         float64 `yaml:"speed"`
	Temperature   float64 `yaml:"temperature"`
	Fuel          float64 `yaml:"fuel"`
}

type DriverConfig struct {
	Kp          float64          `yaml:"kp"`
	Ki          float64          `yaml:"ki"`
	Kd          float64          `yaml:"kd"`
	Target      float64          `yaml:"target"`
	AutoShift   bool             `yaml:"auto_shift"`
	Gear        string           `yaml:"gear"`
	Accelerator float64          `yaml:"accelerator"`
	Brake       float64          `yaml:"brake"`
	Segments    []driver.Segment `yaml:"segments,omitempty"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	// SnapshotInterval is in simulated seconds; zero disables snapshots.
	SnapshotInterval float64 `yaml:"snapshot_interval"`
}

func DefaultConfig() *Config {
	model := vehicle.DefaultModel()
	st := model.InitialState()
	return &Config{
		Vehicle:  *model,
		Driver:   "throttle",
		Mode:     string(telemetry.ModeEfficiency),
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		InitState: InitStateConfig{
			Gear:        string(st.Gear),
			Temperature: st.Temperature,
			Fuel:        st.Fuel,
		},
		DriverParams: DriverConfig{
			Kp:          DefaultKp,
			Ki:          DefaultKi,
			Kd:          DefaultKd,
			Gear:        string(vehicle.GearDrive),
			Accelerator: 30,
		},
		Storage: StorageConfig{
			DataDir:          DefaultDataDir,
			SnapshotInterval: DefaultSnapshotInterval,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	}
	if _, err := c.GetMode(); err != nil {
		return err
	}
	if _, err := c.GetInitState(); err != nil {
		return err
	}
	if c.DriverParams.Gear != "" {
		if _, err := vehicle.ParseGear(c.DriverParams.Gear); err != nil {
			return fmt.Errorf("%w: driver gear: %w", ErrInvalidConfig, err)
		}
	}
	if c.Storage.SnapshotInterval < 0 {
		return fmt.Errorf("%w: snapshot interval must not be negative", ErrInvalidConfig)
	}
	return c.Vehicle.Validate()
}

func (c *Config) GetMode() (telemetry.Mode, error) {
	switch telemetry.Mode(strings.ToUpper(c.Mode)) {
	case "", telemetry.ModeEfficiency:
		return telemetry.ModeEfficiency, nil
	case telemetry.ModePower:
		return telemetry.ModePower, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
}

// GetInitState builds the starting vehicle state. Unset gear, temperature
// and fuel take the parked-car defaults.
func (c *Config) GetInitState() (vehicle.State, error) {
	st := c.Vehicle.InitialState()
	if c.InitState.Gear != "" {
		g, err := vehicle.ParseGear(c.InitState.Gear)
		if err != nil {
			return st, fmt.Errorf("%w: init gear: %w", ErrInvalidConfig, err)
		}
		st.Gear = g
	}
	if c.InitState.Temperature > 0 {
		st.Temperature = c.InitState.Temperature
	}
	if c.InitState.Fuel > 0 {
		st.Fuel = min(c.InitState.Fuel, c.Vehicle.Engine.FuelCapacity)
	}
	st.Speed = max(0, c.InitState.Speed)
	st.EngineRunning = c.InitState.EngineRunning
	if st.EngineRunning {
		st.RPM = c.Vehicle.Engine.IdleRPM
	}
	return st, nil
}

func (c *Config) GetDriverParams() map[string]float64 {
	return map[string]float64{
		"kp":          c.DriverParams.Kp,
		"ki":          c.DriverParams.Ki,
		"kd":          c.DriverParams.Kd,
		"target":      c.DriverParams.Target,
		"accelerator": c.DriverParams.Accelerator,
		"brake":       c.DriverParams.Brake,
	}
}

// Clone returns a deep copy safe to modify independently.
func (c *Config) Clone() *Config {
	out := *c
	out.Vehicle = *c.Vehicle.Clone()
	out.DriverParams.Segments = append([]driver.Segment(nil), c.DriverParams.Segments...)
	return &out
}
