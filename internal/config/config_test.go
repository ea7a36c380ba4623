package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Driver != "throttle" {
		t.Errorf("expected driver throttle, got %s", cfg.Driver)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("highway")
	cfg.Vehicle.Engine.MaxHorsepower = 500

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Vehicle.Engine.MaxHorsepower != 500 {
		t.Errorf("horsepower = %f, want 500", loaded.Vehicle.Engine.MaxHorsepower)
	}
	if len(loaded.DriverParams.Segments) != len(cfg.DriverParams.Segments) {
		t.Fatalf("segments = %d, want %d", len(loaded.DriverParams.Segments), len(cfg.DriverParams.Segments))
	}
	last := loaded.DriverParams.Segments[len(loaded.DriverParams.Segments)-1]
	if last.Gear != vehicle.GearFifth || last.Cruise != 65 {
		t.Errorf("last segment = %+v", last)
	}
	if loaded.Vehicle.Gearbox.Ratio(vehicle.GearFirst) != 3.5 {
		t.Errorf("gear table lost in round trip")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"unknown mode", func(c *Config) { c.Mode = "sport" }},
		{"bad init gear", func(c *Config) { c.InitState.Gear = "7" }},
		{"bad driver gear", func(c *Config) { c.DriverParams.Gear = "X" }},
		{"negative snapshot interval", func(c *Config) { c.Storage.SnapshotInterval = -5 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Vehicle.Engine.IdleRPM = 0
	if err := cfg.Validate(); !errors.Is(err, vehicle.ErrInvalidSpecs) {
		t.Errorf("expected ErrInvalidSpecs, got %v", err)
	}
}

func TestGetMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "power"
	mode, err := cfg.GetMode()
	if err != nil || mode != telemetry.ModePower {
		t.Errorf("mode = %s, %v", mode, err)
	}
	cfg.Mode = ""
	if mode, _ := cfg.GetMode(); mode != telemetry.ModeEfficiency {
		t.Errorf("empty mode should default to efficiency, got %s", mode)
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	st, err := cfg.GetInitState()
	if err != nil {
		t.Fatal(err)
	}
	if st.Gear != vehicle.GearPark || st.Temperature != 85 || st.Fuel != 60 {
		t.Errorf("default init state = %+v", st)
	}

	cfg.InitState.Fuel = 500
	cfg.InitState.EngineRunning = true
	st, _ = cfg.GetInitState()
	if st.Fuel != cfg.Vehicle.Engine.FuelCapacity {
		t.Errorf("fuel = %f, want capacity", st.Fuel)
	}
	if st.RPM != cfg.Vehicle.Engine.IdleRPM {
		t.Errorf("running engine should idle, got %f rpm", st.RPM)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("launch")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.DriverParams.Accelerator != 100 {
		t.Errorf("expected full throttle, got %f", cfg.DriverParams.Accelerator)
	}

	again := GetPreset("launch")
	again.Duration = 1
	if GetPreset("launch").Duration == 1 {
		t.Error("presets should be independent copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	presets := ListPresets()
	if len(presets) != 5 {
		t.Errorf("expected 5 presets, got %d", len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if DescribePreset(name) == "" {
			t.Errorf("preset %s has no description", name)
		}
	}
}

func TestClone(t *testing.T) {
	cfg := GetPreset("city")
	cp := cfg.Clone()
	cp.DriverParams.Segments[0].Accelerator = 1
	cp.Vehicle.Gearbox.Gears[vehicle.GearFirst] = vehicle.GearSpec{Ratio: 9}

	if cfg.DriverParams.Segments[0].Accelerator == 1 {
		t.Error("segments should be copied")
	}
	if cfg.Vehicle.Gearbox.Ratio(vehicle.GearFirst) != 3.5 {
		t.Error("gear table should be copied")
	}
}
