package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cartwin/internal/config"
	"github.com/san-kum/cartwin/internal/experiment"
	"github.com/san-kum/cartwin/internal/sim"
	"github.com/san-kum/cartwin/internal/vehicle"
)

// Scenario is a scripted sequence of drives.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides the
// fields it sets.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Driver   string             `yaml:"driver"`
	Mode     string             `yaml:"mode"`
	Gear     string             `yaml:"gear"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

type StepResult struct {
	Name      string
	SessionID string
	Config    *config.Config
	Result    *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a validated config.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Driver != "" {
		cfg.Driver = s.Driver
	}
	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	if s.Gear != "" {
		cfg.DriverParams.Gear = s.Gear
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	for k, v := range s.Params {
		if err := SetParam(cfg, k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// Name is SaveAs, then the preset, then the driver.
func (s ScenarioStep) Name() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	case s.Driver != "":
		return s.Driver
	default:
		return "step"
	}
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", step.Name())

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(logger); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{
			Name:      step.Name(),
			SessionID: exp.SessionID(),
			Config:    cfg,
			Result:    result,
		})
	}

	return results, nil
}

// SetParam writes a named driver or init-state parameter.
func SetParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case "kp":
		cfg.DriverParams.Kp = value
	case "ki":
		cfg.DriverParams.Ki = value
	case "kd":
		cfg.DriverParams.Kd = value
	case "target":
		cfg.DriverParams.Target = value
	case "accelerator":
		cfg.DriverParams.Accelerator = value
	case "brake":
		cfg.DriverParams.Brake = value
	case "temperature":
		cfg.InitState.Temperature = value
	case "fuel":
		cfg.InitState.Fuel = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

func runOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sim.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(logger); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// ParameterSweep runs the base config once per evenly spaced value of Param.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

type SweepResult struct {
	Value   float64
	Final   vehicle.State
	Metrics map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*step

		cfg := sweep.Base.Clone()
		if err := SetParam(cfg, sweep.Param, val); err != nil {
			return nil, err
		}

		result, err := runOnce(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.Param, val, err)
		}

		results = append(results, SweepResult{
			Value:   val,
			Final:   result.Final,
			Metrics: result.Metrics,
		})

		logger.Debug("sweep", "step", i+1, "of", sweep.NumSteps, sweep.Param, val)
	}

	return results, nil
}

// MonteCarloConfig jitters the accelerator and starting temperature of Base.
type MonteCarloConfig struct {
	Base *config.Config
	// Perturbation is the half-width of the uniform jitter, in pedal percent
	// and degrees.
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID     int
	Accelerator float64
	Temperature float64
	Final       vehicle.State
	// Stable means the run never hit redline or overheating.
	Stable bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *slog.Logger) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	base, err := cfg.Base.GetInitState()
	if err != nil {
		return nil, err
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := cfg.Base.Clone()
		run.DriverParams.Accelerator = clamp(run.DriverParams.Accelerator+jitter(rng, cfg.Perturbation), 0, 100)
		run.InitState.Temperature = max(run.Vehicle.Thermal.AmbientTemp, base.Temperature+jitter(rng, cfg.Perturbation))

		result, err := runOnce(ctx, run, logger)
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Accelerator: run.DriverParams.Accelerator,
			Temperature: run.InitState.Temperature,
			Final:       result.Final,
			Stable:      result.Metrics["stability"] >= 1,
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

func jitter(rng *rand.Rand, width float64) float64 {
	return (rng.Float64() - 0.5) * 2 * width
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
