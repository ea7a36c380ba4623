package automation

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/cartwin/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const scenarioYAML = `
name: errands
description: launch then a gentle throttle run
steps:
  - preset: launch
    duration: 2
  - driver: throttle
    gear: "3"
    duration: 3
    params:
      accelerator: 40
    save_as: gentle
`

func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errands.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "errands" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	results, err := RunScenario(context.Background(), sc, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "launch" || results[1].Name != "gentle" {
		t.Errorf("names = %s, %s", results[0].Name, results[1].Name)
	}
	if results[1].Config.DriverParams.Accelerator != 40 {
		t.Errorf("accelerator = %f, want 40", results[1].Config.DriverParams.Accelerator)
	}
	if results[0].Result.Final.Speed <= 0 {
		t.Error("launch should leave the car moving")
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepConfigErrors(t *testing.T) {
	if _, err := (ScenarioStep{Preset: "rally"}).Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"boost": 1}}).Config(); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := (ScenarioStep{Gear: "7"}).Config(); err == nil {
		t.Error("expected error for unknown gear")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:     base,
		Param:    "accelerator",
		Min:      0,
		Max:      100,
		NumSteps: 3,
	}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[1].Value != 50 {
		t.Errorf("middle value = %f, want 50", results[1].Value)
	}
	if results[2].Metrics["top_speed"] <= results[0].Metrics["top_speed"] {
		t.Errorf("full throttle top speed %f should exceed coasting %f",
			results[2].Metrics["top_speed"], results[0].Metrics["top_speed"])
	}
	if base.DriverParams.Accelerator != 30 {
		t.Error("sweep must not modify the base config")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 2

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 20,
		NumTrials:    5,
		Seed:         7,
	}, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("got %d results, want 5", len(results))
	}
	for _, r := range results {
		if r.Accelerator < 10 || r.Accelerator > 50 {
			t.Errorf("trial %d accelerator %f outside jitter window", r.TrialID, r.Accelerator)
		}
	}
	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 5 {
		t.Errorf("stats = %d + %d, want 5 total", stable, unstable)
	}
}
