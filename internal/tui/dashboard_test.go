package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

type countingObserver struct {
	steps int
	last  float64
}

func (c *countingObserver) OnStep(st vehicle.State, out vehicle.Output, rep telemetry.Report, t float64) {
	c.steps++
	c.last = t
}

func newTestDashboard(obs *countingObserver) *Dashboard {
	return NewDashboard(vehicle.DefaultModel(), Options{
		Observer: obs,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func press(d *Dashboard, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := d.Update(msg)
	return cmd
}

func TestEngineToggle(t *testing.T) {
	d := newTestDashboard(nil)
	if d.State().EngineRunning {
		t.Fatal("engine should start off")
	}

	press(d, "e")
	if !d.State().EngineRunning || d.State().RPM != d.model.Engine.IdleRPM {
		t.Errorf("expected idling engine, got %+v", d.State())
	}

	press(d, "e")
	st := d.State()
	if st.EngineRunning || st.RPM != 0 || st.Gear != vehicle.GearPark {
		t.Errorf("expected stopped engine in park, got %+v", st)
	}
}

func TestPedalKeys(t *testing.T) {
	d := newTestDashboard(nil)
	for i := 0; i < 12; i++ {
		press(d, "up")
	}
	if d.Pedals().Accelerator != 100 {
		t.Errorf("accelerator = %f, want 100", d.Pedals().Accelerator)
	}

	press(d, "down")
	if d.Pedals().Accelerator != 90 {
		t.Errorf("accelerator = %f, want 90", d.Pedals().Accelerator)
	}

	press(d, "b")
	p := d.Pedals()
	if p.Accelerator != 0 || p.Brake != brakeStep {
		t.Errorf("brake should release the accelerator, got %+v", p)
	}

	press(d, "up")
	if d.Pedals().Brake != 0 || d.Pedals().Accelerator != 0 {
		t.Errorf("first up should release the brake, got %+v", d.Pedals())
	}
}

func TestGearKeysAndDriving(t *testing.T) {
	obs := &countingObserver{}
	d := newTestDashboard(obs)

	press(d, "e")
	press(d, "d")
	for i := 0; i < 5; i++ {
		press(d, "up")
	}
	press(d, "z")

	for i := 0; i < 40; i++ {
		d.Step(tickInterval.Seconds())
	}

	st := d.State()
	if st.Gear != vehicle.GearDrive {
		t.Errorf("gear = %s, want D", st.Gear)
	}
	if st.Speed <= 0 {
		t.Errorf("car should be moving, speed = %f", st.Speed)
	}
	if obs.steps != 40 {
		t.Errorf("observer steps = %d, want 40", obs.steps)
	}
	if d.Report().Metrics.RPM != st.RPM {
		t.Errorf("analyzer rpm = %f, want %f", d.Report().Metrics.RPM, st.RPM)
	}
}

func TestModeAndReset(t *testing.T) {
	d := newTestDashboard(nil)
	press(d, "m")
	if d.Mode() != telemetry.ModePower {
		t.Errorf("mode = %s, want POWER", d.Mode())
	}

	press(d, "e")
	press(d, "1")
	press(d, "up")
	d.Step(0.05)
	press(d, "x")

	st := d.State()
	if st.EngineRunning || st.Speed != 0 || st.Gear != vehicle.GearPark {
		t.Errorf("reset should park the car, got %+v", st)
	}
	if d.Pedals().Accelerator != 0 {
		t.Error("reset should release the pedals")
	}
}

func TestQuit(t *testing.T) {
	d := newTestDashboard(nil)
	if cmd := press(d, "q"); cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestView(t *testing.T) {
	d := newTestDashboard(nil)
	press(d, "e")
	press(d, "d")
	press(d, "up")
	for i := 0; i < 10; i++ {
		d.Step(0.05)
	}
	view := d.View()
	for _, want := range []string{"CARTWIN", "rpm", "fuel", "EFFICIENCY"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestThemes(t *testing.T) {
	if got := GetTheme("retro"); got.Name != "retro" {
		t.Errorf("GetTheme(retro) = %s", got.Name)
	}
	if got := GetTheme("neon"); got.Name != ThemeCyberpunk.Name {
		t.Errorf("unknown theme should fall back to cyberpunk, got %s", got.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames should list every theme")
	}

	d := NewDashboard(vehicle.DefaultModel(), Options{Theme: "sunset", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	defer applyTheme(ThemeCyberpunk)
	if statusColors["red"] != ThemeSunset.Error {
		t.Errorf("status red = %v, want %v", statusColors["red"], ThemeSunset.Error)
	}
	if d.View() == "" {
		t.Error("view should render with a theme applied")
	}
}
