package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cartwin/internal/driver"
	"github.com/san-kum/cartwin/internal/sim"
	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

const (
	tickInterval = 50 * time.Millisecond
	pedalStep    = 10.0
	brakeStep    = 25.0
	plotPoints   = 60
)

type Options struct {
	Mode telemetry.Mode
	// Observer sees every tick, typically a snapshot recorder.
	Observer sim.Observer
	Logger   *slog.Logger
	// Theme names a color scheme; empty keeps the current one.
	Theme string
}

// Dashboard drives one car from the keyboard at a fixed 50 ms tick.
type Dashboard struct {
	model    *vehicle.Model
	manual   *driver.Manual
	analyzer *telemetry.Analyzer
	observer sim.Observer
	logger   *slog.Logger

	state   vehicle.State
	out     vehicle.Output
	report  telemetry.Report
	simTime float64
	start   time.Time
	warned  string

	rpmPlot   []float64
	speedPlot []float64

	width  int
	height int
}

func NewDashboard(model *vehicle.Model, opts Options) *Dashboard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dashboard{
		model:    model,
		manual:   driver.NewManual(),
		analyzer: telemetry.New(model),
		observer: opts.Observer,
		logger:   logger,
		state:    model.InitialState(),
		start:    time.Now(),
		width:    80,
		height:   24,
	}
	if opts.Mode != "" {
		d.analyzer.SetMode(opts.Mode)
	}
	if opts.Theme != "" {
		applyTheme(GetTheme(opts.Theme))
	}
	d.out.Status = vehicle.StatusOff
	return d
}

func (d *Dashboard) State() vehicle.State       { return d.state }
func (d *Dashboard) Output() vehicle.Output     { return d.out }
func (d *Dashboard) Report() telemetry.Report   { return d.report }
func (d *Dashboard) Pedals() vehicle.PedalState { return d.manual.Pedals() }
func (d *Dashboard) Mode() telemetry.Mode       { return d.analyzer.Mode() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (d *Dashboard) Init() tea.Cmd { return tick() }

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d, d.handleKey(msg)
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil
	case tickMsg:
		d.Step(tickInterval.Seconds())
		return d, tick()
	}
	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) tea.Cmd {
	p := d.manual.Pedals()
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return tea.Quit
	case "e":
		d.toggleEngine()
	case "up", "k":
		if p.Brake > 0 {
			d.manual.SetBrake(0)
		} else {
			d.manual.SetAccelerator(p.Accelerator + pedalStep)
		}
	case "down", "j":
		d.manual.SetAccelerator(p.Accelerator - pedalStep)
	case "b", " ":
		d.manual.SetAccelerator(0)
		d.manual.SetBrake(p.Brake + brakeStep)
	case "m":
		mode := d.analyzer.ToggleMode()
		d.logger.Debug("mode changed", slog.String("mode", string(mode)))
	case "x":
		d.reset()
	default:
		if g, err := vehicle.ParseGear(key); err == nil {
			d.manual.SetGear(g)
		}
	}
	return nil
}

func (d *Dashboard) toggleEngine() {
	if d.state.EngineRunning {
		d.state = d.model.Stop(d.state)
		d.manual.SetGear(vehicle.GearPark)
		d.manual.SetAccelerator(0)
		d.manual.SetBrake(0)
		d.out = vehicle.Output{Temperature: d.state.Temperature, Fuel: d.state.Fuel, Status: vehicle.StatusOff}
		return
	}
	d.state = d.model.Start(d.state)
}

func (d *Dashboard) reset() {
	d.state = d.model.InitialState()
	d.manual = driver.NewManual()
	d.analyzer.Reset()
	d.out = vehicle.Output{Temperature: d.state.Temperature, Fuel: d.state.Fuel, Status: vehicle.StatusOff}
	d.report = telemetry.Report{}
	d.simTime = 0
	d.start = time.Now()
	d.rpmPlot = d.rpmPlot[:0]
	d.speedPlot = d.speedPlot[:0]
}

// Step advances the car by dt seconds using the current keyboard input.
func (d *Dashboard) Step(dt float64) {
	in := d.manual.Compute(d.state, d.simTime)
	in.DeltaTime = dt

	next, out, err := vehicle.Tick(d.model, d.state, in)
	if err != nil {
		if !errors.Is(err, vehicle.ErrUnsupportedGear) {
			d.logger.Warn("tick failed", slog.Any("error", err))
			return
		}
		if d.warned != string(in.Gear) {
			d.warned = string(in.Gear)
			d.logger.Warn("unsupported gear, using fallback", slog.String("gear", string(in.Gear)))
		}
	}
	d.state = next
	d.out = out
	d.simTime += dt

	now := d.start.Add(time.Duration(d.simTime * float64(time.Second)))
	d.report = d.analyzer.Analyze(now, telemetry.Sample{
		Speed:       next.Speed,
		RPM:         next.RPM,
		Temperature: next.Temperature,
		Gear:        next.Gear,
		Accelerator: in.Pedals.Accelerator,
	})

	if d.observer != nil {
		d.observer.OnStep(next, out, d.report, d.simTime)
	}

	d.rpmPlot = appendBounded(d.rpmPlot, next.RPM)
	d.speedPlot = appendBounded(d.speedPlot, next.Speed)
}

func appendBounded(values []float64, v float64) []float64 {
	values = append(values, v)
	if len(values) > plotPoints {
		values = values[len(values)-plotPoints:]
	}
	return values
}

func (d *Dashboard) View() string {
	var b strings.Builder

	status := statusStyle(d.out.Status.Color).Render(d.out.Status.Status)
	b.WriteString(title.Render("CARTWIN") + "  " + status + "  " +
		metricLabel.Render("mode ") + metricValue.Render(string(d.analyzer.Mode())) + "  " +
		subtle.Render(fmt.Sprintf("t=%.1fs", d.simTime)) + "\n")
	b.WriteString(separator(60) + "\n")

	engine := d.model.Engine
	b.WriteString(d.gaugeRow("speed", fmt.Sprintf("%6.1f mph", d.state.Speed), d.state.Speed/d.model.MaxSpeedForGear(vehicle.GearDrive), false))
	b.WriteString(d.gaugeRow("rpm", fmt.Sprintf("%6.0f", d.state.RPM), d.state.RPM/engine.MaxRPM, true))
	b.WriteString(d.gaugeRow("temp", fmt.Sprintf("%6.1f °C", d.state.Temperature), d.state.Temperature/d.model.Thermal.MaxTemp, true))
	b.WriteString(d.gaugeRow("fuel", fmt.Sprintf("%6.1f L", d.state.Fuel), d.state.Fuel/engine.FuelCapacity, false))
	b.WriteString("\n")

	readouts := []string{
		readout("hp", fmt.Sprintf("%.0f", d.out.Horsepower)),
		readout("load", fmt.Sprintf("%.0f%%", d.out.EngineLoad)),
		readout("km/L", fmt.Sprintf("%.1f", d.out.Mileage)),
		readout("range", fmt.Sprintf("%.0f km", d.out.Range)),
		readout("eff", fmt.Sprintf("%d%%", d.report.Efficiency)),
	}
	b.WriteString(strings.Join(readouts, "  ") + "\n")

	p := d.manual.Pedals()
	b.WriteString(metricLabel.Render("accel ") + gauge(p.Accelerator/100, 10, true) +
		"  " + metricLabel.Render("brake ") + gauge(p.Brake/100, 10, true) + "\n")
	b.WriteString(d.gearRow() + "\n\n")

	if len(d.rpmPlot) > 1 {
		b.WriteString(panel.Render(asciigraph.Plot(d.rpmPlot,
			asciigraph.Height(4),
			asciigraph.Width(40),
			asciigraph.Caption("rpm"),
		)) + "\n")
	}

	if len(d.report.Recommendations) > 0 {
		lines := make([]string, 0, len(d.report.Recommendations))
		for _, r := range d.report.Recommendations {
			lines = append(lines, fmt.Sprintf("[%s] %s", r.Severity, r.Message))
		}
		b.WriteString(panel.Render(strings.Join(lines, "\n")) + "\n")
	}

	b.WriteString(keyHint.Render("e engine  ↑/↓ throttle  b brake  p r n d 1-5 gear  m mode  x reset  q quit"))
	return b.String()
}

func (d *Dashboard) gaugeRow(label, value string, fraction float64, highIsBad bool) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metricLabel.Width(6).Render(label),
		metricValue.Width(12).Render(value),
		gauge(fraction, 30, highIsBad),
	) + "\n"
}

func readout(label, value string) string {
	return metricLabel.Render(label+" ") + metricValue.Render(value)
}

func (d *Dashboard) gearRow() string {
	parts := make([]string, 0, len(vehicle.Gears))
	for _, g := range vehicle.Gears {
		if g == d.manual.Gear() {
			parts = append(parts, selected.Render(" "+string(g)+" "))
			continue
		}
		parts = append(parts, subtle.Render(" "+string(g)+" "))
	}
	return strings.Join(parts, "")
}

// Run blocks until the user quits.
func Run(d *Dashboard) error {
	p := tea.NewProgram(d, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
