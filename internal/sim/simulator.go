package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

type Simulator struct {
	model      *vehicle.Model
	controller Controller
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger
}

func New(model *vehicle.Model, controller Controller) *Simulator {
	return &Simulator{
		model:      model,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) Model() *vehicle.Model { return s.model }

// Run drives one session from x0 for cfg.Duration seconds of simulated time.
func (s *Simulator) Run(ctx context.Context, x0 vehicle.State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Now()
	}
	analyzer := telemetry.New(s.model)
	if cfg.Mode != "" {
		analyzer.SetMode(cfg.Mode)
	}

	x := x0
	if cfg.StartEngine && !x.EngineRunning {
		x = s.model.Start(x)
	}

	s.logger.Info("session started",
		slog.String("session", cfg.SessionID),
		slog.Int("steps", steps),
		slog.Float64("dt", cfg.Dt),
		slog.String("mode", string(analyzer.Mode())),
	)

	warned := make(map[vehicle.Gear]bool)
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		in := s.controller.Compute(x, t)
		in.DeltaTime = cfg.Dt

		next, out, err := vehicle.Tick(s.model, x, in)
		if err != nil {
			if !errors.Is(err, vehicle.ErrUnsupportedGear) {
				result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: err.Error()})
				break
			}
			if !warned[next.Gear] {
				warned[next.Gear] = true
				s.logger.Warn("unsupported gear, using fallback", slog.String("gear", string(next.Gear)), slog.Float64("t", t))
				result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: err.Error()})
			}
		}

		x = next
		t += cfg.Dt
		result.StepsTaken++

		now := start.Add(time.Duration(t * float64(time.Second)))
		rep := analyzer.Analyze(now, telemetry.Sample{
			Speed:       x.Speed,
			RPM:         x.RPM,
			Temperature: x.Temperature,
			Gear:        x.Gear,
			Accelerator: in.Pedals.Accelerator,
		})
		if rep.Evaluated && len(rep.Recommendations) > 0 {
			s.logger.Debug("analysis",
				slog.Float64("t", t),
				slog.Int("efficiency", rep.Efficiency),
				slog.Int("recommendations", len(rep.Recommendations)),
				slog.Any("output", out),
			)
		}

		for _, m := range s.metrics {
			m.Observe(x, in, out, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, out, rep, t)
		}

		result.Samples = append(result.Samples, Sample{
			Time:        t,
			Gear:        string(x.Gear),
			Accelerator: in.Pedals.Accelerator,
			Brake:       in.Pedals.Brake,
			Speed:       x.Speed,
			RPM:         x.RPM,
			Temperature: x.Temperature,
			Fuel:        x.Fuel,
			Horsepower:  out.Horsepower,
			EngineLoad:  out.EngineLoad,
			FuelUsed:    out.FuelUsed,
			Mileage:     out.Mileage,
			Efficiency:  rep.Efficiency,
			Status:      out.Status.Status,
		})
		result.Report = rep
	}

	result.Final = x
	result.History = analyzer.History().Summary()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("session finished",
		slog.String("session", cfg.SessionID),
		slog.Int("steps", result.StepsTaken),
		slog.Int("efficiency", result.Report.Efficiency),
		slog.Any("history", result.History),
	)

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if s.controller == nil {
		return fmt.Errorf("controller is required")
	}
	return s.model.Validate()
}

// RunWithCallback ticks until the duration elapses, the context is canceled
// or callback returns false. No samples are retained.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 vehicle.State, cfg Config, callback func(vehicle.State, vehicle.Output, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0
	if cfg.StartEngine && !x.EngineRunning {
		x = s.model.Start(x)
	}
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		in := s.controller.Compute(x, t)
		in.DeltaTime = cfg.Dt

		next, out, err := vehicle.Tick(s.model, x, in)
		if err != nil && !errors.Is(err, vehicle.ErrUnsupportedGear) {
			return fmt.Errorf("tick at t=%.4f: %w", t, err)
		}
		x = next
		t += cfg.Dt

		if !callback(x, out, t) {
			return nil
		}
	}

	return nil
}
