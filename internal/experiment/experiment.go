package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/cartwin/internal/config"
	"github.com/san-kum/cartwin/internal/sim"
	"github.com/san-kum/cartwin/internal/vehicle"
)

// Experiment is one configured session: a model copy, a driver and the
// registered metrics.
type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	model      *vehicle.Model
	controller sim.Controller
	simulator  *sim.Simulator
	sessionID  string
	start      time.Time
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:       cfg,
		registry:  NewRegistry(),
		sessionID: uuid.NewString(),
		start:     time.Now(),
	}
}

func (e *Experiment) Setup(logger *slog.Logger) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	ctrl, err := e.registry.GetDriver(e.cfg)
	if err != nil {
		return err
	}

	e.model = e.cfg.Vehicle.Clone()
	e.controller = ctrl
	e.simulator = sim.New(e.model, ctrl)
	e.simulator.SetLogger(logger)
	for _, m := range e.registry.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0, err := e.cfg.GetInitState()
	if err != nil {
		return nil, err
	}
	return e.simulator.Run(ctx, x0, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	mode, _ := e.cfg.GetMode()
	return sim.Config{
		Dt:          e.cfg.Dt,
		Duration:    e.cfg.Duration,
		StartEngine: true,
		Start:       e.start,
		Mode:        mode,
		SessionID:   e.sessionID,
	}
}

// Session packages the experiment for an ensemble run.
func (e *Experiment) Session(name string) (sim.Session, error) {
	if e.controller == nil {
		return sim.Session{}, fmt.Errorf("experiment not setup")
	}
	x0, err := e.cfg.GetInitState()
	if err != nil {
		return sim.Session{}, err
	}
	return sim.Session{
		Name:       name,
		Controller: e.controller,
		Initial:    x0,
		Config:     e.SimConfig(),
	}, nil
}

func (e *Experiment) SessionID() string { return e.sessionID }

// Start anchors simulated time to the wall clock.
func (e *Experiment) Start() time.Time { return e.start }

func (e *Experiment) Model() *vehicle.Model { return e.model }

func (e *Experiment) Controller() sim.Controller { return e.controller }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Registry() *Registry { return e.registry }
