package optim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/cartwin/internal/config"
	"github.com/san-kum/cartwin/internal/experiment"
	"github.com/san-kum/cartwin/internal/metrics"
)

// CruiseGrid lists candidate gains for TuneCruise.
type CruiseGrid struct {
	Kp []float64
	Ki []float64
	Kd []float64
}

func DefaultCruiseGrid() CruiseGrid {
	return CruiseGrid{
		Kp: []float64{2, 5, 10, 20},
		Ki: []float64{0, 0.1, 0.5},
		Kd: []float64{0, 1, 5},
	}
}

// TuneCruise searches cruise gains that minimise RMS speed error against
// the configured target.
func TuneCruise(ctx context.Context, base *config.Config, grid CruiseGrid, logger *slog.Logger) (map[string]float64, float64, error) {
	if base.DriverParams.Target <= 0 {
		return nil, 0, fmt.Errorf("cruise target must be positive, got %.1f", base.DriverParams.Target)
	}
	if logger == nil {
		logger = slog.Default()
	}

	gs := NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{grid.Kp, grid.Ki, grid.Kd})

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		cfg.Driver = "cruise"
		cfg.DriverParams.Kp = params["kp"]
		cfg.DriverParams.Ki = params["ki"]
		cfg.DriverParams.Kd = params["kd"]

		exp := experiment.New(cfg)
		if err := exp.Setup(logger); err != nil {
			return nil, err
		}
		exp.GetSimulator().AddMetric(metrics.NewSpeedError(cfg.DriverParams.Target))
		return exp, nil
	}

	return gs.Search(ctx, build, "speed_error")
}
