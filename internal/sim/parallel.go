package sim

import (
	"context"
	"sync"

	"github.com/san-kum/cartwin/internal/vehicle"
)

// Session is one independent run inside an Ensemble.
type Session struct {
	Name       string
	Controller Controller
	Initial    vehicle.State
	Config     Config
}

// Ensemble runs sessions concurrently, each on its own model copy and
// simulator so no state is shared between goroutines.
type Ensemble struct {
	model    *vehicle.Model
	sessions []Session
	metrics  func() []Metric
}

func NewEnsemble(model *vehicle.Model, sessions []Session, metrics func() []Metric) *Ensemble {
	return &Ensemble{model: model, sessions: sessions, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.sessions))
	errs := make([]error, len(e.sessions))

	var wg sync.WaitGroup
	for i, sess := range e.sessions {
		wg.Add(1)
		go func(idx int, sess Session) {
			defer wg.Done()

			s := New(e.model.Clone(), sess.Controller)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, sess.Initial, sess.Config)
		}(i, sess)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
