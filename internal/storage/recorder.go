package storage

import (
	"log/slog"
	"time"

	"github.com/san-kum/cartwin/internal/telemetry"
	"github.com/san-kum/cartwin/internal/vehicle"
)

// Recorder saves a snapshot every Interval seconds of simulated time while
// the engine runs. Save failures are logged and never interrupt a run.
type Recorder struct {
	store     *SnapshotStore
	interval  float64
	sessionID string
	start     time.Time
	last      float64
	saved     int
	failed    int
	logger    *slog.Logger
}

func NewRecorder(store *SnapshotStore, interval float64, sessionID string, start time.Time, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:     store,
		interval:  interval,
		sessionID: sessionID,
		start:     start,
		logger:    logger,
	}
}

func (r *Recorder) OnStep(st vehicle.State, out vehicle.Output, rep telemetry.Report, t float64) {
	if r.store == nil || r.interval <= 0 || !st.EngineRunning {
		return
	}
	if t < r.last {
		r.last = 0
	}
	if t-r.last < r.interval {
		return
	}
	r.last = t

	snap, err := r.store.Save(Snapshot{
		EngineRunning: st.EngineRunning,
		CurrentGear:   st.Gear,
		Speed:         st.Speed,
		RPM:           st.RPM,
		Temperature:   st.Temperature,
		Fuel:          st.Fuel,
		Mileage:       out.Mileage,
		Timestamp:     r.start.Add(time.Duration(t * float64(time.Second))),
		SessionID:     r.sessionID,
	})
	if err != nil {
		r.failed++
		r.logger.Warn("snapshot failed", slog.Float64("t", t), slog.Any("error", err))
		return
	}
	r.saved++
	r.logger.Debug("snapshot saved", slog.Any("snapshot", snap))
}

// Saved reports how many snapshots were written.
func (r *Recorder) Saved() int { return r.saved }

func (r *Recorder) Failed() int { return r.failed }
