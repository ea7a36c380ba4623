package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cartwin/internal/vehicle"
)

const (
	DefaultListLimit = 50
	metricsWindow    = 100
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is a point-in-time copy of the dashboard readings.
type Snapshot struct {
	ID            string       `json:"id"`
	EngineRunning bool         `json:"engineRunning"`
	CurrentGear   vehicle.Gear `json:"currentGear"`
	Speed         float64      `json:"speed"`
	RPM           float64      `json:"rpm"`
	Temperature   float64      `json:"temperature"`
	Fuel          float64      `json:"fuel"`
	Mileage       float64      `json:"mileage"`
	Timestamp     time.Time    `json:"timestamp"`
	SessionID     string       `json:"sessionId"`
}

func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", s.ID),
		slog.String("session", s.SessionID),
		slog.String("gear", string(s.CurrentGear)),
		slog.Float64("speed", s.Speed),
		slog.Float64("rpm", s.RPM),
	)
}

type Query struct {
	SessionID string
	Limit     int
}

// SnapshotMetrics aggregates the most recent snapshots.
type SnapshotMetrics struct {
	TotalSimulations        int       `json:"totalSimulations"`
	UniqueSessions          int       `json:"uniqueSessions"`
	AverageSpeed            float64   `json:"averageSpeed"`
	AverageRPM              float64   `json:"averageRPM"`
	AverageTemperature      float64   `json:"averageTemperature"`
	AverageMileage          float64   `json:"averageMileage"`
	EngineRunningPercentage float64   `json:"engineRunningPercentage"`
	LastUpdated             time.Time `json:"lastUpdated"`
}

// SnapshotStore keeps one JSON file per snapshot. Safe for concurrent use.
type SnapshotStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &SnapshotStore{dir: dir, now: time.Now}, nil
}

// Save assigns a fresh ID and fills zero fields with defaults: gear P,
// temperature 85, fuel 60, the current time and a new session.
func (s *SnapshotStore) Save(snap Snapshot) (Snapshot, error) {
	snap.ID = uuid.NewString()
	if snap.CurrentGear == "" {
		snap.CurrentGear = vehicle.GearPark
	}
	if snap.Temperature == 0 {
		snap.Temperature = 85
	}
	if snap.Fuel == 0 {
		snap.Fuel = 60
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = s.now()
	}
	if snap.SessionID == "" {
		snap.SessionID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.path(snap.ID), snap); err != nil {
		return Snapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}
	return snap, nil
}

// List returns snapshots newest first, optionally for one session. A
// non-positive limit means DefaultListLimit.
func (s *SnapshotStore) List(q Query) ([]Snapshot, error) {
	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	out := make([]Snapshot, 0, min(limit, len(all)))
	for _, snap := range all {
		if q.SessionID != "" && snap.SessionID != q.SessionID {
			continue
		}
		out = append(out, snap)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *SnapshotStore) Get(id string) (Snapshot, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrSnapshotNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return snap, nil
}

// Metrics counts every stored snapshot and averages the 100 most recent.
func (s *SnapshotStore) Metrics() (SnapshotMetrics, error) {
	all, err := s.loadAll()
	if err != nil {
		return SnapshotMetrics{}, err
	}

	sessions := make(map[string]struct{}, len(all))
	for _, snap := range all {
		sessions[snap.SessionID] = struct{}{}
	}

	m := SnapshotMetrics{
		TotalSimulations:   len(all),
		UniqueSessions:     len(sessions),
		AverageTemperature: 85,
		LastUpdated:        s.now(),
	}

	recent := all[:min(metricsWindow, len(all))]
	if len(recent) == 0 {
		return m, nil
	}

	speed := make([]float64, len(recent))
	rpm := make([]float64, len(recent))
	temp := make([]float64, len(recent))
	mileage := make([]float64, len(recent))
	running := 0
	for i, snap := range recent {
		speed[i] = snap.Speed
		rpm[i] = snap.RPM
		temp[i] = snap.Temperature
		if temp[i] == 0 {
			temp[i] = 85
		}
		mileage[i] = snap.Mileage
		if snap.EngineRunning {
			running++
		}
	}

	m.AverageSpeed = round2(stat.Mean(speed, nil))
	m.AverageRPM = math.Round(stat.Mean(rpm, nil))
	m.AverageTemperature = round2(stat.Mean(temp, nil))
	m.AverageMileage = round2(stat.Mean(mileage, nil))
	m.EngineRunningPercentage = round2(float64(running) / float64(len(recent)) * 100)
	return m, nil
}

// loadAll returns every readable snapshot, newest first.
func (s *SnapshotStore) loadAll() ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Snapshot{}, nil
		}
		return nil, err
	}

	out := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		out = append(out, snap)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *SnapshotStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
