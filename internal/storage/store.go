package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/cartwin/internal/sim"
	"github.com/san-kum/cartwin/internal/telemetry"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	SessionID  string                   `json:"sessionId"`
	Driver     string                   `json:"driver"`
	Mode       string                   `json:"mode"`
	Timestamp  time.Time                `json:"timestamp"`
	Dt         float64                  `json:"dt"`
	Duration   float64                  `json:"duration"`
	Steps      int                      `json:"steps"`
	Efficiency int                      `json:"efficiency"`
	Metrics    map[string]float64       `json:"metrics"`
	History    telemetry.HistorySummary `json:"history"`
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Name      string
	SessionID string
	Driver    string
	Mode      string
	Dt        float64
	Duration  float64
}

// Save writes metadata.json and telemetry.csv under a new run directory.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sanitize(info.Name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       info.Name,
		SessionID:  info.SessionID,
		Driver:     info.Driver,
		Mode:       info.Mode,
		Timestamp:  now,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Steps:      result.StepsTaken,
		Efficiency: result.Report.Efficiency,
		Metrics:    result.Metrics,
		History:    result.History,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", fmt.Errorf("creating telemetry.csv: %w", err)
	}
	defer csvFile.Close()

	if len(result.Samples) == 0 {
		return runID, nil
	}
	if err := gocsv.Marshal(result.Samples, csvFile); err != nil {
		return "", fmt.Errorf("writing telemetry: %w", err)
	}

	return runID, nil
}

// List returns saved runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	samples := []sim.Sample{}
	if info.Size() == 0 {
		return samples, nil
	}
	if err := gocsv.UnmarshalFile(file, &samples); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return samples, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sanitize(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}
