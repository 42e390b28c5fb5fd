// Package storage persists recorded telemetry runs as a directory per run
// holding metadata.json and telemetry.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Nedas-Jaronis/PhysicsVisualizer-sub000/internal/sim"
)

var ErrNotFound = errors.New("storage: run not found")

var telemetryHeader = []string{"elapsed_time", "position_x", "position_y", "velocity_x", "velocity_y"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Scenario    string    `json:"scenario"`
	Timestamp   time.Time `json:"timestamp"`
	Primary     string    `json:"primary"`
	Mass        float64   `json:"mass,omitempty"`
	TimeScale   float64   `json:"time_scale"`
	Scale       float64   `json:"scale"`
	Duration    float64   `json:"duration"`
	Samples     int       `json:"samples"`
	Bodies      int       `json:"bodies"`
	Constraints int       `json:"constraints"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
}

// Run is one recorded telemetry series.
type Run struct {
	Meta    RunMetadata
	Samples []sim.Telemetry
}

// Save writes run under a new id derived from the scenario name and the
// current time, and returns the id.
func (s *Store) Save(run Run) (string, error) {
	name := sanitize(run.Meta.Scenario)
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", name, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = ts
	meta.Samples = len(run.Samples)
	if n := len(run.Samples); n > 0 {
		meta.Duration = run.Samples[n-1].ElapsedTime
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeTelemetry(filepath.Join(runDir, "telemetry.csv"), run.Samples); err != nil {
		return "", err
	}
	return runID, nil
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

func writeTelemetry(path string, samples []sim.Telemetry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(telemetryHeader); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, t := range samples {
		row := []string{format(t.ElapsedTime), format(t.PositionX), format(t.PositionY), format(t.VelocityX), format(t.VelocityY)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, newest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTelemetry reads the samples of a run. Malformed rows are skipped.
func (s *Store) LoadTelemetry(runID string) ([]sim.Telemetry, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Telemetry{}, nil
	}

	samples := make([]sim.Telemetry, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(telemetryHeader) {
			continue
		}
		var vals [5]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		samples = append(samples, sim.Telemetry{
			ElapsedTime: vals[0],
			PositionX:   vals[1],
			PositionY:   vals[2],
			VelocityX:   vals[3],
			VelocityY:   vals[4],
		})
	}
	return samples, nil
}

func sanitize(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." || strings.Trim(name, "_") == "" {
		return "run"
	}
	return name
}
