package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	configFile   = "config.yaml"
)

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
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Nx          int                `json:"nx"`
	Ny          int                `json:"ny"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	SampleEvery int                `json:"sample_every"`
	Iterations  int                `json:"iterations"`
	Steps       int                `json:"steps"`
	Samples     int                `json:"samples"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run as <id>/metadata.json, <id>/config.yaml and
// <id>/frames.csv. Each frames row is time, mean_height, then x,y,z for every
// vertex in buffer order.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        cfg.Name,
		Timestamp:   now,
		Nx:          cfg.Cloth.Nx,
		Ny:          cfg.Cloth.Ny,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		SampleEvery: cfg.SampleEvery,
		Iterations:  cfg.Physics.Iterations,
		Steps:       result.StepsTaken,
		Samples:     len(result.Times),
		Metrics:     result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeFrames(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(result.Snapshots) == 0 {
		w.Flush()
		return w.Error()
	}

	header := []string{"time", "mean_height"}
	for i := range result.Snapshots[0] {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for i, snap := range result.Snapshots {
		row = row[:0]
		row = append(row, formatFloat(result.Times[i]), formatFloat(result.MeanHeight[i]))
		for _, p := range snap {
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadFrames reads frames.csv back into a Result carrying the sampled times,
// mean heights and vertex snapshots of the run.
func (s *Store) LoadFrames(runID string) (*dynamo.Result, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &dynamo.Result{Metrics: map[string]float64{}}
	if len(records) < 2 {
		return result, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 || (len(record)-2)%3 != 0 {
			return nil, fmt.Errorf("%s row %d: %d fields: %w", framesFile, i, len(record), dynamo.ErrDimensionMismatch)
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", framesFile, i, err)
			}
			vals[j] = v
		}

		snap := make([]r3.Vec, 0, (len(vals)-2)/3)
		for j := 2; j < len(vals); j += 3 {
			snap = append(snap, r3.Vec{X: vals[j], Y: vals[j+1], Z: vals[j+2]})
		}

		result.Times = append(result.Times, vals[0])
		result.MeanHeight = append(result.MeanHeight, vals[1])
		result.Snapshots = append(result.Snapshots, snap)
	}

	if meta, err := s.Load(runID); err == nil {
		result.StepsTaken = meta.Steps
		for k, v := range meta.Metrics {
			result.Metrics[k] = v
		}
	}

	return result, nil
}
