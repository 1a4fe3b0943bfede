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
	"time"

	"github.com/san-kum/rigidsim/internal/sim"
)

// ErrMalformed indicates a bodies.csv row that could not be parsed.
var ErrMalformed = errors.New("storage: malformed sample row")

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
	ID              string             `json:"id"`
	Scene           string             `json:"scene"`
	Timestamp       time.Time          `json:"timestamp"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	Preset          string             `json:"preset"`
	Frames          int                `json:"frames"`
	SubSteps        int                `json:"substeps"`
	Collisions      int                `json:"collisions"`
	SaturatedFrames int                `json:"saturated_frames"`
	Grabs           int                `json:"grabs"`
	Metrics         map[string]float64 `json:"metrics"`
}

var sampleHeader = []string{"time", "body", "x", "y", "angle", "vx", "vy"}

// Save writes result into a new run directory and returns its id.
func (s *Store) Save(scene, preset string, cfg sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", scene, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; exists(runDir); n++ {
		runID = fmt.Sprintf("%s_%d_%d", scene, now.Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Scene:           scene,
		Timestamp:       now,
		Dt:              cfg.Dt,
		Duration:        cfg.Duration,
		Preset:          preset,
		Frames:          result.Frames,
		SubSteps:        result.SubSteps,
		Collisions:      result.Collisions,
		SaturatedFrames: result.SaturatedFrames,
		Grabs:           result.Grabs,
		Metrics:         result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "bodies.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, smp := range result.Samples {
		row := []string{
			formatFloat(smp.Time),
			smp.Body,
			formatFloat(smp.X),
			formatFloat(smp.Y),
			formatFloat(smp.Angle),
			formatFloat(smp.VX),
			formatFloat(smp.VY),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "bodies.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(sampleHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [6]float64
		for j, idx := range []int{0, 2, 3, 4, 5, 6} {
			v, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s", ErrMalformed, i+2, sampleHeader[idx])
			}
			vals[j] = v
		}
		samples = append(samples, sim.Sample{
			Time:  vals[0],
			Body:  record[1],
			X:     vals[1],
			Y:     vals[2],
			Angle: vals[3],
			VX:    vals[4],
			VY:    vals[5],
		})
	}

	return samples, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
