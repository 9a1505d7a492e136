package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
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
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FrameDt   float64            `json:"frame_dt"`
	FixedDt   float64            `json:"fixed_dt"`
	Jitter    float64            `json:"jitter"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Substeps  uint64             `json:"substeps"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and states.csv under a new run directory and
// returns the run ID. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%s", meta.Scene, now.Format("20060102-150405.000000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.StepsTaken
	meta.Substeps = result.Substeps
	meta.Metrics = result.Metrics
	if len(result.Frames) > 0 && meta.Bodies == nil {
		for _, b := range result.Frames[0].Bodies {
			meta.Bodies = append(meta.Bodies, bodyLabel(b))
		}
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteStates(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

var stateFields = []string{"x", "y", "z", "qw", "qx", "qy", "qz", "vx", "vy", "vz", "wx", "wy", "wz"}

func bodyLabel(b sim.BodyState) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("body%d", b.ID)
}

// Header returns the CSV column names for a frame layout: time followed by
// <body>_<field> for every body.
func Header(f sim.Frame) []string {
	header := []string{"time"}
	for _, b := range f.Bodies {
		label := bodyLabel(b)
		for _, field := range stateFields {
			header = append(header, label+"_"+field)
		}
	}
	return header
}

// WriteStates writes one CSV row per frame.
func WriteStates(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if len(result.Frames) == 0 {
		w.Flush()
		return w.Error()
	}

	if err := w.Write(Header(result.Frames[0])); err != nil {
		return err
	}

	for _, f := range result.Frames {
		row := []string{strconv.FormatFloat(f.Time, 'f', 6, 64)}
		for _, b := range f.Bodies {
			vals := make([]float64, 0, len(stateFields))
			vals = append(vals, b.Position[:]...)
			vals = append(vals, b.Orientation[:]...)
			vals = append(vals, b.Linear[:]...)
			vals = append(vals, b.Angular[:]...)
			for _, val := range vals {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads states.csv back as its header, the time column and the
// remaining columns per row.
func (s *Store) LoadStates(runID string) ([]string, []float64, [][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	if len(records) < 2 {
		return []string{}, []float64{}, [][]float64{}, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return header, times, states, nil
}

// CSVPath returns the location of a run's states file.
func (s *Store) CSVPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "states.csv")
}

// LoadResult rebuilds a run's frames from states.csv. Body names come from
// the column labels; IDs follow column order starting at 1.
func (s *Store) LoadResult(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	header, times, rows, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}

	n := len(stateFields)
	var labels []string
	for i := 1; i+n <= len(header); i += n {
		labels = append(labels, strings.TrimSuffix(header[i], "_"+stateFields[0]))
	}

	result := &sim.Result{
		Frames:     make([]sim.Frame, 0, len(rows)),
		Metrics:    meta.Metrics,
		StepsTaken: meta.Frames,
		Substeps:   meta.Substeps,
	}
	for i, row := range rows {
		f := sim.Frame{Index: i, Time: times[i], Bodies: make([]sim.BodyState, 0, len(labels))}
		for j, label := range labels {
			if (j+1)*n > len(row) {
				return nil, fmt.Errorf("run %s: row %d is short", runID, i)
			}
			v := row[j*n : (j+1)*n]
			f.Bodies = append(f.Bodies, sim.BodyState{
				ID:          physics.BodyID(j + 1),
				Name:        label,
				Position:    mgl64.Vec3{v[0], v[1], v[2]},
				Orientation: [4]float64{v[3], v[4], v[5], v[6]},
				Linear:      mgl64.Vec3{v[7], v[8], v[9]},
				Angular:     mgl64.Vec3{v[10], v[11], v[12]},
			})
		}
		result.Frames = append(result.Frames, f)
	}
	if n := len(result.Frames); n > 0 {
		result.SimTime = result.Frames[n-1].Time
	}
	return result, nil
}
