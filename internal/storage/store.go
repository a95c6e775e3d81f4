package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/rollout/internal/dynamo"
	"github.com/san-kum/rollout/internal/rollout"
)

// Store persists rollout results on the filesystem, one directory per
// run holding metadata.json and trajectory.csv.
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
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
	H          float64   `json:"h"`
	Dh         float64   `json:"dh"`
	Steps      int       `json:"steps"`
	Integrator string    `json:"integrator"`
}

func (s *Store) Save(model, integrator string, h, dh float64, controls []dynamo.Control, result *rollout.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      model,
		Timestamp:  time.Now(),
		H:          h,
		Dh:         dh,
		Steps:      len(controls),
		Integrator: integrator,
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

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}

	numControls := 0
	if len(controls) > 0 {
		numControls = len(controls[0])
		for i := 0; i < numControls; i++ {
			header = append(header, fmt.Sprintf("u%d", i))
		}
	}

	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}

		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}

		// The final state has no control applied after it; pad with
		// zeros to keep rows rectangular.
		if i < len(controls) {
			for _, val := range controls[i] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		} else {
			for j := 0; j < numControls; j++ {
				row = append(row, "0")
			}
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

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

// LoadTrajectory reads a run back, splitting columns by the header Save
// wrote: x-prefixed columns are state, u-prefixed columns are control.
// Controls has one row per applied control; the zero padding Save writes
// on the final state row is dropped.
func (s *Store) LoadTrajectory(runID string) ([][]float64, [][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
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
		return [][]float64{}, [][]float64{}, []float64{}, nil
	}

	header := records[0]
	stateCols := 0
	controlCols := 0
	for _, name := range header[1:] {
		if strings.HasPrefix(name, "u") {
			controlCols++
		} else {
			stateCols++
		}
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)
	controls := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 1+stateCols+controlCols {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state, err := parseFloats(record[1 : 1+stateCols])
		if err != nil {
			continue
		}

		times = append(times, t)
		states = append(states, state)

		if controlCols > 0 {
			control, err := parseFloats(record[1+stateCols : 1+stateCols+controlCols])
			if err == nil {
				controls = append(controls, control)
			}
		}
	}

	// The final row's control columns are padding, not an applied control.
	if len(controls) > 0 && len(controls) == len(states) {
		controls = controls[:len(controls)-1]
	}

	return states, controls, times, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}
