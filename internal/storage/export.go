package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rigidsim/internal/sim"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	FrameDt  float64            `json:"frame_dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Frames   []sim.Frame        `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes the full frame history as indented JSON.
func ExportJSON(out io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Scene:    meta.Scene,
		FrameDt:  meta.FrameDt,
		Duration: meta.Duration,
		Steps:    len(result.Frames),
		Frames:   result.Frames,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile is ExportJSON to a new file at path.
func ExportJSONFile(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, result)
}
