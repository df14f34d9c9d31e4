package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/springlab/internal/solver"
)

type ExportData struct {
	Scene     string             `json:"scene"`
	Solver    string             `json:"solver"`
	Device    string             `json:"device"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Positions [][]float64        `json:"positions"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *solver.Result) error {
	data := ExportData{
		Scene:     meta.Scene,
		Solver:    meta.Solver,
		Device:    meta.Device,
		Dt:        meta.Dt,
		Duration:  meta.Duration,
		Steps:     result.StepsTaken,
		Times:     result.Times,
		Positions: result.Positions,
		Metrics:   result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportFile is ExportJSON to a path.
func ExportFile(path string, meta *RunMetadata, result *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, result)
}
