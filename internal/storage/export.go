package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/dynamo"
)

type ExportData struct {
	Name       string             `json:"name"`
	Nx         int                `json:"nx"`
	Ny         int                `json:"ny"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	MeanHeight []float64          `json:"mean_height"`
	Indices    []int              `json:"indices"`
	Frames     [][][3]float64     `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(cfg *config.Config, result *dynamo.Result) ExportData {
	data := ExportData{
		Name:       cfg.Name,
		Nx:         cfg.Cloth.Nx,
		Ny:         cfg.Cloth.Ny,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      result.StepsTaken,
		Times:      result.Times,
		MeanHeight: result.MeanHeight,
		Indices:    cloth.NewVertexBuffer(cfg.Cloth.Nx, cfg.Cloth.Ny).Triangles(),
		Frames:     make([][][3]float64, len(result.Snapshots)),
		Metrics:    result.Metrics,
	}

	for i, snap := range result.Snapshots {
		frame := make([][3]float64, len(snap))
		for j, p := range snap {
			frame[j] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Frames[i] = frame
	}

	return data
}

// WriteJSON encodes a run with its triangle indices so the frames can be
// replayed as a mesh.
func WriteJSON(w io.Writer, cfg *config.Config, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(cfg, result))
}

func ExportJSON(path string, cfg *config.Config, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *dynamo.Result) error {
	return WriteJSON(os.Stdout, cfg, result)
}
