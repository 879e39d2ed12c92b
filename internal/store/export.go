package store

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/latnet/internal/generator"
)

type ExportData struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name,omitempty"`
	Kind      generator.Kind     `json:"kind"`
	Dimension int                `json:"dimension"`
	Count     int                `json:"count"`
	Points    [][]float64        `json:"points"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func NewExportData(meta *RunMetadata, points [][]float64) ExportData {
	return ExportData{
		ID:        meta.ID,
		Name:      meta.Name,
		Kind:      meta.Definition.Kind,
		Dimension: meta.Dimension,
		Count:     len(points),
		Points:    points,
		Metrics:   meta.Metrics,
	}
}

func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a stored run with its points as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	points, err := s.LoadPoints(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, NewExportData(meta, points))
}

// ExportCSV copies the decompressed points file of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, pointsFile+meta.Codec.Ext()))
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := meta.Codec.NewReader(f)
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = io.Copy(w, r)
	return err
}
