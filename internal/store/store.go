// Package store keeps rendered point sets on disk, one directory per run
// holding metadata.json and a points.csv file, optionally compressed.
package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/logging"
	"github.com/san-kum/latnet/internal/pointset"
)

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"

	checkEvery = 4096
)

var ErrRunNotFound = errors.New("store: run not found")

type Store struct {
	baseDir string
	log     *logging.Logger
}

// New returns a store rooted at baseDir. A nil logger discards output.
func New(baseDir string, log *logging.Logger) *Store {
	return &Store{baseDir: baseDir, log: logging.OrNoop(log)}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Timestamp  time.Time            `json:"timestamp"`
	Definition generator.Definition `json:"definition"`
	Level      *uint                `json:"level,omitempty"`
	Points     uint64               `json:"points"`
	Dimension  int                  `json:"dimension"`
	Codec      Codec                `json:"codec"`
	Precision  int                  `json:"precision"`
	Metrics    map[string]float64   `json:"metrics,omitempty"`
}

// SaveOptions control how points are written.
type SaveOptions struct {
	Codec Codec
	// Precision is the number of significant digits; 0 means the shortest
	// representation that round-trips.
	Precision int
}

// Save writes ps under a fresh run ID and returns the stored metadata.
// Points are streamed; the set is never held in memory.
func (s *Store) Save(ctx context.Context, meta RunMetadata, ps pointset.PointSet, opts SaveOptions) (*RunMetadata, error) {
	if opts.Codec == "" {
		opts.Codec = CodecNone
	}
	if _, err := ParseCodec(string(opts.Codec)); err != nil {
		return nil, err
	}

	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now().UTC()
	meta.Points = ps.Len()
	meta.Dimension = ps.Dimension()
	meta.Codec = opts.Codec
	meta.Precision = opts.Precision

	log := s.log.WithRun(meta.ID)
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	start := time.Now()
	if err := s.writePoints(ctx, filepath.Join(runDir, pointsFile+opts.Codec.Ext()), ps, opts); err != nil {
		os.RemoveAll(runDir)
		return nil, fmt.Errorf("write points: %w", err)
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	log.InfoContext(ctx, "run saved",
		"name", meta.Name,
		"points", pointset.FormatCount(meta.Points),
		"codec", meta.Codec,
		"elapsed", time.Since(start),
	)
	return &meta, nil
}

func (s *Store) writePoints(ctx context.Context, path string, ps pointset.PointSet, opts SaveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw, err := opts.Codec.NewWriter(f)
	if err != nil {
		return err
	}
	if err := WriteCSV(ctx, cw, ps, opts.Precision); err != nil {
		cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV streams ps as CSV with a header row "x1,...,xd".
func WriteCSV(ctx context.Context, w io.Writer, ps pointset.PointSet, precision int) error {
	if precision <= 0 {
		precision = -1
	}
	cw := csv.NewWriter(w)

	dim := ps.Dimension()
	header := make([]string, dim)
	for j := range header {
		header[j] = "x" + strconv.Itoa(j+1)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, dim)
	for i, p := range pointset.All(ps) {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, v := range p {
			row[j] = strconv.FormatFloat(v, 'g', precision, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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
			s.log.Debug("skipping run directory", "dir", entry.Name(), "error", err)
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
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%q: %w", runID, ErrRunNotFound)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadPoints decodes the stored points of a run.
func (s *Store) LoadPoints(runID string) ([][]float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, pointsFile+meta.Codec.Ext()))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := meta.Codec.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadCSV(r, meta.Dimension)
}

// ReadCSV parses points written by WriteCSV.
func ReadCSV(r io.Reader, dim int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = dim
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return [][]float64{}, nil
		}
		return nil, fmt.Errorf("header: %w", err)
	}

	points := make([][]float64, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p := make([]float64, dim)
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("point %d coordinate %d: %w", len(points), j+1, err)
			}
			p[j] = v
		}
		points = append(points, p)
	}
	return points, nil
}
