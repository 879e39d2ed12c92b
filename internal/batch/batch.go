// Package batch renders scripted sequences of point sets into a store.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/latnet/internal/config"
	"github.com/san-kum/latnet/internal/generator"
	"github.com/san-kum/latnet/internal/logging"
	"github.com/san-kum/latnet/internal/metrics"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/store"
)

var ErrInvalidJob = errors.New("batch: invalid job")

// Scenario is a named list of jobs run in order.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Jobs        []Job  `yaml:"jobs"`

	dir string
}

// Job selects a point set through exactly one of Preset, Config (a file
// path, relative to the scenario) or an inline Definition.
type Job struct {
	Name       string                `yaml:"name"`
	Preset     string                `yaml:"preset,omitempty"`
	Config     string                `yaml:"config,omitempty"`
	Definition *generator.Definition `yaml:"definition,omitempty"`

	// Levels renders one run per embedded level instead of the full set.
	Levels  []uint `yaml:"levels,omitempty"`
	Codec   string `yaml:"codec,omitempty"`
	Metrics bool   `yaml:"metrics"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Jobs) == 0 {
		return nil, fmt.Errorf("scenario %q has no jobs: %w", sc.Name, ErrInvalidJob)
	}
	for i, job := range sc.Jobs {
		sources := 0
		for _, set := range []bool{job.Preset != "", job.Config != "", job.Definition != nil} {
			if set {
				sources++
			}
		}
		if sources != 1 {
			return nil, fmt.Errorf("job %d (%s): need exactly one of preset, config, definition: %w", i+1, job.Name, ErrInvalidJob)
		}
	}
	return &sc, nil
}

// Runner builds point sets and saves them.
type Runner struct {
	builder *generator.Builder
	store   *store.Store
	log     *logging.Logger
}

func NewRunner(b *generator.Builder, st *store.Store, log *logging.Logger) *Runner {
	if b == nil {
		b = generator.NewBuilder(nil, log)
	}
	return &Runner{builder: b, store: st, log: logging.OrNoop(log)}
}

// Resolve turns a job into a validated config.
func (r *Runner) Resolve(job Job, dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case job.Preset != "":
		cfg, err = config.Lookup(job.Preset)
	case job.Config != "":
		path := job.Config
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		cfg, err = config.Load(path)
	case job.Definition != nil:
		cfg = config.DefaultConfig()
		cfg.Definition = *job.Definition
	default:
		err = ErrInvalidJob
	}
	if err != nil {
		return nil, err
	}

	if job.Name != "" {
		cfg.Name = job.Name
	}
	if job.Codec != "" {
		cfg.Output.Codec = job.Codec
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Render builds the set described by cfg, truncates it to cfg.Level and
// saves it, with quality metrics when withMetrics is set.
func (r *Runner) Render(ctx context.Context, cfg *config.Config, withMetrics bool) (*store.RunMetadata, error) {
	ps, err := r.builder.Build(ctx, &cfg.Definition)
	if err != nil {
		return nil, err
	}
	if ps, err = cfg.Truncated(ps); err != nil {
		return nil, err
	}
	if err := pointset.CheckLimit(ps, cfg.MaxPoints); err != nil {
		r.log.LogLargeSet(ctx, pointset.FormatCount(ps.Len()), pointset.FormatCount(cfg.MaxPoints))
		return nil, err
	}

	codec, err := store.ParseCodec(cfg.Output.Codec)
	if err != nil {
		return nil, err
	}

	meta := store.RunMetadata{
		Name:       cfg.Name,
		Definition: cfg.Definition,
		Level:      cfg.Level,
	}
	if withMetrics {
		results, err := metrics.Evaluate(ctx, ps, metrics.Default(ps.Len(), ps.Dimension())...)
		if err != nil {
			return nil, err
		}
		meta.Metrics = make(map[string]float64, len(results))
		for _, res := range results {
			meta.Metrics[res.Name] = res.Value
		}
	}

	return r.store.Save(ctx, meta, ps, store.SaveOptions{Codec: codec, Precision: cfg.Output.Precision})
}

// Run executes every job in order and returns the saved runs. It stops at
// the first failing job, returning the runs saved so far.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]store.RunMetadata, error) {
	runs := make([]store.RunMetadata, 0, len(sc.Jobs))
	start := time.Now()

	for i, job := range sc.Jobs {
		r.log.InfoContext(ctx, "running job",
			"scenario", sc.Name,
			"job", job.Name,
			"step", strconv.Itoa(i+1)+"/"+strconv.Itoa(len(sc.Jobs)),
		)

		cfg, err := r.Resolve(job, sc.dir)
		if err != nil {
			return runs, fmt.Errorf("job %d (%s): %w", i+1, job.Name, err)
		}

		if len(job.Levels) == 0 {
			meta, err := r.Render(ctx, cfg, job.Metrics)
			if err != nil {
				return runs, fmt.Errorf("job %d (%s): %w", i+1, job.Name, err)
			}
			runs = append(runs, *meta)
			continue
		}

		for _, level := range job.Levels {
			lvlCfg := *cfg
			lvl := level
			lvlCfg.Level = &lvl
			lvlCfg.Name = fmt.Sprintf("%s@%d", cfg.Name, level)
			if err := lvlCfg.Validate(); err != nil {
				return runs, fmt.Errorf("job %d (%s): %w", i+1, job.Name, err)
			}
			meta, err := r.Render(ctx, &lvlCfg, job.Metrics)
			if err != nil {
				return runs, fmt.Errorf("job %d (%s) level %d: %w", i+1, job.Name, level, err)
			}
			runs = append(runs, *meta)
		}
	}

	r.log.InfoContext(ctx, "scenario complete",
		"scenario", sc.Name,
		"runs", len(runs),
		"elapsed", time.Since(start),
	)
	return runs, nil
}
