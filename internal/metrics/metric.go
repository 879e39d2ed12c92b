// Package metrics holds observers that summarize how evenly a point set
// fills the unit cube.
package metrics

import (
	"context"

	"github.com/san-kum/latnet/internal/pointset"
)

// Metric observes points one at a time.
type Metric interface {
	Name() string
	Observe(i uint64, p []float64)
	Value() float64
	Reset()
}

type Result struct {
	Name  string
	Value float64
}

// Evaluate streams every point of ps through the metrics, after resetting
// them.
func Evaluate(ctx context.Context, ps pointset.PointSet, ms ...Metric) ([]Result, error) {
	for _, m := range ms {
		m.Reset()
	}
	for i, p := range pointset.All(ps) {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, m := range ms {
			m.Observe(i, p)
		}
	}
	out := make([]Result, len(ms))
	for k, m := range ms {
		out[k] = Result{Name: m.Name(), Value: m.Value()}
	}
	return out, nil
}

// Default returns the metrics suited to a set of n points in dim
// coordinates. The quadratic L2-star discrepancy is only included for
// small sets.
func Default(n uint64, dim int) []Metric {
	ms := []Metric{NewMeanDeviation(dim), NewCoverage(dim, n)}
	if n <= MaxL2StarPoints {
		ms = append(ms, NewL2Star(dim))
	}
	return ms
}
