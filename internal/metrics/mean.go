package metrics

import "math"

// MeanDeviation is the largest distance between a coordinate mean and 1/2.
type MeanDeviation struct {
	name    string
	sums    []float64
	samples uint64
}

func NewMeanDeviation(dim int) *MeanDeviation {
	return &MeanDeviation{
		name: "mean_deviation",
		sums: make([]float64, dim),
	}
}

func (m *MeanDeviation) Name() string { return m.name }

func (m *MeanDeviation) Observe(_ uint64, p []float64) {
	for j := range m.sums {
		m.sums[j] += p[j]
	}
	m.samples++
}

func (m *MeanDeviation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	var worst float64
	for _, s := range m.sums {
		worst = math.Max(worst, math.Abs(s/float64(m.samples)-0.5))
	}
	return worst
}

func (m *MeanDeviation) Reset() {
	clear(m.sums)
	m.samples = 0
}
