package ui

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// Histogram counts values of [0,1) into bins equal-width bins.
func Histogram(values []float64, bins int) []float64 {
	counts := make([]float64, bins)
	for _, v := range values {
		k := int(v * float64(bins))
		counts[min(max(k, 0), bins-1)]++
	}
	return counts
}

// HistogramPlot draws the bin counts of one coordinate as a line chart.
func HistogramPlot(values []float64, bins int, caption string) string {
	if len(values) == 0 || bins < 2 {
		return ""
	}
	return asciigraph.Plot(Histogram(values, bins),
		asciigraph.Height(8),
		asciigraph.Width(max(bins, 40)),
		asciigraph.Caption(fmt.Sprintf("%s (%d bins)", caption, bins)),
	)
}
