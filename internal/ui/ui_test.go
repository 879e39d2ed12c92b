package ui

import (
	"strings"
	"testing"
)

func TestPlainWhenColorDisabled(t *testing.T) {
	SetColor(false)
	if got := Title("latnet"); got != "latnet" {
		t.Errorf("Title = %q", got)
	}
	if got := Panel("body"); got != "body" {
		t.Errorf("Panel = %q", got)
	}
}

func TestCanvasPlotCorners(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Plot(0, 0)
	c.Plot(0.99, 0.99)

	// bottom-left dot 7, top-right dot 4 of the last cell
	if c.Grid[0][0] != brailleBlank|0x40 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBlank|0x8 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
}

func TestScatter(t *testing.T) {
	out := Scatter([][]float64{{0, 0}, {0.5, 0.5}}, 0, 1, 4, 2)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 4 {
			t.Errorf("row width %d, want 4", n)
		}
	}
}

func TestHistogram(t *testing.T) {
	got := Histogram([]float64{0, 0.1, 0.5, 0.99, 1}, 2)
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("Histogram = %v", got)
	}
}

func TestSparkline(t *testing.T) {
	SetColor(false)
	if got := Sparkline([]float64{0, 1}); got != "▁█" {
		t.Errorf("Sparkline = %q", got)
	}
	if Sparkline(nil) != "" {
		t.Error("empty sparkline should be empty")
	}
}

func TestHistogramPlot(t *testing.T) {
	out := HistogramPlot([]float64{0.1, 0.3, 0.6, 0.9}, 4, "x1")
	if !strings.Contains(out, "x1 (4 bins)") {
		t.Errorf("missing caption in %q", out)
	}
}
