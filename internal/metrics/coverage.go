package metrics

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Coverage splits [0,1) into equal bins and reports, over all coordinates,
// the smallest fraction of bins hit. Every one-dimensional projection of a
// (0,m,1)-net with 2^m points and 2^m bins scores 1.
type Coverage struct {
	name string
	bins uint64
	hit  []*bitset.BitSet
}

func NewCoverage(dim int, bins uint64) *Coverage {
	c := &Coverage{
		name: "coverage",
		bins: max(bins, 1),
		hit:  make([]*bitset.BitSet, dim),
	}
	for j := range c.hit {
		c.hit[j] = bitset.New(uint(c.bins))
	}
	return c
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(_ uint64, p []float64) {
	for j, h := range c.hit {
		bin := uint64(math.Floor(p[j] * float64(c.bins)))
		if bin >= c.bins {
			bin = c.bins - 1
		}
		h.Set(uint(bin))
	}
}

func (c *Coverage) Value() float64 {
	if len(c.hit) == 0 {
		return 0
	}
	worst := 1.0
	for _, h := range c.hit {
		worst = math.Min(worst, float64(h.Count())/float64(c.bins))
	}
	return worst
}

func (c *Coverage) Reset() {
	for _, h := range c.hit {
		h.ClearAll()
	}
}
