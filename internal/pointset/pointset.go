package pointset

import "iter"

// PointSet is a finite, restartable sequence of points in [0,1)^Dimension.
// Implementations are immutable and safe for concurrent use.
type PointSet interface {
	// Len is the number of points.
	Len() uint64
	// Dimension is the number of coordinates of each point.
	Dimension() int
	// Point writes point i into dst (grown if short) and returns it.
	// i must be below Len.
	Point(i uint64, dst []float64) []float64
	// Coordinate yields coordinate j of every point in index order.
	Coordinate(j int) iter.Seq[float64]
	// Truncate returns the coarser set of the given level.
	Truncate(level uint) (PointSet, error)
}

// All yields every point of ps with its index. The yielded slice is reused
// between iterations.
func All(ps PointSet) iter.Seq2[uint64, []float64] {
	return func(yield func(uint64, []float64) bool) {
		buf := make([]float64, ps.Dimension())
		for i := uint64(0); i < ps.Len(); i++ {
			buf = ps.Point(i, buf)
			if !yield(i, buf) {
				return
			}
		}
	}
}

func grow(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}
	return dst[:n]
}
