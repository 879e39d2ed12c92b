package pointset

import (
	"context"
	"fmt"
	"iter"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxPoints bounds eager evaluation when the caller sets no limit.
const DefaultMaxPoints = 1 << 20

const materializeChunk = 4096

// FormatCount renders a point count with thousands separators.
func FormatCount(n uint64) string {
	if n > math.MaxInt64 {
		return strconv.FormatUint(n, 10)
	}
	return humanize.Comma(int64(n))
}

// CheckLimit returns ErrTooManyPoints when ps has more than limit points.
func CheckLimit(ps PointSet, limit uint64) error {
	if n := ps.Len(); n > limit {
		return fmt.Errorf("%s points, limit %s: %w", FormatCount(n), FormatCount(limit), ErrTooManyPoints)
	}
	return nil
}

// Materialize evaluates every point of ps in parallel chunks. It refuses
// sets larger than limit.
func Materialize(ctx context.Context, ps PointSet, limit uint64) ([][]float64, error) {
	if err := CheckLimit(ps, limit); err != nil {
		return nil, err
	}
	n, dim := ps.Len(), ps.Dimension()
	flat := make([]float64, n*uint64(dim))
	out := make([][]float64, n)
	for i := range out {
		out[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}

	err := ParallelFor(ctx, n, materializeChunk, func(start, end uint64) {
		for i := start; i < end; i++ {
			ps.Point(i, out[i])
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelFor runs fn over [0, n) in chunks of at least minChunk indices,
// one goroutine per CPU. Cancellation is checked before each chunk.
func ParallelFor(ctx context.Context, n, minChunk uint64, fn func(start, end uint64)) error {
	workers := uint64(runtime.GOMAXPROCS(0))
	if n <= minChunk || workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	chunk := max(minChunk, n/(workers*4))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(int(workers))
	for start := uint64(0); start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}
	return g.Wait()
}

// Select yields the points whose indices are in the bitmap, in increasing
// index order.
func Select(ps PointSet, indices *roaring64.Bitmap) (iter.Seq2[uint64, []float64], error) {
	if !indices.IsEmpty() && indices.Maximum() >= ps.Len() {
		return nil, fmt.Errorf("index %d of %s points: %w", indices.Maximum(), FormatCount(ps.Len()), ErrIndexOutOfRange)
	}
	return func(yield func(uint64, []float64) bool) {
		buf := make([]float64, ps.Dimension())
		it := indices.Iterator()
		for it.HasNext() {
			i := it.Next()
			buf = ps.Point(i, buf)
			if !yield(i, buf) {
				return
			}
		}
	}, nil
}

// ParseIndices reads a comma-separated list of indices and half-open
// ranges, e.g. "0,5,10-20".
func ParseIndices(s string) (*roaring64.Bitmap, error) {
	bm := roaring64.New()
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.ParseUint(strings.TrimSpace(lo), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", part, err)
		}
		if !isRange {
			bm.Add(start)
			continue
		}
		end, err := strconv.ParseUint(strings.TrimSpace(hi), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("index range %q: %w", part, err)
		}
		if end < start {
			return nil, fmt.Errorf("index range %q is reversed: %w", part, ErrIndexOutOfRange)
		}
		bm.AddRange(start, end)
	}
	return bm, nil
}
