package generator

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/gf2"
	"github.com/san-kum/latnet/internal/logging"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/primpoly"
)

// matrixFunc builds the generating matrix of base coordinate c (0-based).
type matrixFunc func(def *Definition, c int) (*gf2.Matrix, error)

// Builder dispatches a Definition to the matrix builder of its Kind.
type Builder struct {
	table    *primpoly.Table
	log      *logging.Logger
	matrices map[Kind]matrixFunc
}

// NewBuilder returns a builder using table for Sobol coordinates. A nil
// table means primpoly.Default and a nil logger discards output.
func NewBuilder(table *primpoly.Table, log *logging.Logger) *Builder {
	if table == nil {
		table = primpoly.Default()
	}
	b := &Builder{
		table:    table,
		log:      logging.OrNoop(log),
		matrices: make(map[Kind]matrixFunc),
	}

	b.matrices[Sobol] = func(def *Definition, c int) (*gf2.Matrix, error) {
		return construct.SobolMatrix(b.table, c+1, def.DirectionNumbers[c], def.Resolution())
	}
	b.matrices[Polynomial] = func(def *Definition, c int) (*gf2.Matrix, error) {
		mat, err := construct.PolynomialLatticeMatrix(def.EffectiveModulus(), def.Generators[c])
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", c+1, err)
		}
		return mat, nil
	}
	b.matrices[Explicit] = func(def *Definition, c int) (*gf2.Matrix, error) {
		mat, err := gf2.FromColumnInts(def.Resolution(), def.Columns[c])
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", c+1, err)
		}
		return mat, nil
	}

	return b
}

func (b *Builder) Table() *primpoly.Table { return b.table }

// Kinds lists the constructions with a matrix builder.
func (b *Builder) Kinds() []Kind {
	kinds := make([]Kind, 0, len(b.matrices))
	for k := range b.matrices {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Matrices validates def and builds its base generating matrices, one
// goroutine per coordinate.
func (b *Builder) Matrices(ctx context.Context, def *Definition) ([]*gf2.Matrix, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	fn, ok := b.matrices[def.Kind]
	if !ok {
		return nil, fmt.Errorf("%s has no generating matrices: %w", def.Kind, ErrUnsupportedConstruction)
	}

	mats := make([]*gf2.Matrix, def.BaseDimension())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c := range mats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mat, err := fn(def, c)
			if err != nil {
				return err
			}
			mats[c] = mat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mats, nil
}

// Build returns the point set described by def.
func (b *Builder) Build(ctx context.Context, def *Definition) (pointset.PointSet, error) {
	start := time.Now()
	ps, err := b.build(ctx, def)
	log := b.log.WithKind(def.Kind.String())
	if err != nil {
		log.LogBuild(ctx, def.Dimension, "", time.Since(start), err)
		return nil, err
	}
	log.LogBuild(ctx, ps.Dimension(), pointset.FormatCount(ps.Len()), time.Since(start), nil)
	return ps, nil
}

func (b *Builder) build(ctx context.Context, def *Definition) (pointset.PointSet, error) {
	if def.Kind == Ordinary {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		return pointset.NewLattice(def.Size, def.Vector)
	}
	mats, err := b.Matrices(ctx, def)
	if err != nil {
		return nil, err
	}
	return pointset.NewDigitalNet(mats, def.InterlacingFactor())
}

// Build is shorthand for NewBuilder(table, nil).Build.
func Build(ctx context.Context, def *Definition, table *primpoly.Table) (pointset.PointSet, error) {
	return NewBuilder(table, nil).Build(ctx, def)
}

// Matrices is shorthand for NewBuilder(table, nil).Matrices.
func Matrices(ctx context.Context, def *Definition, table *primpoly.Table) ([]*gf2.Matrix, error) {
	return NewBuilder(table, nil).Matrices(ctx, def)
}
