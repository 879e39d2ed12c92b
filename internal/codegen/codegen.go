// Package codegen renders stand-alone programs that regenerate a point set
// without latnet.
package codegen

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/san-kum/latnet/internal/pointset"
)

var ErrUnsupported = errors.New("codegen: unsupported target")

type Language string

const (
	C      Language = "c"
	Python Language = "python"
	Matlab Language = "matlab"
)

var (
	latticeTemplates = map[Language]*template.Template{
		C:      template.Must(template.New("c").Parse(cLattice)),
		Python: template.Must(template.New("python").Parse(pythonLattice)),
		Matlab: template.Must(template.New("matlab").Parse(matlabLattice)),
	}
	netTemplates = map[Language]*template.Template{
		C:      template.Must(template.New("c").Parse(cNet)),
		Python: template.Must(template.New("python").Parse(pythonNet)),
	}
)

func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(s)); l {
	case C, Python, Matlab:
		return l, nil
	case "py":
		return Python, nil
	case "m", "octave":
		return Matlab, nil
	}
	return "", fmt.Errorf("language %q: %w", s, ErrUnsupported)
}

// Languages lists the targets available for ps.
func Languages(ps pointset.PointSet) []Language {
	var tmpls map[Language]*template.Template
	switch ps.(type) {
	case *pointset.Lattice:
		tmpls = latticeTemplates
	case *pointset.DigitalNet:
		tmpls = netTemplates
	}
	out := make([]Language, 0, len(tmpls))
	for l := range tmpls {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

type latticeData struct {
	Title  string
	N      uint64
	Dim    int
	Vector []uint64
}

type netData struct {
	Title       string
	M           uint
	Dim         int
	Interlacing int
	Columns     [][]uint64
}

// Render writes a program in lang that prints every point of ps as CSV.
// title ends up in the leading comment.
func Render(w io.Writer, lang Language, ps pointset.PointSet, title string) error {
	switch ps := ps.(type) {
	case *pointset.Lattice:
		tmpl, ok := latticeTemplates[lang]
		if !ok {
			return fmt.Errorf("%s for lattices: %w", lang, ErrUnsupported)
		}
		return tmpl.Execute(w, latticeData{
			Title:  describe(title, fmt.Sprintf("rank-1 lattice, %d points in dimension %d", ps.Len(), ps.Dimension())),
			N:      ps.Len(),
			Dim:    ps.Dimension(),
			Vector: ps.Vector(),
		})

	case *pointset.DigitalNet:
		tmpl, ok := netTemplates[lang]
		if !ok {
			return fmt.Errorf("%s for digital nets: %w", lang, ErrUnsupported)
		}
		if ps.Resolution() >= 64 {
			return fmt.Errorf("resolution %d: %w", ps.Resolution(), ErrUnsupported)
		}
		mats := ps.Matrices()
		cols := make([][]uint64, len(mats))
		for k, mat := range mats {
			c, err := mat.ColumnInts()
			if err != nil {
				return err
			}
			cols[k] = c
		}
		return tmpl.Execute(w, netData{
			Title:       describe(title, fmt.Sprintf("digital net, 2^%d points in dimension %d, interlacing %d", ps.Resolution(), ps.Dimension(), ps.Interlacing())),
			M:           ps.Resolution(),
			Dim:         ps.Dimension(),
			Interlacing: ps.Interlacing(),
			Columns:     cols,
		})
	}
	return fmt.Errorf("point set %T: %w", ps, ErrUnsupported)
}

func describe(title, what string) string {
	if title == "" {
		return what
	}
	return title + ": " + what
}
