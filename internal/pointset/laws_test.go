package pointset_test

import (
	"math"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/latnet/internal/construct"
	"github.com/san-kum/latnet/internal/gf2"
	"github.com/san-kum/latnet/internal/pointset"
	"github.com/san-kum/latnet/internal/primpoly"
)

func sobol(dim int, m uint, interlacing int) *pointset.DigitalNet {
	dirnums, err := construct.JoeKuoDirectionNumbers(dim * interlacing)
	Expect(err).NotTo(HaveOccurred())
	mats, err := construct.SobolMatrices(primpoly.Default(), dirnums, m)
	Expect(err).NotTo(HaveOccurred())
	net, err := pointset.NewDigitalNet(mats, interlacing)
	Expect(err).NotTo(HaveOccurred())
	return net
}

func polynomialLattice(modulus construct.Polynomial, gens []uint64, interlacing int) *pointset.DigitalNet {
	polys := make([]construct.Polynomial, len(gens))
	for i, g := range gens {
		polys[i] = construct.PolynomialFromInt(g)
	}
	mats, err := construct.PolynomialLatticeMatrices(modulus, polys)
	Expect(err).NotTo(HaveOccurred())
	net, err := pointset.NewDigitalNet(mats, interlacing)
	Expect(err).NotTo(HaveOccurred())
	return net
}

// truncateDigits keeps the first k binary digits of x.
func truncateDigits(x float64, k uint) float64 {
	return math.Floor(math.Ldexp(x, int(k))) / math.Ldexp(1, int(k))
}

var _ = Describe("Digital nets", func() {
	DescribeTable("level truncation agrees with the leading points",
		func(build func() *pointset.DigitalNet) {
			net := build()
			d := uint(net.Interlacing())
			for level := uint(0); level <= net.Resolution(); level++ {
				coarse, err := net.Truncate(level)
				Expect(err).NotTo(HaveOccurred())
				Expect(coarse.Len()).To(Equal(uint64(1) << level))

				for i, p := range pointset.All(coarse) {
					full := net.Point(i, nil)
					for j := range p {
						Expect(truncateDigits(full[j], d*level)).To(Equal(p[j]),
							"level %d point %d coordinate %d", level, i, j)
					}
				}
			}
		},
		Entry("Sobol", func() *pointset.DigitalNet { return sobol(6, 9, 1) }),
		Entry("interlaced Sobol", func() *pointset.DigitalNet { return sobol(3, 7, 2) }),
		Entry("polynomial lattice", func() *pointset.DigitalNet {
			return polynomialLattice(construct.Polynomial{1, 0, 0, 1, 0, 0, 0, 1}, []uint64{1, 25, 103, 71}, 1)
		}),
		Entry("interlaced polynomial lattice", func() *pointset.DigitalNet {
			return polynomialLattice(construct.Polynomial{1, 1, 0, 0, 0, 1}, []uint64{1, 13, 7, 22}, 2)
		}),
	)

	It("keeps Sobol prefixes exact under truncation", func() {
		net := sobol(8, 12, 1)
		for _, level := range []uint{1, 4, 7, 12} {
			coarse, err := net.Truncate(level)
			Expect(err).NotTo(HaveOccurred())
			for j := 0; j < net.Dimension(); j++ {
				want := slices.Collect(coarse.Coordinate(j))
				var got []float64
				for x := range net.Coordinate(j) {
					if uint64(len(got)) == coarse.Len() {
						break
					}
					got = append(got, x)
				}
				Expect(got).To(Equal(want))
			}
		}
	})

	It("makes every Sobol coordinate a (0,m,1)-net", func() {
		const m = 10
		net := sobol(13, m, 1)
		for j := 0; j < net.Dimension(); j++ {
			xs := slices.Collect(net.Coordinate(j))
			slices.Sort(xs)
			for i, x := range xs {
				Expect(x).To(Equal(math.Ldexp(float64(i), -m)), "coordinate %d", j)
			}
		}
	})

	It("stays in the unit cube", func() {
		for _, net := range []*pointset.DigitalNet{
			sobol(5, 11, 1),
			sobol(2, 11, 3),
			polynomialLattice(construct.Polynomial{1, 1, 0, 1}, []uint64{1, 3, 5}, 1),
		} {
			for _, p := range pointset.All(net) {
				for _, x := range p {
					Expect(x).To(BeNumerically(">=", 0))
					Expect(x).To(BeNumerically("<", 1))
				}
			}
		}
	})

	It("gives the identity net the van der Corput sequence", func() {
		net, err := pointset.NewDigitalNet([]*gf2.Matrix{gf2.Identity(4)}, 1)
		Expect(err).NotTo(HaveOccurred())
		got := slices.Collect(net.Coordinate(0))
		Expect(got[:8]).To(Equal([]float64{0, .5, .25, .75, .125, .625, .375, .875}))
		Expect(got[15]).To(Equal(.9375))
	})
})

var _ = Describe("Ordinary lattices", func() {
	var lat *pointset.Lattice

	BeforeEach(func() {
		var err error
		lat, err = pointset.NewLattice(pointset.Size{Base: 3, Power: 6}, []uint64{1, 182, 587, 71})
		Expect(err).NotTo(HaveOccurred())
	})

	It("subsamples the full lattice at every level", func() {
		for level := uint(0); level <= 6; level++ {
			coarse, err := lat.Truncate(level)
			Expect(err).NotTo(HaveOccurred())
			stride := uint64(math.Pow(3, float64(6-level)))
			for i, p := range pointset.All(coarse) {
				full := lat.Point(i*stride, nil)
				Expect(p).To(Equal(full), "level %d point %d", level, i)
			}
		}
	})

	It("reduces the leading full points modulo the coarse size", func() {
		coarse, err := lat.Truncate(4)
		Expect(err).NotTo(HaveOccurred())
		for i, p := range pointset.All(coarse) {
			full := lat.Point(i, nil)
			for j := range p {
				scaled := full[j] * 9
				diff := math.Abs(scaled - math.Floor(scaled) - p[j])
				Expect(min(diff, 1-diff)).To(BeNumerically("<", 1e-12))
			}
		}
	})

	It("rejects levels above the power", func() {
		_, err := lat.Truncate(7)
		Expect(err).To(MatchError(pointset.ErrInvalidLevel))
	})
})
