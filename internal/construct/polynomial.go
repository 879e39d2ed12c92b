package construct

import (
	"fmt"
	"strconv"
	"strings"
)

// Polynomial is a polynomial over GF(2); index k holds the coefficient of z^k.
type Polynomial []uint8

// PolynomialFromInt reads bit k of x as the coefficient of z^k.
func PolynomialFromInt(x uint64) Polynomial {
	var p Polynomial
	for x != 0 {
		p = append(p, uint8(x&1))
		x >>= 1
	}
	return p
}

// ParsePolynomial reads coefficients from lowest to highest degree, e.g.
// "1 1 1", "[1 1 1]" or "1,1,1".
func ParsePolynomial(s string) (Polynomial, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	p := make(Polynomial, 0, len(fields))
	for _, f := range fields {
		c, err := strconv.ParseUint(f, 10, 8)
		if err != nil || c > 1 {
			return nil, fmt.Errorf("coefficient %q: %w", f, ErrInvalidGenerator)
		}
		p = append(p, uint8(c))
	}
	return p, nil
}

// Degree returns the degree, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	for k := len(p) - 1; k >= 0; k-- {
		if p[k]&1 == 1 {
			return k
		}
	}
	return -1
}

// Coefficient returns the coefficient of z^k, 0 outside the stored range.
func (p Polynomial) Coefficient(k int) uint8 {
	if k < 0 || k >= len(p) {
		return 0
	}
	return p[k] & 1
}

// Normalize drops trailing zero coefficients.
func (p Polynomial) Normalize() Polynomial {
	out := make(Polynomial, p.Degree()+1)
	for k := range out {
		out[k] = p.Coefficient(k)
	}
	return out
}

func (p Polynomial) Mul(q Polynomial) Polynomial {
	dp, dq := p.Degree(), q.Degree()
	if dp < 0 || dq < 0 {
		return Polynomial{}
	}
	out := make(Polynomial, dp+dq+1)
	for i := 0; i <= dp; i++ {
		if p.Coefficient(i) == 0 {
			continue
		}
		for j := 0; j <= dq; j++ {
			out[i+j] ^= q.Coefficient(j)
		}
	}
	return out
}

// Pow returns p^k; p^0 = 1.
func (p Polynomial) Pow(k uint) Polynomial {
	out := Polynomial{1}
	for i := uint(0); i < k; i++ {
		out = out.Mul(p)
	}
	return out
}

// Uint64 packs the coefficients, z^k at bit k. ok is false for degree >= 64.
func (p Polynomial) Uint64() (x uint64, ok bool) {
	if p.Degree() >= 64 {
		return 0, false
	}
	for k := p.Degree(); k >= 0; k-- {
		x = x<<1 | uint64(p.Coefficient(k))
	}
	return x, true
}

// String renders the normalized coefficients low to high, space separated.
func (p Polynomial) String() string {
	n := p.Normalize()
	if len(n) == 0 {
		return "0"
	}
	parts := make([]string, len(n))
	for k, c := range n {
		parts[k] = strconv.Itoa(int(c))
	}
	return strings.Join(parts, " ")
}

func (p Polynomial) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Polynomial) UnmarshalText(b []byte) error {
	parsed, err := ParsePolynomial(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
