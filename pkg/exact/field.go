// Package exact implements exact arithmetic over the coordinate fields of
// translation surfaces: the rationals and real algebraic number fields.
//
// A [Field] is either Q (degree 1) or Q(α) for a real algebraic number α,
// described by the monic minimal polynomial of α and an isolating
// floating-point approximation of the chosen real root. Elements are stored
// as rational coordinate vectors over the power basis 1, α, …, α^(k−1), so
// zero tests and equality are always exact. Sign queries on nonzero elements
// use a 256-bit real embedding of α refined by Newton iteration at field
// construction time.
//
// All operations allocate fresh big.Rat values; elements are immutable and
// safe to share.
package exact

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrDivisionByZero is returned by [Elem.Div] and [Elem.Inv] when the
	// divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrFieldMismatch is returned when an operation combines elements of
	// two different fields. Elements never coerce implicitly; use
	// [Field.FromRat] to move rational values into a number field.
	ErrFieldMismatch = errors.New("elements belong to different fields")

	// ErrInvalidMinpoly is returned by [NewNumberField] when the supplied
	// minimal polynomial has degree below 2 or a zero leading coefficient.
	ErrInvalidMinpoly = errors.New("invalid minimal polynomial")

	// ErrInvalidCoords is returned by [Field.FromCoords] when the coordinate
	// vector does not match the field degree.
	ErrInvalidCoords = errors.New("coordinate vector does not match field degree")
)

// signPrec is the big.Float precision used for the real embedding.
// Nonzero field elements arising from surface data are bounded away from
// zero far above 2^-256, so the embedded sign is reliable in practice;
// exact zero is always detected coordinate-wise before the embedding is
// consulted.
const signPrec = 256

// Field is a real field with exact arithmetic: the rationals, or a real
// algebraic number field Q(α). The zero value is not usable; obtain fields
// through [Rationals] or [NewNumberField]. Fields are immutable and safe
// for concurrent use.
type Field struct {
	name    string
	degree  int
	minpoly []*big.Rat // monic, length degree+1; nil for the rationals
	root    *big.Float // refined real embedding of α; nil for the rationals
}

var rationalField = &Field{name: "Q", degree: 1}

// Rationals returns the field of rational numbers. The returned pointer is
// a package-level singleton, so rational elements created anywhere in a
// process interoperate.
func Rationals() *Field { return rationalField }

// NewNumberField constructs the real algebraic number field Q(α), where α is
// the real root of the given polynomial near approx. The polynomial is
// supplied by ascending degree (minpoly[i] is the coefficient of x^i), must
// have degree at least 2 and is normalized to be monic. The approximation
// only needs to isolate the intended root; it is refined internally by
// Newton iteration to 256 bits.
//
// Irreducibility of the polynomial is not verified: a reducible polynomial
// yields a ring with zero divisors and [Elem.Inv] will fail on them.
func NewNumberField(name string, minpoly []*big.Rat, approx float64) (*Field, error) {
	deg := len(minpoly) - 1
	if deg < 2 {
		return nil, fmt.Errorf("%w: degree %d", ErrInvalidMinpoly, deg)
	}
	lead := minpoly[deg]
	if lead == nil || lead.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero leading coefficient", ErrInvalidMinpoly)
	}
	monic := make([]*big.Rat, deg+1)
	for i, c := range minpoly {
		if c == nil {
			c = new(big.Rat)
		}
		monic[i] = new(big.Rat).Quo(c, lead)
	}
	f := &Field{name: name, degree: deg, minpoly: monic}
	f.root = refineRoot(monic, approx)
	return f, nil
}

// refineRoot runs Newton iteration on the monic polynomial p starting from
// the float64 seed, at signPrec bits.
func refineRoot(p []*big.Rat, seed float64) *big.Float {
	coeffs := make([]*big.Float, len(p))
	deriv := make([]*big.Float, len(p)-1)
	for i, c := range p {
		coeffs[i] = new(big.Float).SetPrec(signPrec).SetRat(c)
		if i > 0 {
			k := new(big.Float).SetPrec(signPrec).SetInt64(int64(i))
			deriv[i-1] = new(big.Float).SetPrec(signPrec).Mul(k, coeffs[i])
		}
	}
	x := new(big.Float).SetPrec(signPrec).SetFloat64(seed)
	for iter := 0; iter < 128; iter++ {
		num := evalFloat(coeffs, x)
		den := evalFloat(deriv, x)
		if den.Sign() == 0 {
			break
		}
		step := new(big.Float).SetPrec(signPrec).Quo(num, den)
		if step.Sign() == 0 {
			break
		}
		x.Sub(x, step)
	}
	return x
}

// evalFloat evaluates a polynomial with big.Float coefficients at x by
// Horner's rule.
func evalFloat(p []*big.Float, x *big.Float) *big.Float {
	acc := new(big.Float).SetPrec(signPrec)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

// Name returns the display name of the field ("Q" for the rationals).
func (f *Field) Name() string { return f.name }

// Degree returns the degree of the field over the rationals; 1 means the
// field is the rationals themselves.
func (f *Field) Degree() int { return f.degree }

// IsRational reports whether the field is the rationals.
func (f *Field) IsRational() bool { return f.degree == 1 }

// Minpoly returns a copy of the monic minimal polynomial of the generator
// by ascending degree, or nil for the rationals.
func (f *Field) Minpoly() []*big.Rat {
	if f.minpoly == nil {
		return nil
	}
	out := make([]*big.Rat, len(f.minpoly))
	for i, c := range f.minpoly {
		out[i] = new(big.Rat).Set(c)
	}
	return out
}

// Zero returns the additive identity.
func (f *Field) Zero() Elem { return Elem{f: f, c: make([]*big.Rat, f.degree)} }

// One returns the multiplicative identity.
func (f *Field) One() Elem { return f.FromInt(1) }

// FromInt embeds an integer.
func (f *Field) FromInt(n int64) Elem {
	e := f.Zero()
	e.c[0] = new(big.Rat).SetInt64(n)
	return e
}

// FromRat embeds a rational number.
func (f *Field) FromRat(q *big.Rat) Elem {
	e := f.Zero()
	e.c[0] = new(big.Rat).Set(q)
	return e
}

// FromBigInt embeds an arbitrary-precision integer.
func (f *Field) FromBigInt(n *big.Int) Elem {
	e := f.Zero()
	e.c[0] = new(big.Rat).SetInt(n)
	return e
}

// FromCoords builds the element with the given rational coordinates over
// the power basis 1, α, …, α^(k−1). Nil entries are treated as zero.
func (f *Field) FromCoords(coords []*big.Rat) (Elem, error) {
	if len(coords) != f.degree {
		return Elem{}, fmt.Errorf("%w: got %d, want %d", ErrInvalidCoords, len(coords), f.degree)
	}
	e := f.Zero()
	for i, c := range coords {
		if c != nil && c.Sign() != 0 {
			e.c[i] = new(big.Rat).Set(c)
		}
	}
	return e, nil
}

// Gen returns the field generator α (or 1 for the rationals).
func (f *Field) Gen() Elem {
	if f.degree == 1 {
		return f.One()
	}
	e := f.Zero()
	e.c[1] = new(big.Rat).SetInt64(1)
	return e
}

// MustParse parses a comma-free element literal: either a rational string
// accepted by big.Rat ("3", "-1/2") or coordinates joined by ';' for number
// fields ("1/2;0;1" means 1/2 + α²). It panics on malformed input and is
// intended for tests and example data.
func (f *Field) MustParse(s string) Elem {
	parts := strings.Split(s, ";")
	coords := make([]*big.Rat, f.degree)
	if len(parts) > f.degree {
		panic(fmt.Sprintf("exact: literal %q has %d coordinates in a degree %d field", s, len(parts), f.degree))
	}
	for i, p := range parts {
		q, ok := new(big.Rat).SetString(strings.TrimSpace(p))
		if !ok {
			panic(fmt.Sprintf("exact: malformed rational %q in %q", p, s))
		}
		coords[i] = q
	}
	e, err := f.FromCoords(coords)
	if err != nil {
		panic(err)
	}
	return e
}

// reduce folds a polynomial of arbitrary length into the power basis using
// the monic minimal polynomial: x^deg ≡ −Σ m_j x^j.
func (f *Field) reduce(p []*big.Rat) []*big.Rat {
	for i := len(p) - 1; i >= f.degree; i-- {
		c := p[i]
		if c == nil || c.Sign() == 0 {
			continue
		}
		p[i] = nil
		for j := 0; j < f.degree; j++ {
			t := new(big.Rat).Mul(c, f.minpoly[j])
			at := i - f.degree + j
			if p[at] == nil {
				p[at] = new(big.Rat).Neg(t)
			} else {
				p[at] = new(big.Rat).Sub(p[at], t)
			}
		}
	}
	// p may be shorter than the degree (Euclid returns minimal-length
	// Bezout coefficients); copy stops at the shorter slice.
	out := make([]*big.Rat, f.degree)
	copy(out, p)
	return out
}
