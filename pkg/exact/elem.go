package exact

import (
	"fmt"
	"math/big"
	"strings"
)

// Elem is an element of a [Field], stored as rational coordinates over the
// power basis of the field generator. The zero value is not usable; obtain
// elements through a Field. Elements are immutable: every operation returns
// a fresh value.
type Elem struct {
	f *Field
	c []*big.Rat // length f.degree; nil entries mean zero
}

// Field returns the field the element belongs to.
func (e Elem) Field() *Field { return e.f }

func (e Elem) coord(i int) *big.Rat {
	if e.c[i] == nil {
		return new(big.Rat)
	}
	return e.c[i]
}

func (e Elem) check(o Elem) error {
	if e.f != o.f {
		return fmt.Errorf("%w: %s and %s", ErrFieldMismatch, e.f.name, o.f.name)
	}
	return nil
}

func mustSame(e, o Elem) {
	if err := e.check(o); err != nil {
		panic("exact: " + err.Error())
	}
}

// Add returns e + o. Both elements must belong to the same field.
func (e Elem) Add(o Elem) Elem {
	mustSame(e, o)
	out := e.f.Zero()
	for i := 0; i < e.f.degree; i++ {
		s := new(big.Rat).Add(e.coord(i), o.coord(i))
		if s.Sign() != 0 {
			out.c[i] = s
		}
	}
	return out
}

// Sub returns e − o.
func (e Elem) Sub(o Elem) Elem { return e.Add(o.Neg()) }

// Neg returns −e.
func (e Elem) Neg() Elem {
	out := e.f.Zero()
	for i, c := range e.c {
		if c != nil && c.Sign() != 0 {
			out.c[i] = new(big.Rat).Neg(c)
		}
	}
	return out
}

// Mul returns e · o, reducing modulo the minimal polynomial.
func (e Elem) Mul(o Elem) Elem {
	mustSame(e, o)
	deg := e.f.degree
	if deg == 1 {
		out := e.f.Zero()
		p := new(big.Rat).Mul(e.coord(0), o.coord(0))
		if p.Sign() != 0 {
			out.c[0] = p
		}
		return out
	}
	prod := make([]*big.Rat, 2*deg-1)
	for i, a := range e.c {
		if a == nil || a.Sign() == 0 {
			continue
		}
		for j, b := range o.c {
			if b == nil || b.Sign() == 0 {
				continue
			}
			t := new(big.Rat).Mul(a, b)
			if prod[i+j] == nil {
				prod[i+j] = t
			} else {
				prod[i+j] = new(big.Rat).Add(prod[i+j], t)
			}
		}
	}
	return Elem{f: e.f, c: e.f.reduce(prod)}
}

// MulRat returns e scaled by a rational number.
func (e Elem) MulRat(q *big.Rat) Elem {
	out := e.f.Zero()
	if q.Sign() == 0 {
		return out
	}
	for i, c := range e.c {
		if c != nil && c.Sign() != 0 {
			out.c[i] = new(big.Rat).Mul(c, q)
		}
	}
	return out
}

// Inv returns 1/e. It returns ErrDivisionByZero when e is zero. Inversion
// uses the extended Euclidean algorithm on the coordinate polynomial and
// the minimal polynomial.
func (e Elem) Inv() (Elem, error) {
	if e.IsZero() {
		return Elem{}, ErrDivisionByZero
	}
	if e.f.degree == 1 {
		out := e.f.Zero()
		out.c[0] = new(big.Rat).Inv(e.coord(0))
		return out, nil
	}
	// Extended Euclid: find u with u·e ≡ 1 (mod minpoly).
	u, err := polyModInverse(e.c, e.f.minpoly)
	if err != nil {
		return Elem{}, fmt.Errorf("exact: %s is not invertible in %s: %w", e, e.f.name, err)
	}
	return Elem{f: e.f, c: e.f.reduce(u)}, nil
}

// Div returns e / o. It returns ErrDivisionByZero when o is zero.
func (e Elem) Div(o Elem) (Elem, error) {
	mustSame(e, o)
	inv, err := o.Inv()
	if err != nil {
		return Elem{}, err
	}
	return e.Mul(inv), nil
}

// IsZero reports whether e is exactly zero.
func (e Elem) IsZero() bool {
	for _, c := range e.c {
		if c != nil && c.Sign() != 0 {
			return false
		}
	}
	return true
}

// IsOne reports whether e is exactly one.
func (e Elem) IsOne() bool {
	if e.c[0] == nil || e.c[0].Cmp(ratOne) != 0 {
		return false
	}
	for _, c := range e.c[1:] {
		if c != nil && c.Sign() != 0 {
			return false
		}
	}
	return true
}

var ratOne = big.NewRat(1, 1)

// Equal reports whether e and o are the same element of the same field.
func (e Elem) Equal(o Elem) bool {
	if e.f != o.f {
		return false
	}
	return e.Sub(o).IsZero()
}

// Sign returns the sign of e under the real embedding: −1, 0 or +1. Zero is
// detected exactly; nonzero signs are decided at 256-bit precision.
func (e Elem) Sign() int {
	if e.IsZero() {
		return 0
	}
	if e.f.degree == 1 {
		return e.coord(0).Sign()
	}
	coeffs := make([]*big.Float, e.f.degree)
	for i := 0; i < e.f.degree; i++ {
		coeffs[i] = new(big.Float).SetPrec(signPrec).SetRat(e.coord(i))
	}
	return evalFloat(coeffs, e.f.root).Sign()
}

// Cmp compares e and o under the real embedding, returning −1, 0 or +1.
func (e Elem) Cmp(o Elem) int { return e.Sub(o).Sign() }

// Coords returns a copy of the rational coordinates of e over the power
// basis. The slice length equals the field degree.
func (e Elem) Coords() []*big.Rat {
	out := make([]*big.Rat, e.f.degree)
	for i := range out {
		out[i] = new(big.Rat).Set(e.coord(i))
	}
	return out
}

// Rat returns the value of e as a rational number and true when e lies in
// the prime field, or nil and false otherwise. The test is exact.
func (e Elem) Rat() (*big.Rat, bool) {
	for _, c := range e.c[1:] {
		if c != nil && c.Sign() != 0 {
			return nil, false
		}
	}
	return new(big.Rat).Set(e.coord(0)), true
}

// Approx returns a float64 approximation of e under the real embedding.
func (e Elem) Approx() float64 {
	if e.f.degree == 1 {
		v, _ := e.coord(0).Float64()
		return v
	}
	coeffs := make([]*big.Float, e.f.degree)
	for i := 0; i < e.f.degree; i++ {
		coeffs[i] = new(big.Float).SetPrec(signPrec).SetRat(e.coord(i))
	}
	v, _ := evalFloat(coeffs, e.f.root).Float64()
	return v
}

// String renders e as a polynomial in the generator, e.g. "1/2 + 3*a".
func (e Elem) String() string {
	if e.IsZero() {
		return "0"
	}
	var parts []string
	for i, c := range e.c {
		if c == nil || c.Sign() == 0 {
			continue
		}
		switch i {
		case 0:
			parts = append(parts, c.RatString())
		case 1:
			parts = append(parts, c.RatString()+"*a")
		default:
			parts = append(parts, fmt.Sprintf("%s*a^%d", c.RatString(), i))
		}
	}
	return strings.Join(parts, " + ")
}

// Key returns a canonical string usable as a map key for deduplication.
// Two elements of the same field have equal keys iff they are equal.
func (e Elem) Key() string {
	var b strings.Builder
	for i := 0; i < e.f.degree; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.coord(i).RatString())
	}
	return b.String()
}

// polyModInverse computes u with u·a ≡ 1 (mod m) over the rationals, where
// m is monic of degree ≥ 2 and deg a < deg m.
func polyModInverse(a []*big.Rat, m []*big.Rat) ([]*big.Rat, error) {
	// r0, r1 and Bezout coefficients for a.
	r0 := trimPoly(clonePoly(m))
	r1 := trimPoly(clonePoly(a))
	t0 := []*big.Rat{}
	t1 := []*big.Rat{big.NewRat(1, 1)}
	for len(r1) > 0 {
		q, r := polyDivMod(r0, r1)
		r0, r1 = r1, r
		t0, t1 = t1, polySub(t0, polyMul(q, t1))
	}
	if len(r0) != 1 {
		return nil, fmt.Errorf("gcd with the minimal polynomial has degree %d", len(r0)-1)
	}
	inv := new(big.Rat).Inv(r0[0])
	out := make([]*big.Rat, len(t0))
	for i, c := range t0 {
		out[i] = new(big.Rat).Mul(c, inv)
	}
	return out, nil
}

func clonePoly(p []*big.Rat) []*big.Rat {
	out := make([]*big.Rat, len(p))
	for i, c := range p {
		if c == nil {
			out[i] = new(big.Rat)
		} else {
			out[i] = new(big.Rat).Set(c)
		}
	}
	return out
}

func trimPoly(p []*big.Rat) []*big.Rat {
	n := len(p)
	for n > 0 && p[n-1].Sign() == 0 {
		n--
	}
	return p[:n]
}

func polyMul(a, b []*big.Rat) []*big.Rat {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]*big.Rat, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for i, x := range a {
		if x.Sign() == 0 {
			continue
		}
		for j, y := range b {
			out[i+j].Add(out[i+j], new(big.Rat).Mul(x, y))
		}
	}
	return trimPoly(out)
}

func polySub(a, b []*big.Rat) []*big.Rat {
	n := max(len(a), len(b))
	out := make([]*big.Rat, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Set(a[i])
		}
		if i < len(b) {
			out[i].Sub(out[i], b[i])
		}
	}
	return trimPoly(out)
}

// polyDivMod divides a by b, returning quotient and remainder. b must be
// nonzero.
func polyDivMod(a, b []*big.Rat) (q, r []*big.Rat) {
	r = clonePoly(a)
	r = trimPoly(r)
	if len(b) == 0 {
		panic("exact: polynomial division by zero")
	}
	lead := b[len(b)-1]
	if len(r) < len(b) {
		return nil, r
	}
	q = make([]*big.Rat, len(r)-len(b)+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	for len(r) >= len(b) {
		shift := len(r) - len(b)
		c := new(big.Rat).Quo(r[len(r)-1], lead)
		q[shift].Set(c)
		for i := range b {
			t := new(big.Rat).Mul(c, b[i])
			r[shift+i] = new(big.Rat).Sub(r[shift+i], t)
		}
		r = trimPoly(r)
	}
	return q, r
}
