package exact

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqrt2Field(t *testing.T) *Field {
	t.Helper()
	f, err := NewNumberField("K", []*big.Rat{big.NewRat(-2, 1), big.NewRat(0, 1), big.NewRat(1, 1)}, 1.41421356)
	require.NoError(t, err)
	return f
}

func TestRationalArithmetic(t *testing.T) {
	q := Rationals()
	half := q.FromRat(big.NewRat(1, 2))
	third := q.FromRat(big.NewRat(1, 3))

	sum := half.Add(third)
	r, ok := sum.Rat()
	require.True(t, ok)
	assert.Equal(t, "5/6", r.RatString())

	prod := half.Mul(third)
	r, _ = prod.Rat()
	assert.Equal(t, "1/6", r.RatString())

	inv, err := third.Inv()
	require.NoError(t, err)
	assert.True(t, inv.Equal(q.FromInt(3)))

	assert.Equal(t, 1, half.Sign())
	assert.Equal(t, -1, half.Neg().Sign())
	assert.Equal(t, 0, half.Sub(half).Sign())
	assert.Equal(t, -1, third.Cmp(half))
}

func TestDivisionByZero(t *testing.T) {
	q := Rationals()
	_, err := q.One().Div(q.Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, err = q.Zero().Inv()
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestNumberFieldArithmetic(t *testing.T) {
	f := sqrt2Field(t)
	alpha := f.Gen()

	// α² = 2
	sq := alpha.Mul(alpha)
	r, ok := sq.Rat()
	require.True(t, ok)
	assert.Equal(t, "2", r.RatString())

	// (1+α)(1−α) = −1
	onePlus := f.One().Add(alpha)
	oneMinus := f.One().Sub(alpha)
	prod := onePlus.Mul(oneMinus)
	r, ok = prod.Rat()
	require.True(t, ok)
	assert.Equal(t, "-1", r.RatString())

	// 1/(1+α) = α − 1
	inv, err := onePlus.Inv()
	require.NoError(t, err)
	assert.True(t, inv.Equal(alpha.Sub(f.One())))
	assert.True(t, inv.Mul(onePlus).IsOne())

	// α is not rational
	_, ok = alpha.Rat()
	assert.False(t, ok)
}

func TestNumberFieldRationalInverse(t *testing.T) {
	f := sqrt2Field(t)

	inv, err := f.One().Inv()
	require.NoError(t, err)
	assert.True(t, inv.IsOne())

	// α² is the rational 2 inside K; its inverse must come back as 1/2.
	sq := f.Gen().Mul(f.Gen())
	inv, err = sq.Inv()
	require.NoError(t, err)
	assert.True(t, inv.Equal(f.FromRat(big.NewRat(1, 2))))

	inv, err = f.FromRat(big.NewRat(-2, 3)).Inv()
	require.NoError(t, err)
	assert.True(t, inv.Equal(f.FromRat(big.NewRat(-3, 2))))
	assert.True(t, inv.Mul(f.FromRat(big.NewRat(-2, 3))).IsOne())
}

func TestSignUsesRealEmbedding(t *testing.T) {
	f := sqrt2Field(t)
	alpha := f.Gen()

	// α − 7/5 > 0 but α − 3/2 < 0
	assert.Equal(t, 1, alpha.Sub(f.FromRat(big.NewRat(7, 5))).Sign())
	assert.Equal(t, -1, alpha.Sub(f.FromRat(big.NewRat(3, 2))).Sign())
	assert.Equal(t, 0, alpha.Sub(alpha).Sign())
	assert.InDelta(t, 1.41421356, alpha.Approx(), 1e-8)
}

func TestMustParse(t *testing.T) {
	f := sqrt2Field(t)
	e := f.MustParse("1/2;3")
	coords := e.Coords()
	assert.Equal(t, "1/2", coords[0].RatString())
	assert.Equal(t, "3", coords[1].RatString())

	q := Rationals()
	assert.True(t, q.MustParse("-7/3").Equal(q.FromRat(big.NewRat(-7, 3))))

	assert.Panics(t, func() { q.MustParse("not-a-number") })
	assert.Panics(t, func() { q.MustParse("1;2") })
}

func TestKeyCanonical(t *testing.T) {
	f := sqrt2Field(t)
	a := f.One().Add(f.Gen())
	b := f.Gen().Add(f.One())
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), f.Gen().Key())
}

func TestFieldMismatchPanics(t *testing.T) {
	f := sqrt2Field(t)
	assert.Panics(t, func() { f.One().Add(Rationals().One()) })
}

func TestVec2(t *testing.T) {
	q := Rationals()
	v := V(q.FromInt(1), q.FromInt(2))
	w := V(q.FromInt(3), q.FromInt(6))
	u := V(q.FromInt(1), q.FromInt(0))

	assert.True(t, v.IsParallel(w))
	assert.False(t, v.IsParallel(u))
	assert.Equal(t, 1, u.Cross(v).Sign())
	assert.True(t, v.Add(w).Equal(V(q.FromInt(4), q.FromInt(8))))
	assert.True(t, v.Sub(v).IsZero())
	r, _ := v.NormSq().Rat()
	assert.Equal(t, "5", r.RatString())
	assert.Equal(t, "(1, 2)", v.String())
}
