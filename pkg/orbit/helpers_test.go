package orbit

import (
	"math/big"
	"testing"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"
	"github.com/flatgeom/orbita/pkg/homology"
	"github.com/flatgeom/orbita/pkg/surface"
)

func qv(x, y int64) exact.Vec2 {
	q := exact.Rationals()
	return exact.V(q.FromInt(x), q.FromInt(y))
}

func chain(coeffs ...int64) []*big.Int {
	out := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		out[i] = big.NewInt(c)
	}
	return out
}

func torusBasis(t *testing.T) *homology.Basis {
	t.Helper()
	b, err := homology.New(surface.UnitTorus(exact.Rationals()))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// horizontalTorus is the horizontal flow decomposition of the square torus:
// one cylinder whose boundary walk crosses the vertical edge.
func horizontalTorus(t *testing.T) *flow.Decomposition {
	t.Helper()
	q := exact.Rationals()
	b := flow.NewBuilder(qv(1, 0))
	a := b.AddConnection(qv(0, -1), chain(0, -1, 0))
	c := b.AddConnection(qv(1, 0), chain(1, 0, 0))
	b.AddCylinder([]flow.Connection{a, c, a.Reversed(), c.Reversed()}, q.FromInt(1), q.FromInt(1))
	dec, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return dec
}

// markedBasis is the homology basis of the square torus with a marked
// regular point at the center, triangulated by coning the four corners to
// it: six edges, four triangles, two vertices, rank three.
func markedBasis(t *testing.T) *homology.Basis {
	t.Helper()
	q := exact.Rationals()
	half := func(num int64) exact.Elem { return q.FromRat(big.NewRat(num, 2)) }
	vecs := []exact.Vec2{
		qv(1, 0),
		qv(0, 1),
		exact.V(half(1), half(1)),
		exact.V(half(-1), half(1)),
		exact.V(half(-1), half(-1)),
		exact.V(half(1), half(-1)),
	}
	next := []surface.HalfEdge{6, 10, 8, 4, 11, 0, 5, 2, 7, 1, 9, 3}
	s, err := surface.NewMesh(q, next, vecs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := homology.New(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// markedTorusHorizontal is the horizontal flow decomposition of the marked
// torus: the saddle connections through the marked point cut the flow into
// two half-height cylinders.
func markedTorusHorizontal(t *testing.T) *flow.Decomposition {
	t.Helper()
	q := exact.Rationals()
	half := q.FromRat(big.NewRat(1, 2))
	bld := flow.NewBuilder(qv(1, 0))
	bot := bld.AddConnection(qv(1, 0), chain(1, 0, 0, 0, 0, 0))
	mid := bld.AddConnection(qv(1, 0), chain(0, 0, 1, -1, 0, 0))
	lo := bld.AddConnection(exact.V(half, half), chain(0, 0, 1, 0, 0, 0))
	hi := bld.AddConnection(exact.V(half.Neg(), half.Neg()), chain(0, 0, 0, 0, 1, 0))
	bld.AddCylinder([]flow.Connection{lo.Reversed(), bot, lo, mid.Reversed()}, half, half)
	bld.AddCylinder([]flow.Connection{hi, mid, hi.Reversed(), bot.Reversed()}, half, half)
	dec, err := bld.Build()
	if err != nil {
		t.Fatal(err)
	}
	return dec
}

// sqrt2Field is Q(√2) with the usual embedding.
func sqrt2Field(t *testing.T) *exact.Field {
	t.Helper()
	f, err := exact.NewNumberField("K",
		[]*big.Rat{big.NewRat(-2, 1), big.NewRat(0, 1), big.NewRat(1, 1)}, 1.414)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func wantRat(t *testing.T, e exact.Elem, want string) {
	t.Helper()
	r, ok := e.Rat()
	if !ok || r.RatString() != want {
		t.Fatalf("got %s, want %s", e, want)
	}
}
