package orbit

import (
	"context"
	"testing"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"
	"github.com/flatgeom/orbita/pkg/surface"
)

// sqrt2Torus is a torus stretched by √2 in the vertical direction, so its
// coordinates genuinely live in Q(√2).
func sqrt2Torus(t *testing.T, f *exact.Field) surface.Surface {
	t.Helper()
	one, zero, gen := f.One(), f.Zero(), f.Gen()
	vecs := []exact.Vec2{
		exact.V(one, zero),
		exact.V(zero, gen),
		exact.V(one, gen),
	}
	s, err := surface.NewMesh(f, []surface.HalfEdge{2, 3, 5, 4, 1, 0}, vecs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// twoCylinderDecomposition builds a horizontal decomposition with two
// cylinders of the given areas and circumference holonomies (1, 0) and
// (hol2x, 0).
func twoCylinderDecomposition(t *testing.T, f *exact.Field, area1, area2 exact.Elem, hol2x exact.Elem) *flow.Decomposition {
	t.Helper()
	one, zero := f.One(), f.Zero()
	b := flow.NewBuilder(exact.V(one, zero))
	a := b.AddConnection(exact.V(zero, f.FromInt(-1)), chain(0, 0, 0))
	c := b.AddConnection(exact.V(one, zero), chain(0, 0, 0))
	d := b.AddConnection(exact.V(zero, f.FromInt(-1)), chain(0, 0, 0))
	e := b.AddConnection(exact.V(hol2x, zero), chain(0, 0, 0))
	b.AddCylinder([]flow.Connection{a, c, a.Reversed(), c.Reversed()}, area1, one)
	b.AddCylinder([]flow.Connection{d, e, d.Reversed(), e.Reversed()}, area2, one)
	dec, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return dec
}

func TestParabolicRational(t *testing.T) {
	c, err := New(surface.UnitTorus(exact.Rationals()), nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.Parabolic(horizontalTorus(t))
	if err != nil {
		t.Fatal(err)
	}
	if v != flow.VerdictYes {
		t.Fatalf("rational surface: got %s", v)
	}
}

func TestParabolicNumberField(t *testing.T) {
	f := sqrt2Field(t)
	c, err := New(sqrt2Torus(t, f), nil)
	if err != nil {
		t.Fatal(err)
	}
	one := f.One()
	gen := f.Gen()

	t.Run("CommensurableModuli", func(t *testing.T) {
		// Moduli 1 and 1/2: a power of the shear fixes both cylinders.
		dec := twoCylinderDecomposition(t, f, one, one, gen)
		v, err := c.Parabolic(dec)
		if err != nil {
			t.Fatal(err)
		}
		if v != flow.VerdictYes {
			t.Fatalf("got %s, want yes", v)
		}
	})

	t.Run("IncommensurableModuli", func(t *testing.T) {
		// Moduli 1 and √2/2 have an irrational ratio.
		dec := twoCylinderDecomposition(t, f, one, gen, gen)
		v, err := c.Parabolic(dec)
		if err != nil {
			t.Fatal(err)
		}
		if v != flow.VerdictNo {
			t.Fatalf("got %s, want no", v)
		}
	})

	t.Run("MinimalComponent", func(t *testing.T) {
		b := flow.NewBuilder(exact.V(one, f.Zero()))
		a := b.AddConnection(exact.V(f.Zero(), f.FromInt(-1)), chain(0, 0, 0))
		cc := b.AddConnection(exact.V(one, f.Zero()), chain(0, 0, 0))
		b.AddMinimal([]flow.Connection{a, cc, a.Reversed(), cc.Reversed()})
		dec, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}
		v, err := c.Parabolic(dec)
		if err != nil {
			t.Fatal(err)
		}
		if v != flow.VerdictNo {
			t.Fatalf("got %s, want no", v)
		}
	})

	t.Run("UndeterminedComponent", func(t *testing.T) {
		b := flow.NewBuilder(exact.V(one, f.Zero()))
		a := b.AddConnection(exact.V(f.Zero(), f.FromInt(-1)), chain(0, 0, 0))
		cc := b.AddConnection(exact.V(one, f.Zero()), chain(0, 0, 0))
		b.AddUndetermined([]flow.Connection{a, cc, a.Reversed(), cc.Reversed()})
		dec, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}
		v, err := c.Parabolic(dec)
		if err != nil {
			t.Fatal(err)
		}
		if v != flow.VerdictUnknown {
			t.Fatalf("got %s, want unknown", v)
		}
	})
}

func TestIsTeichmuellerCurveRational(t *testing.T) {
	c, err := New(surface.UnitTorus(exact.Rationals()), nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.IsTeichmuellerCurve(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if v != flow.VerdictYes {
		t.Fatalf("square torus: got %s", v)
	}
}

// parabolicDecomposer answers every direction with a fixed two-cylinder
// decomposition whose moduli are controlled by the test.
type parabolicDecomposer struct {
	f     *exact.Field
	area2 exact.Elem
}

func (d *parabolicDecomposer) Decompose(_ context.Context, _ surface.Surface, direction exact.Vec2) (*flow.Decomposition, error) {
	f := d.f
	one, zero := f.One(), f.Zero()
	b := flow.NewBuilder(direction)
	a := b.AddConnection(exact.V(zero, f.FromInt(-1)), chain(0, 0, 0))
	c := b.AddConnection(exact.V(one, zero), chain(0, 0, 0))
	e := b.AddConnection(exact.V(zero, f.FromInt(-1)), chain(0, 0, 0))
	g := b.AddConnection(exact.V(f.Gen(), zero), chain(0, 0, 0))
	b.AddCylinder([]flow.Connection{a, c, a.Reversed(), c.Reversed()}, one, one)
	b.AddCylinder([]flow.Connection{e, g, e.Reversed(), g.Reversed()}, d.area2, one)
	return b.Build()
}

func TestIsTeichmuellerCurveNumberField(t *testing.T) {
	f := sqrt2Field(t)
	s := sqrt2Torus(t, f)

	t.Run("CleanSweepIsInconclusive", func(t *testing.T) {
		c, err := New(s, &Options{Decomposer: &parabolicDecomposer{f: f, area2: f.One()}})
		if err != nil {
			t.Fatal(err)
		}
		v, err := c.IsTeichmuellerCurve(context.Background(), 2)
		if err != nil {
			t.Fatal(err)
		}
		if v != flow.VerdictUnknown {
			t.Fatalf("got %s, want unknown", v)
		}
	})

	t.Run("NonParabolicDirectionRefutes", func(t *testing.T) {
		c, err := New(s, &Options{Decomposer: &parabolicDecomposer{f: f, area2: f.Gen()}})
		if err != nil {
			t.Fatal(err)
		}
		v, err := c.IsTeichmuellerCurve(context.Background(), 2)
		if err != nil {
			t.Fatal(err)
		}
		if v != flow.VerdictNo {
			t.Fatalf("got %s, want no", v)
		}
	})
}
