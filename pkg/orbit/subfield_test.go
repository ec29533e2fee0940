package orbit

import (
	"testing"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/homology"
	"github.com/flatgeom/orbita/pkg/surface"
)

func TestFieldOfDefinitionRational(t *testing.T) {
	c, err := New(surface.UnitTorus(exact.Rationals()), nil)
	if err != nil {
		t.Fatal(err)
	}
	sub, err := c.FieldOfDefinition()
	if err != nil {
		t.Fatal(err)
	}
	if sub.Degree != 1 || len(sub.Basis) != 1 || !sub.Basis[0].IsOne() {
		t.Fatalf("got degree %d, basis %v", sub.Degree, sub.Basis)
	}
}

func TestFieldOfDefinitionCollapses(t *testing.T) {
	// The stretched torus has coordinates in Q(√2), but its tangent space
	// echelonizes to rational vectors: the orbit closure is defined over Q.
	f := sqrt2Field(t)
	c, err := New(sqrt2Torus(t, f), nil)
	if err != nil {
		t.Fatal(err)
	}
	sub, err := c.FieldOfDefinition()
	if err != nil {
		t.Fatal(err)
	}
	if sub.Degree != 1 {
		t.Fatalf("degree: got %d, want 1", sub.Degree)
	}
}

func TestFieldOfDefinitionFullDegree(t *testing.T) {
	f := sqrt2Field(t)
	b, err := homology.New(sqrt2Torus(t, f))
	if err != nil {
		t.Fatal(err)
	}

	// A tangent vector mixing 1 and √2 forces the full field.
	acc := NewAccumulator(f, b.Dim())
	if _, err := acc.Insert([]exact.Elem{f.One(), f.Gen()}); err != nil {
		t.Fatal(err)
	}
	c := &Closure{s: b.Surface(), basis: b, acc: acc}

	sub, err := c.FieldOfDefinition()
	if err != nil {
		t.Fatal(err)
	}
	if sub.Degree != 2 {
		t.Fatalf("degree: got %d, want 2", sub.Degree)
	}
	if len(sub.Basis) != 2 {
		t.Fatalf("basis: got %d elements", len(sub.Basis))
	}
}
