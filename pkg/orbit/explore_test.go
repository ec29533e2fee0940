package orbit

import (
	"context"
	"testing"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/surface"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

func exploringClosure(t *testing.T) (*Closure, *stubDecomposer) {
	t.Helper()
	d := &stubDecomposer{}
	c, err := New(surface.UnitTorus(exact.Rationals()), &Options{Decomposer: d})
	if err != nil {
		t.Fatal(err)
	}
	return c, d
}

func sweep(t *testing.T, ex *Exploration) []*Step {
	t.Helper()
	var steps []*Step
	for {
		step, err := ex.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if step == nil {
			return steps
		}
		steps = append(steps, step)
	}
}

func TestExploreValidation(t *testing.T) {
	c, _ := exploringClosure(t)
	if _, err := c.Explore(ExploreOptions{}); apperrors.GetCode(err) != apperrors.ErrCodeInvalidOptions {
		t.Fatalf("zero bound: got %v", err)
	}

	bare, err := New(surface.UnitTorus(exact.Rationals()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bare.Explore(ExploreOptions{Bound: 1}); apperrors.GetCode(err) != apperrors.ErrCodeInvalidOptions {
		t.Fatalf("no decomposer: got %v", err)
	}
}

func TestExploreDepthFirst(t *testing.T) {
	c, d := exploringClosure(t)
	ex, err := c.Explore(ExploreOptions{Bound: 2, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	steps := sweep(t, ex)
	// The three edge slopes of the torus, each decomposed exactly once.
	if len(steps) != 3 || d.calls != 3 {
		t.Fatalf("steps %d, decompositions %d, want 3 and 3", len(steps), d.calls)
	}
	for _, s := range steps {
		if s.Decomposition == nil || s.Inserted != 0 || s.Dimension != 2 {
			t.Fatalf("read-only step: %+v", s)
		}
	}
}

func TestExploreBreadthFirst(t *testing.T) {
	c, d := exploringClosure(t)
	ex, err := c.Explore(ExploreOptions{Bound: 2, BreadthFirst: true, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	steps := sweep(t, ex)
	if len(steps) != 3 {
		t.Fatalf("steps: got %d, want 3", len(steps))
	}
	// The diagonal is longer than the unit edges and must come last.
	if !steps[2].Direction.Equal(qv(1, 1)) {
		t.Fatalf("last direction: got %s, want (1, 1)", steps[2].Direction)
	}
	if d.calls != 3 {
		t.Fatalf("decompositions: got %d, want 3", d.calls)
	}
}

func TestExploreResume(t *testing.T) {
	c, d := exploringClosure(t)
	ex, err := c.Explore(ExploreOptions{Bound: 1, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if steps := sweep(t, ex); len(steps) != 2 {
		t.Fatalf("first sweep: got %d steps, want 2", len(steps))
	}

	// A wider resumed sweep only decomposes the slopes it has not seen:
	// the unit edges are skipped, the diagonal is new.
	ex, err = c.Explore(ExploreOptions{Bound: 2, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	steps := sweep(t, ex)
	if len(steps) != 1 {
		t.Fatalf("second sweep: got %d steps, want 1", len(steps))
	}
	if !steps[0].Direction.Equal(qv(1, 1)) {
		t.Fatalf("second sweep direction: got %s, want (1, 1)", steps[0].Direction)
	}
	if d.calls != 3 {
		t.Fatalf("decompositions: got %d, want 3", d.calls)
	}
}

func TestExploreSector(t *testing.T) {
	c, _ := exploringClosure(t)
	sector := &Sector{Start: qv(1, 0), End: qv(1, 1)}
	ex, err := c.Explore(ExploreOptions{Bound: 2, Sector: sector, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	steps := sweep(t, ex)
	if len(steps) != 1 {
		t.Fatalf("steps: got %d, want 1", len(steps))
	}
	if !steps[0].Direction.Equal(qv(1, 0)) {
		t.Fatalf("direction: got %s, want (1, 0)", steps[0].Direction)
	}
}

func TestExploreCanceled(t *testing.T) {
	c, _ := exploringClosure(t)
	ex, err := c.Explore(ExploreOptions{Bound: 2, ReadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ex.Next(ctx); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestExploreAllSaturated(t *testing.T) {
	c, d := exploringClosure(t)
	dim, err := c.ExploreAll(context.Background(), ExploreOptions{Bound: 2})
	if err != nil {
		t.Fatal(err)
	}
	if dim != 2 {
		t.Fatalf("dimension: got %d, want 2", dim)
	}
	// The torus saturates on construction, so no direction is decomposed.
	if d.calls != 0 {
		t.Fatalf("decompositions: got %d, want 0", d.calls)
	}
}
