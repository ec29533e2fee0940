package orbit

import (
	"testing"

	"github.com/flatgeom/orbita/pkg/exact"
)

func TestAccumulatorGreedy(t *testing.T) {
	q := exact.Rationals()
	acc := NewAccumulator(q, 2)
	if acc.Rank() != 0 || acc.Dim() != 2 || acc.IsFull() {
		t.Fatal("fresh accumulator must be empty")
	}

	ok, err := acc.Insert([]exact.Elem{q.FromInt(1), q.Zero()})
	if err != nil || !ok {
		t.Fatalf("first insert: ok=%v err=%v", ok, err)
	}
	if acc.Rank() != 1 {
		t.Fatalf("rank: got %d", acc.Rank())
	}

	// A dependent vector is discarded for good.
	ok, err = acc.Insert([]exact.Elem{q.FromInt(2), q.Zero()})
	if err != nil || ok {
		t.Fatalf("dependent insert: ok=%v err=%v", ok, err)
	}
	if acc.Rank() != 1 {
		t.Fatalf("rank after discard: got %d", acc.Rank())
	}

	ok, err = acc.Insert([]exact.Elem{q.Zero(), q.FromInt(1)})
	if err != nil || !ok {
		t.Fatalf("second insert: ok=%v err=%v", ok, err)
	}
	if !acc.IsFull() {
		t.Fatal("accumulator must saturate at the ambient dimension")
	}

	// Full accumulators drop everything without inspection.
	ok, err = acc.Insert([]exact.Elem{q.FromInt(3), q.FromInt(5)})
	if err != nil || ok {
		t.Fatalf("insert into full: ok=%v err=%v", ok, err)
	}

	basis := acc.Basis()
	if len(basis) != 2 {
		t.Fatalf("basis: got %d rows", len(basis))
	}
	wantRat(t, basis[0][0], "1")
	wantRat(t, basis[1][1], "1")
}

func TestAccumulatorShapeError(t *testing.T) {
	q := exact.Rationals()
	acc := NewAccumulator(q, 2)
	if _, err := acc.Insert([]exact.Elem{q.One()}); err == nil {
		t.Fatal("expected an error for a short vector")
	}
}
