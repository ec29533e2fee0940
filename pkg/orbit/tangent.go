package orbit

import (
	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/matrix"
)

// Accumulator maintains a lower bound on the tangent space of the orbit
// closure: a growing subspace of K^d presented by the rows of a d×d matrix.
// Candidates are inserted greedily; a vector that does not increase the
// rank at the moment it is offered is discarded and never retried, so the
// subspace only ever grows.
type Accumulator struct {
	u    *matrix.Matrix
	rank int
}

// NewAccumulator returns an empty accumulator over K^d.
func NewAccumulator(f *exact.Field, d int) *Accumulator {
	return &Accumulator{u: matrix.New(f, d, d)}
}

// Insert offers a candidate vector. It reports whether the vector enlarged
// the subspace; candidates already in the span are dropped. Once the
// accumulator is full every candidate is dropped without inspection.
func (a *Accumulator) Insert(v []exact.Elem) (bool, error) {
	if a.IsFull() {
		return false, nil
	}
	if err := a.u.SetRow(a.rank, v); err != nil {
		return false, err
	}
	if r := a.u.Rank(); r > a.rank {
		a.rank = r
		return true, nil
	}
	return false, nil
}

// Rank returns the dimension of the accumulated subspace.
func (a *Accumulator) Rank() int { return a.rank }

// Dim returns the ambient dimension d.
func (a *Accumulator) Dim() int { return a.u.Rows() }

// IsFull reports whether the subspace saturated the ambient space.
func (a *Accumulator) IsFull() bool { return a.rank == a.u.Rows() }

// Basis returns copies of the rank rows spanning the subspace.
func (a *Accumulator) Basis() [][]exact.Elem {
	out := make([][]exact.Elem, a.rank)
	for i := range out {
		out[i] = a.u.Row(i)
	}
	return out
}

// basisMatrix returns the rank×d matrix of spanning rows.
func (a *Accumulator) basisMatrix() *matrix.Matrix {
	return a.u.Submatrix(0, a.rank, 0, a.u.Cols())
}
