package homology

import (
	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/matrix"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// Lift maps basis coordinates back to a chain over all edges: the unique
// vector that restricts to v on the spanning edges and vanishes on every
// triangle boundary.
func (b *Basis) Lift(v []exact.Elem) ([]exact.Elem, error) {
	d := b.Dim()
	if len(v) != d {
		return nil, ErrDimension
	}
	n := b.s.Size()
	bdry := b.Boundaries()
	if d+len(bdry) != n+1 {
		return nil, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"lift system has %d equations for %d unknowns, want %d", d+len(bdry), n, n+1)
	}

	a := matrix.New(b.f, n+1, n)
	for i, e := range b.spanning {
		a.Set(i, int(e), b.f.One())
	}
	for i, row := range bdry {
		if err := a.SetRow(d+i, row); err != nil {
			return nil, err
		}
	}
	u := make([]exact.Elem, n+1)
	for i := range u {
		if i < d {
			u[i] = v[i]
		} else {
			u[i] = b.f.Zero()
		}
	}
	x, err := a.Solve(u)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvariantViolation, err,
			"lifting basis coordinates to an edge chain")
	}
	return x, nil
}
