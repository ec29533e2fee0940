package orbit

import (
	"math/big"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/matrix"
)

// Subfield describes the field of definition of the current tangent space:
// the smallest subfield of the surface field containing the entries of its
// echelonized basis. It is presented by its degree over Q and a Q-vector
// space basis inside the ambient field, closed under multiplication.
type Subfield struct {
	Degree int
	Basis  []exact.Elem
}

// FieldOfDefinition computes the field of definition of the tangent space.
// This echelonizes the accumulated basis, which can be expensive while the
// computation has not saturated, and the answer may shrink as the tangent
// space grows.
func (c *Closure) FieldOfDefinition() (Subfield, error) {
	f := c.basis.Field()
	if f.IsRational() {
		return Subfield{Degree: 1, Basis: []exact.Elem{f.One()}}, nil
	}
	ech, _ := c.acc.basisMatrix().EchelonForm()
	gens := []exact.Elem{f.One()}
	for i := 0; i < ech.Rows(); i++ {
		for j := 0; j < ech.Cols(); j++ {
			if e := ech.At(i, j); !e.IsZero() {
				gens = append(gens, e)
			}
		}
	}

	// Close the Q-span of the entries under multiplication; the loop
	// terminates because the dimension is bounded by the field degree.
	basis, err := qSpanBasis(f, gens)
	if err != nil {
		return Subfield{}, err
	}
	for {
		ext := make([]exact.Elem, 0, len(basis)*(len(basis)+3)/2)
		ext = append(ext, basis...)
		for i := range basis {
			for j := i; j < len(basis); j++ {
				ext = append(ext, basis[i].Mul(basis[j]))
			}
		}
		closed, err := qSpanBasis(f, ext)
		if err != nil {
			return Subfield{}, err
		}
		if len(closed) == len(basis) {
			break
		}
		basis = closed
	}
	return Subfield{Degree: len(basis), Basis: basis}, nil
}

// qSpanBasis returns field elements whose coordinate vectors form a basis
// of the Q-span of the given elements.
func qSpanBasis(f *exact.Field, elems []exact.Elem) ([]exact.Elem, error) {
	q := exact.Rationals()
	rows := make([][]exact.Elem, len(elems))
	for i, e := range elems {
		coords := e.Coords()
		rows[i] = make([]exact.Elem, len(coords))
		for j, c := range coords {
			rows[i][j] = q.FromRat(c)
		}
	}
	m, err := matrix.FromRows(q, rows)
	if err != nil {
		return nil, err
	}
	ech, pivots := m.EchelonForm()
	out := make([]exact.Elem, 0, len(pivots))
	for i := range pivots {
		row := ech.Row(i)
		coords := make([]*big.Rat, len(row))
		for j, c := range row {
			coords[j], _ = c.Rat()
		}
		e, err := f.FromCoords(coords)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
