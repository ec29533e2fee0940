package homology

import (
	"github.com/flatgeom/orbita/pkg/matrix"
)

// AbsoluteHomology returns a matrix whose rows, in basis coordinates, span
// the absolute homology H₁(S; Z) inside H₁(S, Σ; Z): the classes whose
// boundary on the singularities vanishes. With a single singularity the two
// coincide and the identity is returned.
func (b *Basis) AbsoluteHomology() *matrix.Matrix {
	d := b.Dim()
	m := len(b.verts)
	if m == 1 {
		return matrix.Identity(b.f, d)
	}
	bd := matrix.New(b.f, d, m)
	for i, e := range b.spanning {
		hp := e.Positive()
		src := b.vertOf[hp]
		dst := b.vertOf[hp.Opposite()]
		if src != dst {
			bd.Set(i, dst, b.f.One())
			bd.Set(i, src, b.f.FromInt(-1))
		}
	}
	return bd.LeftKernel()
}
