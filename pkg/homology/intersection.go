package homology

import (
	"github.com/flatgeom/orbita/pkg/matrix"
	"github.com/flatgeom/orbita/pkg/surface"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// buildIntersectionForm computes the algebraic intersection form on the
// spanning basis. Walking the boundary contour of the cut-open surface
// visits each spanning half-edge once; two basis classes intersect exactly
// when their endpoints interleave along that contour, with the sign given
// by their relative orientation.
func (b *Basis) buildIntersectionForm() error {
	d := len(b.spanning)
	spanHalf := make(map[surface.HalfEdge]bool, 2*d)
	for _, e := range b.spanning {
		spanHalf[e.Positive()] = true
		spanHalf[e.Negative()] = true
	}

	pos := make(map[surface.HalfEdge]int, 2*d)
	h := b.spanning[0].Positive()
	limit := 2 * b.s.Size()
	for {
		if _, seen := pos[h]; seen {
			break
		}
		pos[h] = len(pos)
		h = b.s.NextAtVertex(h.Opposite())
		for steps := 0; !spanHalf[h]; steps++ {
			if steps > limit {
				return apperrors.New(apperrors.ErrCodeInvariantViolation,
					"contour walk does not return to a spanning half-edge")
			}
			h = b.s.NextAtVertex(h)
		}
	}
	if len(pos) != 2*d {
		return apperrors.New(apperrors.ErrCodeInvariantViolation,
			"contour visits %d half-edges, want %d", len(pos), 2*d)
	}

	b.omega = matrix.New(b.f, d, d)
	for i := 0; i < d; i++ {
		pi1, pi2 := pos[b.spanning[i].Positive()], pos[b.spanning[i].Negative()]
		si := 1
		if pi1 > pi2 {
			si = -1
			pi1, pi2 = pi2, pi1
		}
		for j := i + 1; j < d; j++ {
			pj1, pj2 := pos[b.spanning[j].Positive()], pos[b.spanning[j].Negative()]
			sj := 1
			if pj1 > pj2 {
				sj = -1
				pj1, pj2 = pj2, pj1
			}

			// Disjoint or nested endpoint intervals do not intersect;
			// interleaved ones do, with sign by which class starts first.
			if pj2 < pi1 || pi2 < pj1 || (pj1 > pi1 && pj2 < pi2) || (pj1 < pi1 && pj2 > pi2) {
				continue
			}
			sign := si * sj
			if !(pi1 < pj1 && pj1 < pi2) {
				if !(pi1 < pj2 && pj2 < pi2) {
					return apperrors.New(apperrors.ErrCodeInvariantViolation,
						"inconsistent contour interleaving at basis classes %d, %d", i, j)
				}
				sign = -sign
			}
			b.omega.Set(i, j, signed(b.f.One(), sign))
			b.omega.Set(j, i, signed(b.f.One(), -sign))
		}
	}
	return nil
}
