// Package surface defines the contract between orbit-closure computations
// and translation surfaces: a half-edge view of a triangulated surface with
// exact holonomy vectors, plus an arena-backed reference implementation and
// a TOML loader for surface descriptions.
//
// Half-edges are integer handles. Edge e owns the two half-edges 2e (the
// positive orientation, carrying the edge's holonomy vector) and 2e+1 (the
// negative orientation, carrying its negation). Opposite(h) is h XOR 1 and
// the sign of h is determined by its parity. This fixed numbering lets
// downstream code index per-edge data with h>>1 and flip orientation without
// consulting the surface.
package surface

import (
	"sort"

	"github.com/flatgeom/orbita/pkg/exact"
)

// HalfEdge is an oriented edge handle. Valid handles lie in [0, 2n) for a
// surface with n edges.
type HalfEdge int

// Edge is an unoriented edge handle in [0, n).
type Edge int

// Positive returns the positively oriented half-edge of e.
func (e Edge) Positive() HalfEdge { return HalfEdge(2 * e) }

// Negative returns the negatively oriented half-edge of e.
func (e Edge) Negative() HalfEdge { return HalfEdge(2*e + 1) }

// Edge returns the unoriented edge underlying h.
func (h HalfEdge) Edge() Edge { return Edge(h >> 1) }

// Opposite returns the other orientation of the same edge.
func (h HalfEdge) Opposite() HalfEdge { return h ^ 1 }

// IsPositive reports whether h is the positive orientation of its edge.
func (h HalfEdge) IsPositive() bool { return h&1 == 0 }

// Sign returns +1 for positive half-edges and −1 for negative ones.
func (h HalfEdge) Sign() int {
	if h&1 == 0 {
		return 1
	}
	return -1
}

// Surface is the read-only half-edge view consumed by the homology and
// orbit-closure packages. Implementations must describe a closed, connected,
// positively oriented triangulated translation surface; [NewMesh] validates
// these properties for the reference implementation, external adapters are
// trusted.
type Surface interface {
	// Field returns the exact field containing all holonomy coordinates.
	Field() *exact.Field

	// Size returns the number of unoriented edges n. Valid half-edge
	// handles are exactly [0, 2n).
	Size() int

	// NextInFace returns the half-edge following h counterclockwise around
	// the triangle to its left.
	NextInFace(h HalfEdge) HalfEdge

	// NextAtVertex returns the next outgoing half-edge counterclockwise
	// around the source vertex of h.
	NextAtVertex(h HalfEdge) HalfEdge

	// Vector returns the holonomy of h. Vector(Opposite(h)) = −Vector(h).
	Vector(h HalfEdge) exact.Vec2
}

// PrevInFace returns the half-edge preceding h in its face.
func PrevInFace(s Surface, h HalfEdge) HalfEdge {
	return s.NextInFace(s.NextInFace(h))
}

// Faces enumerates the triangles of s. Each face is reported once, rotated
// so its smallest half-edge handle comes first, in increasing order of that
// handle.
func Faces(s Surface) [][3]HalfEdge {
	n := 2 * s.Size()
	seen := make([]bool, n)
	var faces [][3]HalfEdge
	for h := HalfEdge(0); int(h) < n; h++ {
		if seen[h] {
			continue
		}
		a, b, c := h, s.NextInFace(h), s.NextInFace(s.NextInFace(h))
		seen[a], seen[b], seen[c] = true, true, true
		faces = append(faces, [3]HalfEdge{a, b, c})
	}
	return faces
}

// Vertices enumerates the singularities of s. Each vertex is reported as the
// cyclic orbit of its outgoing half-edges under NextAtVertex, starting from
// the smallest handle, ordered by that handle.
func Vertices(s Surface) [][]HalfEdge {
	n := 2 * s.Size()
	seen := make([]bool, n)
	var verts [][]HalfEdge
	for h := HalfEdge(0); int(h) < n; h++ {
		if seen[h] {
			continue
		}
		var orbit []HalfEdge
		for at := h; !seen[at]; at = s.NextAtVertex(at) {
			seen[at] = true
			orbit = append(orbit, at)
		}
		verts = append(verts, orbit)
	}
	sort.Slice(verts, func(i, j int) bool { return verts[i][0] < verts[j][0] })
	return verts
}

// Genus returns the genus of s via the Euler characteristic
// V − E + F = 2 − 2g.
func Genus(s Surface) int {
	v := len(Vertices(s))
	e := s.Size()
	f := 2 * e / 3
	return (2 - (v - e + f)) / 2
}

// Area returns the total area of s, summing the triangle areas
// ½·(a × b) over all faces.
func Area(s Surface) exact.Elem {
	f := s.Field()
	twice := f.Zero()
	for _, face := range Faces(s) {
		twice = twice.Add(s.Vector(face[0]).Cross(s.Vector(face[1])))
	}
	half, err := twice.Div(f.FromInt(2))
	if err != nil {
		panic("surface: " + err.Error())
	}
	return half
}
