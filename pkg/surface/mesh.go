package surface

import (
	"errors"
	"fmt"

	"github.com/flatgeom/orbita/pkg/exact"
)

var (
	// ErrEdgeCount is returned when the description has fewer than three
	// edges; the smallest triangulated translation surface is a torus with
	// three edges.
	ErrEdgeCount = errors.New("surface needs at least three edges")

	// ErrHalfEdgeRange is returned when a half-edge handle is out of range.
	ErrHalfEdgeRange = errors.New("half-edge handle out of range")

	// ErrNotTriangulated is returned when the face permutation does not
	// decompose the half-edges into 3-cycles.
	ErrNotTriangulated = errors.New("faces are not triangles")

	// ErrFaceNotClosed is returned when the holonomy vectors of a face do
	// not sum to zero.
	ErrFaceNotClosed = errors.New("face vectors do not sum to zero")

	// ErrZeroVector is returned when an edge carries a zero holonomy
	// vector.
	ErrZeroVector = errors.New("edge has zero holonomy vector")

	// ErrOrientation is returned when a face is not positively oriented,
	// i.e. some triangle turns clockwise.
	ErrOrientation = errors.New("face is not positively oriented")

	// ErrFieldMismatch is returned when an edge vector does not belong to
	// the surface field.
	ErrFieldMismatch = errors.New("edge vector belongs to a different field")
)

// Mesh is the arena-backed reference implementation of [Surface]: flat
// parallel slices indexed by half-edge handle. A Mesh is immutable after
// construction and safe for concurrent reads.
type Mesh struct {
	f    *exact.Field
	next []HalfEdge   // next-in-face permutation, length 2n
	prev []HalfEdge   // inverse of next
	vec  []exact.Vec2 // holonomy of the positive half-edge, length n
}

// NewMesh builds and validates a surface from its next-in-face permutation
// (length 2n) and per-edge holonomy vectors (length n, for the positive
// orientations). It verifies that next decomposes into 3-cycles, that every
// face closes up and turns counterclockwise, and that all vectors are
// nonzero elements of f.
func NewMesh(f *exact.Field, next []HalfEdge, vectors []exact.Vec2) (*Mesh, error) {
	n := len(vectors)
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrEdgeCount, n)
	}
	if len(next) != 2*n {
		return nil, fmt.Errorf("%w: %d half-edges for %d edges", ErrHalfEdgeRange, len(next), n)
	}
	m := &Mesh{f: f, next: make([]HalfEdge, 2*n), prev: make([]HalfEdge, 2*n), vec: make([]exact.Vec2, n)}
	copy(m.next, next)
	for i, v := range vectors {
		if v.X.Field() != f || v.Y.Field() != f {
			return nil, fmt.Errorf("%w: edge %d", ErrFieldMismatch, i)
		}
		if v.IsZero() {
			return nil, fmt.Errorf("%w: edge %d", ErrZeroVector, i)
		}
		m.vec[i] = v
	}

	hit := make([]int, 2*n)
	for h, nh := range m.next {
		if nh < 0 || int(nh) >= 2*n {
			return nil, fmt.Errorf("%w: next(%d) = %d", ErrHalfEdgeRange, h, nh)
		}
		hit[nh]++
	}
	for h, c := range hit {
		if c != 1 {
			return nil, fmt.Errorf("%w: half-edge %d has %d predecessors", ErrNotTriangulated, h, c)
		}
	}
	for h := range m.next {
		a := HalfEdge(h)
		b := m.next[a]
		c := m.next[b]
		if b == a || c == a || m.next[c] != a {
			return nil, fmt.Errorf("%w: half-edge %d does not close a 3-cycle", ErrNotTriangulated, h)
		}
		m.prev[b] = a
	}

	for _, face := range Faces(m) {
		va := m.Vector(face[0])
		vb := m.Vector(face[1])
		vc := m.Vector(face[2])
		if !va.Add(vb).Add(vc).IsZero() {
			return nil, fmt.Errorf("%w: face (%d %d %d)", ErrFaceNotClosed, face[0], face[1], face[2])
		}
		if va.Cross(vb).Sign() <= 0 {
			return nil, fmt.Errorf("%w: face (%d %d %d)", ErrOrientation, face[0], face[1], face[2])
		}
	}
	return m, nil
}

// Field returns the coordinate field of the mesh.
func (m *Mesh) Field() *exact.Field { return m.f }

// Size returns the number of unoriented edges.
func (m *Mesh) Size() int { return len(m.vec) }

// NextInFace returns the half-edge following h in its triangle.
func (m *Mesh) NextInFace(h HalfEdge) HalfEdge { return m.next[h] }

// NextAtVertex returns the next outgoing half-edge counterclockwise around
// the source vertex of h, which is the opposite of the predecessor of h in
// its face.
func (m *Mesh) NextAtVertex(h HalfEdge) HalfEdge { return m.prev[h].Opposite() }

// Vector returns the holonomy of h.
func (m *Mesh) Vector(h HalfEdge) exact.Vec2 {
	v := m.vec[h>>1]
	if h&1 == 1 {
		return v.Neg()
	}
	return v
}

// UnitTorus returns the square torus over f: three edges (1,0), (0,1) and
// (1,1) glued into two triangles around a single vertex.
func UnitTorus(f *exact.Field) *Mesh {
	vectors := []exact.Vec2{
		exact.V(f.One(), f.Zero()),
		exact.V(f.Zero(), f.One()),
		exact.V(f.One(), f.One()),
	}
	next := []HalfEdge{2, 3, 5, 4, 1, 0}
	m, err := NewMesh(f, next, vectors)
	if err != nil {
		panic("surface: unit torus: " + err.Error())
	}
	return m
}

// LSurface returns the genus-2 L-shaped surface over f: three unit squares
// at (0,0), (1,0) and (0,1) with opposite sides identified, each square cut
// along its main diagonal. The nine edges are the three horizontal sides,
// the three vertical sides and the three diagonals; all eighteen half-edges
// meet at a single singularity of cone angle 6π.
func LSurface(f *exact.Field) *Mesh {
	one, zero := f.One(), f.Zero()
	h := exact.V(one, zero)
	v := exact.V(zero, one)
	d := exact.V(one, one)
	vectors := []exact.Vec2{h, h, h, v, v, v, d, d, d}
	next := []HalfEdge{10, 9, 6, 11, 8, 7, 15, 12, 17, 16, 13, 14, 5, 0, 3, 2, 1, 4}
	m, err := NewMesh(f, next, vectors)
	if err != nil {
		panic("surface: L surface: " + err.Error())
	}
	return m
}
