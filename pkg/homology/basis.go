// Package homology computes a basis of the relative homology
// H₁(S, Σ; Z) of a triangulated translation surface S with singularity set
// Σ, together with the structures the orbit-closure computation needs on
// top of it: the projection from edge chains to basis coordinates, the
// algebraic intersection form, and the holonomy embedding into the plane.
//
// The basis is a spanning set of edges obtained from a spanning tree of the
// dual graph: edges crossed by the tree are eliminated against the triangle
// relations, the rest freely generate H₁(S, Σ; Z).
package homology

import (
	"errors"
	"math/big"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/matrix"
	"github.com/flatgeom/orbita/pkg/surface"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

var (
	// ErrDisconnected is returned when the surface is not connected; the
	// dual spanning tree then cannot reach every face.
	ErrDisconnected = errors.New("surface is disconnected")

	// ErrDimension is returned when a coordinate vector does not match the
	// basis dimension.
	ErrDimension = errors.New("vector length does not match basis dimension")
)

// Basis is a basis of H₁(S, Σ; Z) by spanning edges, with the projection,
// intersection and holonomy matrices attached. A Basis is immutable after
// construction and safe for concurrent use.
type Basis struct {
	s        surface.Surface
	f        *exact.Field
	spanning []surface.Edge
	spanIdx  map[surface.Edge]int
	proj     *matrix.Matrix // d×n projection from edge chains to basis coordinates
	omega    *matrix.Matrix // d×d intersection form
	h        *matrix.Matrix // d×2 holonomy embedding
	hdual    *matrix.Matrix // Ω·H
	verts    [][]surface.HalfEdge
	vertOf   []int // source vertex index per half-edge
}

// New builds the homology basis of s, rooting the dual spanning tree at the
// face of the first half-edge.
func New(s surface.Surface) (*Basis, error) {
	return NewWithRoot(s, 0)
}

// NewWithRoot builds the homology basis of s with the dual spanning tree
// rooted at the face containing root. The choice of root changes the basis
// but not the homology it presents.
func NewWithRoot(s surface.Surface, root surface.HalfEdge) (*Basis, error) {
	n := s.Size()
	f := s.Field()

	order, err := spanningTree(s, root)
	if err != nil {
		return nil, err
	}

	// Eliminate each tree-crossing edge against its triangle relation, in
	// reverse discovery order so the right-hand sides are already reduced.
	rows := identityRows(f, n)
	for i := len(order) - 1; i >= 0; i-- {
		h1 := order[i]
		h2 := s.NextInFace(h1)
		h3 := s.NextInFace(h2)
		i1, s1 := int(h1.Edge()), h1.Sign()
		i2, s2 := int(h2.Edge()), h2.Sign()
		i3, s3 := int(h3.Edge()), h3.Sign()
		combo := make([]exact.Elem, n)
		for j := 0; j < n; j++ {
			t := signed(rows[i2][j], s2).Add(signed(rows[i3][j], s3))
			combo[j] = signed(t, -s1)
		}
		rows[i1] = combo
	}

	var spanning []surface.Edge
	inTree := make(map[surface.Edge]bool, len(order))
	for _, h := range order {
		inTree[h.Edge()] = true
	}
	for e := surface.Edge(0); int(e) < n; e++ {
		if !inTree[e] {
			spanning = append(spanning, e)
		}
	}
	d := len(spanning)
	if 3*d-3 != n {
		return nil, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"spanning set has %d edges for %d total, want 3d-3 = n", d, n)
	}

	m, err := matrix.FromRows(f, rows)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "assembling reduction matrix")
	}
	if r := m.Rank(); r != d {
		return nil, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"edge reduction has rank %d, want %d", r, d)
	}

	b := &Basis{s: s, f: f, spanning: spanning, spanIdx: make(map[surface.Edge]int, d)}
	for i, e := range spanning {
		b.spanIdx[e] = i
	}

	// Projection: coordinate i of a chain is its coefficient on spanning
	// edge i after the tree edges have been eliminated.
	b.proj = matrix.New(f, d, n)
	for i, e := range spanning {
		for j := 0; j < n; j++ {
			b.proj.Set(i, j, rows[j][int(e)])
		}
	}

	if err := b.buildIntersectionForm(); err != nil {
		return nil, err
	}

	b.h = matrix.New(f, d, 2)
	for i, e := range spanning {
		v := s.Vector(e.Positive())
		b.h.Set(i, 0, v.X)
		b.h.Set(i, 1, v.Y)
	}
	b.hdual, err = b.omega.Mul(b.h)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "computing dual holonomy")
	}

	b.verts = surface.Vertices(s)
	b.vertOf = make([]int, 2*n)
	for vi, orbit := range b.verts {
		for _, h := range orbit {
			b.vertOf[h] = vi
		}
	}
	return b, nil
}

// spanningTree walks the dual graph depth-first from the face of root and
// returns the tree-crossing half-edges in discovery order. A crossing
// half-edge belongs to the face it discovers.
func spanningTree(s surface.Surface, root surface.HalfEdge) ([]surface.HalfEdge, error) {
	rootFace := faceOf(s, root)
	seen := map[surface.HalfEdge]bool{rootFace: true}
	todo := []surface.HalfEdge{rootFace}
	var order []surface.HalfEdge
	for len(todo) > 0 {
		h := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for rangeIter := 0; rangeIter < 3; rangeIter++ {
			crossing := h.Opposite()
			g := faceOf(s, crossing)
			if !seen[g] {
				seen[g] = true
				todo = append(todo, g)
				order = append(order, crossing)
			}
			h = s.NextInFace(h)
		}
	}
	if len(seen) != 2*s.Size()/3 {
		return nil, ErrDisconnected
	}
	return order, nil
}

// faceOf returns the canonical (smallest) half-edge of the face of h.
func faceOf(s surface.Surface, h surface.HalfEdge) surface.HalfEdge {
	return min(h, min(s.NextInFace(h), s.NextInFace(s.NextInFace(h))))
}

func identityRows(f *exact.Field, n int) [][]exact.Elem {
	rows := make([][]exact.Elem, n)
	for i := range rows {
		rows[i] = make([]exact.Elem, n)
		for j := range rows[i] {
			if i == j {
				rows[i][j] = f.One()
			} else {
				rows[i][j] = f.Zero()
			}
		}
	}
	return rows
}

// signed returns e or −e according to the sign of a half-edge.
func signed(e exact.Elem, sign int) exact.Elem {
	if sign < 0 {
		return e.Neg()
	}
	return e
}

// Surface returns the underlying surface.
func (b *Basis) Surface() surface.Surface { return b.s }

// Field returns the coordinate field of the surface.
func (b *Basis) Field() *exact.Field { return b.f }

// Dim returns the rank d of H₁(S, Σ; Z), the ambient dimension of the
// orbit-closure computation.
func (b *Basis) Dim() int { return len(b.spanning) }

// SpanningSet returns the basis edges in increasing order.
func (b *Basis) SpanningSet() []surface.Edge {
	out := make([]surface.Edge, len(b.spanning))
	copy(out, b.spanning)
	return out
}

// ProjectionMatrix returns a copy of the d×n projection from integer edge
// chains to basis coordinates. Its entries are integers and it annihilates
// every face boundary.
func (b *Basis) ProjectionMatrix() *matrix.Matrix { return b.proj.Clone() }

// IntersectionMatrix returns a copy of the d×d algebraic intersection form
// Ω on the basis. Ω is skew-symmetric with integer entries.
func (b *Basis) IntersectionMatrix() *matrix.Matrix { return b.omega.Clone() }

// HolonomyMatrix returns a copy of the d×2 matrix H whose row i is the
// holonomy vector of spanning edge i.
func (b *Basis) HolonomyMatrix() *matrix.Matrix { return b.h.Clone() }

// DualHolonomyMatrix returns a copy of Ω·H.
func (b *Basis) DualHolonomyMatrix() *matrix.Matrix { return b.hdual.Clone() }

// ProjectChain maps an integer edge chain (one coefficient per edge) to its
// coordinates in the spanning basis.
func (b *Basis) ProjectChain(chain []*big.Int) ([]exact.Elem, error) {
	if len(chain) != b.s.Size() {
		return nil, ErrDimension
	}
	v := make([]exact.Elem, len(chain))
	for j, z := range chain {
		if z == nil {
			v[j] = b.f.Zero()
		} else {
			v[j] = b.f.FromBigInt(z)
		}
	}
	return b.proj.MulVec(v)
}

// Holonomy returns v·H, the total holonomy of the homology class with basis
// coordinates v.
func (b *Basis) Holonomy(v []exact.Elem) (exact.Vec2, error) {
	if len(v) != b.Dim() {
		return exact.Vec2{}, ErrDimension
	}
	w, err := b.h.VecMul(v)
	if err != nil {
		return exact.Vec2{}, err
	}
	return exact.V(w[0], w[1]), nil
}

// HolonomyDual returns v·Ω·H, the holonomy of v paired through the
// intersection form.
func (b *Basis) HolonomyDual(v []exact.Elem) (exact.Vec2, error) {
	if len(v) != b.Dim() {
		return exact.Vec2{}, ErrDimension
	}
	w, err := b.hdual.VecMul(v)
	if err != nil {
		return exact.Vec2{}, err
	}
	return exact.V(w[0], w[1]), nil
}

// Boundaries returns the triangle boundary chains of the surface, one
// length-n coefficient vector per face. Every boundary lies in the kernel
// of the projection matrix.
func (b *Basis) Boundaries() [][]exact.Elem {
	n := b.s.Size()
	var out [][]exact.Elem
	for _, face := range surface.Faces(b.s) {
		h1, h2, h3 := face[0], face[1], face[2]
		s1 := h1.Sign()
		v := make([]exact.Elem, n)
		for j := range v {
			v[j] = b.f.Zero()
		}
		v[h1.Edge()] = b.f.One()
		v[h2.Edge()] = signed(b.f.One(), s1*h2.Sign())
		v[h3.Edge()] = signed(b.f.One(), s1*h3.Sign())
		out = append(out, v)
	}
	return out
}
