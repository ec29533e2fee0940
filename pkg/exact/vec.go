package exact

import "fmt"

// Vec2 is a vector in the exact plane K². Both coordinates must belong to
// the same field.
type Vec2 struct {
	X, Y Elem
}

// V builds a vector from two elements of the same field.
func V(x, y Elem) Vec2 {
	mustSame(x, y)
	return Vec2{X: x, Y: y}
}

// Field returns the coordinate field.
func (v Vec2) Field() *Field { return v.X.Field() }

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{X: v.X.Add(w.X), Y: v.Y.Add(w.Y)} }

// Sub returns v − w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{X: v.X.Sub(w.X), Y: v.Y.Sub(w.Y)} }

// Neg returns −v.
func (v Vec2) Neg() Vec2 { return Vec2{X: v.X.Neg(), Y: v.Y.Neg()} }

// Scale returns s·v.
func (v Vec2) Scale(s Elem) Vec2 { return Vec2{X: v.X.Mul(s), Y: v.Y.Mul(s)} }

// Cross returns the planar cross product v.X·w.Y − v.Y·w.X.
func (v Vec2) Cross(w Vec2) Elem { return v.X.Mul(w.Y).Sub(v.Y.Mul(w.X)) }

// Dot returns the scalar product.
func (v Vec2) Dot(w Vec2) Elem { return v.X.Mul(w.X).Add(v.Y.Mul(w.Y)) }

// NormSq returns |v|² = v·v.
func (v Vec2) NormSq() Elem { return v.Dot(v) }

// IsZero reports whether both coordinates are exactly zero.
func (v Vec2) IsZero() bool { return v.X.IsZero() && v.Y.IsZero() }

// IsParallel reports whether v and w span a line, i.e. their cross product
// vanishes exactly. The zero vector is parallel to everything.
func (v Vec2) IsParallel(w Vec2) bool { return v.Cross(w).IsZero() }

// Equal reports exact coordinate-wise equality.
func (v Vec2) Equal(w Vec2) bool { return v.X.Equal(w.X) && v.Y.Equal(w.Y) }

// Key returns a canonical map key; equal vectors of the same field have
// equal keys.
func (v Vec2) Key() string { return v.X.Key() + "|" + v.Y.Key() }

// String renders the vector as "(x, y)".
func (v Vec2) String() string { return fmt.Sprintf("(%s, %s)", v.X, v.Y) }
