// Package flow models flow decompositions of a translation surface: for a
// fixed direction, the partition of the surface into cylinders, minimal
// components and components an external engine could not determine.
//
// The package itself does not decompose anything. Decompositions are
// produced by an implementation of [Decomposer] (typically a wrapper around
// a flat-geometry engine) or assembled directly through [Builder]; the orbit
// package consumes them read-only.
package flow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/surface"
)

// Classification labels a flow component.
type Classification int

const (
	// Undetermined marks a component whose dynamics the producing engine
	// could not resolve within its budget.
	Undetermined Classification = iota

	// Cylinder marks a maximal family of closed parallel trajectories.
	Cylinder

	// Minimal marks a component in which every trajectory is dense.
	Minimal
)

// String returns the lowercase name of the classification.
func (c Classification) String() string {
	switch c {
	case Cylinder:
		return "cylinder"
	case Minimal:
		return "minimal"
	default:
		return "undetermined"
	}
}

// Verdict is a tri-state answer for properties that undetermined components
// leave open.
type Verdict int

const (
	// VerdictUnknown means the available data cannot decide the property.
	VerdictUnknown Verdict = iota

	// VerdictYes means the property holds.
	VerdictYes

	// VerdictNo means the property fails.
	VerdictNo
)

// String returns "yes", "no" or "unknown".
func (v Verdict) String() string {
	switch v {
	case VerdictYes:
		return "yes"
	case VerdictNo:
		return "no"
	default:
		return "unknown"
	}
}

// Connection is an oriented saddle connection of a decomposition. The zero
// orientation is the one registered with [Builder.AddConnection]; Rev marks
// the reversal. Connections are comparable and usable as map keys.
type Connection struct {
	ID  int
	Rev bool
}

// Reversed returns the same connection with the opposite orientation.
func (c Connection) Reversed() Connection { return Connection{ID: c.ID, Rev: !c.Rev} }

// String renders the connection as "+3" or "-3".
func (c Connection) String() string {
	if c.Rev {
		return fmt.Sprintf("-%d", c.ID)
	}
	return fmt.Sprintf("+%d", c.ID)
}

// Decomposition is an immutable flow decomposition: the saddle connections
// bounding its components, their holonomy vectors and homology chains, and
// the components themselves. Build one through [Builder].
type Decomposition struct {
	f         *exact.Field
	direction exact.Vec2
	vectors   []exact.Vec2 // holonomy of connection i, zero orientation
	chains    [][]*big.Int // edge-coefficient chain of connection i
	comps     []*Component
	compOf    map[Connection]*Component
}

// Component is one piece of a decomposition.
type Component struct {
	dec       *Decomposition
	class     Classification
	perimeter []Connection
	area      exact.Elem // cylinders only
	width     exact.Elem // cylinders only
}

// Field returns the coordinate field.
func (d *Decomposition) Field() *exact.Field { return d.f }

// Direction returns the flow direction.
func (d *Decomposition) Direction() exact.Vec2 { return d.direction }

// Connections returns the number of registered saddle connections.
func (d *Decomposition) Connections() int { return len(d.vectors) }

// Vector returns the holonomy of c.
func (d *Decomposition) Vector(c Connection) exact.Vec2 {
	v := d.vectors[c.ID]
	if c.Rev {
		return v.Neg()
	}
	return v
}

// Chain returns a copy of the homology chain of c as integer coefficients
// over the surface edges.
func (d *Decomposition) Chain(c Connection) []*big.Int {
	out := make([]*big.Int, len(d.chains[c.ID]))
	for i, z := range d.chains[c.ID] {
		if c.Rev {
			out[i] = new(big.Int).Neg(z)
		} else {
			out[i] = new(big.Int).Set(z)
		}
	}
	return out
}

// Vertical reports whether the holonomy of c is parallel to the flow
// direction.
func (d *Decomposition) Vertical(c Connection) bool {
	return d.Vector(c).IsParallel(d.direction)
}

// Components returns all components in registration order.
func (d *Decomposition) Components() []*Component {
	out := make([]*Component, len(d.comps))
	copy(out, d.comps)
	return out
}

// ComponentOf returns the component whose perimeter contains the oriented
// connection c, or nil.
func (d *Decomposition) ComponentOf(c Connection) *Component { return d.compOf[c] }

// Cylinders returns the cylinder components.
func (d *Decomposition) Cylinders() []*Component { return d.filter(Cylinder) }

// MinimalComponents returns the minimal components.
func (d *Decomposition) MinimalComponents() []*Component { return d.filter(Minimal) }

// UndeterminedComponents returns the components the engine left unresolved.
func (d *Decomposition) UndeterminedComponents() []*Component { return d.filter(Undetermined) }

func (d *Decomposition) filter(class Classification) []*Component {
	var out []*Component
	for _, c := range d.comps {
		if c.class == class {
			out = append(out, c)
		}
	}
	return out
}

// IsCompletelyPeriodic reports whether every component is a cylinder:
// VerdictNo as soon as a minimal component exists, VerdictUnknown while
// undetermined components remain.
func (d *Decomposition) IsCompletelyPeriodic() Verdict {
	verdict := VerdictYes
	for _, c := range d.comps {
		switch c.class {
		case Minimal:
			return VerdictNo
		case Undetermined:
			verdict = VerdictUnknown
		}
	}
	return verdict
}

// String summarizes the decomposition, e.g.
// "flow decomposition in direction (1, 0): 2 cylinders, 1 minimal".
func (d *Decomposition) String() string {
	s := fmt.Sprintf("flow decomposition in direction %s:", d.direction)
	s += fmt.Sprintf(" %d cylinders", len(d.Cylinders()))
	if n := len(d.MinimalComponents()); n > 0 {
		s += fmt.Sprintf(", %d minimal", n)
	}
	if n := len(d.UndeterminedComponents()); n > 0 {
		s += fmt.Sprintf(", %d undetermined", n)
	}
	return s
}

// Class returns the classification of the component.
func (c *Component) Class() Classification { return c.class }

// Perimeter returns the boundary walk of the component as oriented
// connections, with the component on the left.
func (c *Component) Perimeter() []Connection {
	out := make([]Connection, len(c.perimeter))
	copy(out, c.perimeter)
	return out
}

// Area returns the area of a cylinder component; ok is false for minimal
// and undetermined components.
func (c *Component) Area() (exact.Elem, bool) {
	if c.class != Cylinder {
		return exact.Elem{}, false
	}
	return c.area, true
}

// Width returns the flow-transverse extent of a cylinder component as
// reported by the producing engine; ok is false for minimal and undetermined
// components. The orbit computation rederives the width from the surface's
// holonomy embedding and asserts that both agree.
func (c *Component) Width() (exact.Elem, bool) {
	if c.class != Cylinder {
		return exact.Elem{}, false
	}
	return c.width, true
}

// CircumferenceHolonomy returns the holonomy of the core curve of a
// cylinder: the sum of the perimeter connections that point along the flow
// direction. ok is false for non-cylinders.
func (c *Component) CircumferenceHolonomy() (exact.Vec2, bool) {
	if c.class != Cylinder {
		return exact.Vec2{}, false
	}
	d := c.dec
	sum := exact.V(d.f.Zero(), d.f.Zero())
	for _, conn := range c.perimeter {
		v := d.Vector(conn)
		if v.IsParallel(d.direction) && v.Dot(d.direction).Sign() > 0 {
			sum = sum.Add(v)
		}
	}
	return sum, true
}

// Decomposer produces flow decompositions; implementations wrap an external
// flat-geometry engine.
type Decomposer interface {
	// Decompose computes the flow decomposition of s in the given
	// direction. The direction is nonzero; its length carries no meaning.
	Decompose(ctx context.Context, s surface.Surface, direction exact.Vec2) (*Decomposition, error)
}

// ConnectionSource enumerates saddle-connection holonomy vectors of a
// surface, used to pick candidate flow directions. Implementations keep
// vectors whose euclidean length is at most bound.
type ConnectionSource interface {
	Connections(ctx context.Context, s surface.Surface, bound int64) ([]exact.Vec2, error)
}
