package flow

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/flatgeom/orbita/pkg/exact"
)

var (
	// ErrZeroDirection is returned when a builder is created with a zero
	// flow direction.
	ErrZeroDirection = errors.New("flow direction is zero")

	// ErrChainLength is returned when a connection's homology chain does
	// not have one coefficient per surface edge.
	ErrChainLength = errors.New("chain length does not match earlier connections")

	// ErrPerimeterOpen is returned when a component's perimeter vectors do
	// not sum to zero.
	ErrPerimeterOpen = errors.New("component perimeter does not close up")

	// ErrConnectionReuse is returned when an oriented connection appears in
	// more than one perimeter, or twice in one.
	ErrConnectionReuse = errors.New("oriented connection used twice")

	// ErrConnectionUnused is returned by Build when a registered connection
	// is missing from the perimeters in one of its orientations.
	ErrConnectionUnused = errors.New("oriented connection not used by any component")

	// ErrBadArea is returned when a cylinder is added with a non-positive
	// area.
	ErrBadArea = errors.New("cylinder area must be positive")

	// ErrBadWidth is returned when a cylinder is added with a non-positive
	// width.
	ErrBadWidth = errors.New("cylinder width must be positive")

	// ErrUnknownConnection is returned when a perimeter references a
	// connection that was never registered.
	ErrUnknownConnection = errors.New("perimeter references unregistered connection")
)

// Builder assembles a validated [Decomposition]. Register every saddle
// connection first, then add components; Build checks that the perimeters
// use each oriented connection exactly once and close up geometrically.
type Builder struct {
	d        *Decomposition
	chainLen int
	err      error
}

// NewBuilder starts a decomposition in the given direction over the field
// of the direction's coordinates.
func NewBuilder(direction exact.Vec2) *Builder {
	b := &Builder{d: &Decomposition{
		f:         direction.Field(),
		direction: direction,
		compOf:    make(map[Connection]*Component),
	}, chainLen: -1}
	if direction.IsZero() {
		b.err = ErrZeroDirection
	}
	return b
}

// AddConnection registers a saddle connection with its holonomy vector and
// its homology chain over the surface edges, returning the handle for the
// registered orientation. Errors are deferred to Build.
func (b *Builder) AddConnection(v exact.Vec2, chain []*big.Int) Connection {
	id := len(b.d.vectors)
	if b.err == nil {
		if b.chainLen == -1 {
			b.chainLen = len(chain)
		} else if len(chain) != b.chainLen {
			b.err = fmt.Errorf("%w: connection %d has %d coefficients, want %d", ErrChainLength, id, len(chain), b.chainLen)
		}
	}
	cp := make([]*big.Int, len(chain))
	for i, z := range chain {
		if z == nil {
			cp[i] = new(big.Int)
		} else {
			cp[i] = new(big.Int).Set(z)
		}
	}
	b.d.vectors = append(b.d.vectors, v)
	b.d.chains = append(b.d.chains, cp)
	return Connection{ID: id}
}

// AddCylinder adds a cylinder component with the given boundary walk, area
// and width.
func (b *Builder) AddCylinder(perimeter []Connection, area, width exact.Elem) {
	if b.err == nil && area.Sign() <= 0 {
		b.err = fmt.Errorf("%w: got %s", ErrBadArea, area)
		return
	}
	if b.err == nil && width.Sign() <= 0 {
		b.err = fmt.Errorf("%w: got %s", ErrBadWidth, width)
		return
	}
	b.addComponent(Cylinder, perimeter, area, width)
}

// AddMinimal adds a minimal component with the given boundary walk.
func (b *Builder) AddMinimal(perimeter []Connection) {
	b.addComponent(Minimal, perimeter, exact.Elem{}, exact.Elem{})
}

// AddUndetermined adds a component the engine could not classify.
func (b *Builder) AddUndetermined(perimeter []Connection) {
	b.addComponent(Undetermined, perimeter, exact.Elem{}, exact.Elem{})
}

func (b *Builder) addComponent(class Classification, perimeter []Connection, area, width exact.Elem) {
	if b.err != nil {
		return
	}
	comp := &Component{dec: b.d, class: class, area: area, width: width}
	comp.perimeter = make([]Connection, len(perimeter))
	copy(comp.perimeter, perimeter)
	for _, c := range perimeter {
		if c.ID < 0 || c.ID >= len(b.d.vectors) {
			b.err = fmt.Errorf("%w: %s", ErrUnknownConnection, c)
			return
		}
		if _, dup := b.d.compOf[c]; dup {
			b.err = fmt.Errorf("%w: %s", ErrConnectionReuse, c)
			return
		}
		b.d.compOf[c] = comp
	}
	b.d.comps = append(b.d.comps, comp)
}

// Build validates and returns the decomposition. The builder must not be
// used afterwards.
func (b *Builder) Build() (*Decomposition, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := b.d
	for id := range d.vectors {
		for _, c := range []Connection{{ID: id}, {ID: id, Rev: true}} {
			if _, ok := d.compOf[c]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrConnectionUnused, c)
			}
		}
	}
	for i, comp := range d.comps {
		sum := exact.V(d.f.Zero(), d.f.Zero())
		for _, c := range comp.perimeter {
			sum = sum.Add(d.Vector(c))
		}
		if !sum.IsZero() {
			return nil, fmt.Errorf("%w: component %d sums to %s", ErrPerimeterOpen, i, sum)
		}
	}
	return d, nil
}
