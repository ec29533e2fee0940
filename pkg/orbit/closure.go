// Package orbit computes lower bound approximations to the tangent space of
// the GL(2,R)-orbit closure of a translation surface.
//
// A [Closure] starts from the holonomy subspace, which is always tangent,
// and grows by inserting cylinder deformation vectors extracted from flow
// decompositions (Wright's cylinder deformation theorem). Decompositions
// are supplied by an external engine through the flow package; the closure
// only consumes their combinatorics and exact geometry.
package orbit

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"
	"github.com/flatgeom/orbita/pkg/homology"
	"github.com/flatgeom/orbita/pkg/observability"
	"github.com/flatgeom/orbita/pkg/surface"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// Options configures a [Closure].
type Options struct {
	// Decomposer computes flow decompositions. Required for exploration;
	// a closure without one can still be updated from decompositions built
	// elsewhere.
	Decomposer flow.Decomposer

	// Source enumerates saddle-connection vectors for direction picking.
	// Defaults to the surface's own edges, which are always saddle
	// connections of a triangulated translation surface.
	Source flow.ConnectionSource

	// Logger receives structured progress logs. Defaults to the standard
	// logger.
	Logger *log.Logger

	// RunID tags all log lines of this closure. Defaults to a fresh UUID.
	RunID uuid.UUID
}

// ValidateAndSetDefaults fills in defaults for unset fields.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Source == nil {
		o.Source = EdgeConnections{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.RunID == uuid.Nil {
		o.RunID = uuid.New()
	}
	return nil
}

// Closure is the growing tangent-space approximation for one surface. It is
// not safe for concurrent use; explorations mutate it.
type Closure struct {
	s     surface.Surface
	basis *homology.Basis
	acc   *Accumulator
	opts  Options
	log   *log.Logger

	// visited deduplicates flow directions by slope across all explorations
	// of this closure; a line decomposed once is never decomposed again.
	visited map[string]bool
}

// New builds a closure for s. The tangent space is seeded with the two
// holonomy directions, which span the deformations by GL(2,R) itself.
func New(s surface.Surface, opts *Options) (*Closure, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	basis, err := homology.New(s)
	if err != nil {
		return nil, err
	}
	acc := NewAccumulator(basis.Field(), basis.Dim())
	ht := basis.HolonomyMatrix().Transpose()
	for i := 0; i < 2; i++ {
		ok, err := acc.Insert(ht.Row(i))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidSurface,
				"holonomy matrix does not have rank 2")
		}
	}

	c := &Closure{s: s, basis: basis, acc: acc, opts: o, visited: make(map[string]bool)}
	c.log = o.Logger.With("run", o.RunID.String())
	c.log.Debug("closure initialized", "ambient", basis.Dim(), "genus", surface.Genus(s))
	return c, nil
}

// Basis returns the underlying homology basis.
func (c *Closure) Basis() *homology.Basis { return c.basis }

// Dimension returns the current lower bound on the orbit-closure dimension.
func (c *Closure) Dimension() int { return c.acc.Rank() }

// AmbientDimension returns the rank d of H₁(S, Σ; Z).
func (c *Closure) AmbientDimension() int { return c.basis.Dim() }

// Saturated reports whether the tangent space filled the ambient space, at
// which point further exploration cannot change anything.
func (c *Closure) Saturated() bool { return c.acc.IsFull() }

// TangentSpaceBasis returns the accumulated spanning vectors in basis
// coordinates.
func (c *Closure) TangentSpaceBasis() [][]exact.Elem { return c.acc.Basis() }

// Lift maps basis coordinates to a chain over all surface edges.
func (c *Closure) Lift(v []exact.Elem) ([]exact.Elem, error) { return c.basis.Lift(v) }

// AbsoluteDimension returns the rank of the image of the tangent space in
// absolute homology, where marked points no longer contribute.
func (c *Closure) AbsoluteDimension() (int, error) {
	abs := c.basis.AbsoluteHomology()
	prod, err := abs.Mul(c.acc.basisMatrix().Transpose())
	if err != nil {
		return 0, err
	}
	return prod.Rank(), nil
}

// UpdateFromDecomposition inserts the cylinder deformation vectors of dec
// into the tangent space, returning how many of them enlarged it.
func (c *Closure) UpdateFromDecomposition(ctx context.Context, dec *flow.Decomposition) (int, error) {
	if c.acc.IsFull() {
		return 0, nil
	}
	vectors, err := deformationSubspace(c.basis, dec)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, v := range vectors {
		ok, err := c.acc.Insert(v)
		if err != nil {
			return inserted, err
		}
		observability.Tangent().OnInsert(ctx, ok, c.acc.Rank())
		if ok {
			inserted++
		}
		if c.acc.IsFull() {
			break
		}
	}
	if inserted > 0 {
		c.log.Debug("tangent space grew", "direction", dec.Direction().String(),
			"inserted", inserted, "dimension", c.acc.Rank())
	}
	return inserted, nil
}

// Decompose runs the configured decomposer in the given direction.
func (c *Closure) Decompose(ctx context.Context, direction exact.Vec2) (*flow.Decomposition, error) {
	if c.opts.Decomposer == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidOptions, "no decomposer configured")
	}
	if direction.IsZero() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidDirection, "direction is zero")
	}
	start := time.Now()
	dec, err := c.opts.Decomposer.Decompose(ctx, c.s, direction)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeBadDecomposition, err,
			"decomposing in direction %s", direction)
	}
	c.log.Debug("decomposed", "direction", direction.String(),
		"components", len(dec.Components()), "elapsed", time.Since(start))
	return dec, nil
}

// String describes the closure the way it prints in logs and the CLI.
func (c *Closure) String() string {
	return fmt.Sprintf("GL(2,R)-orbit closure of dimension at least %d in genus %d (ambient dimension %d)",
		c.acc.Rank(), surface.Genus(c.s), c.basis.Dim())
}
