package orbit

import (
	"context"
	"time"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"
	"github.com/flatgeom/orbita/pkg/observability"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// ExploreOptions configures a direction sweep.
type ExploreOptions struct {
	// Bound limits the length of saddle connections used to pick
	// directions. Must be positive.
	Bound int64

	// Sector restricts exploration to directions inside the sector.
	Sector *Sector

	// BreadthFirst sweeps by increasing length bound instead of taking the
	// connections in source order; shorter directions are then guaranteed
	// to come first.
	BreadthFirst bool

	// ReadOnly computes decompositions without touching the tangent space.
	ReadOnly bool
}

// Step is the outcome of exploring one direction.
type Step struct {
	Direction     exact.Vec2
	Decomposition *flow.Decomposition
	Inserted      int // deformation vectors that enlarged the tangent space
	Dimension     int // dimension lower bound after this step
}

// Exploration sweeps flow directions one at a time. Directions are
// deduplicated by slope, so each line is decomposed at most once, including
// across resumed explorations that share the visited set via [Closure.Explore].
type Exploration struct {
	c       *Closure
	opts    ExploreOptions
	visited map[string]bool
	queue   []exact.Vec2
	stage   int64 // next length bound for breadth-first sweeps
	primed  bool
}

// Explore starts a direction sweep. The returned exploration is exhausted
// once every deduplicated direction within the bound was decomposed; it can
// be abandoned at any point.
func (c *Closure) Explore(opts ExploreOptions) (*Exploration, error) {
	if c.opts.Decomposer == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidOptions, "no decomposer configured")
	}
	if opts.Bound <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidOptions, "exploration bound must be positive")
	}
	return &Exploration{c: c, opts: opts, visited: c.visited}, nil
}

// Next explores one direction and returns what happened. It returns
// (nil, nil) when all directions within the bound are exhausted.
func (e *Exploration) Next(ctx context.Context) (*Step, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(e.queue) == 0 {
			if err := e.refill(ctx); err != nil {
				return nil, err
			}
			if len(e.queue) == 0 {
				return nil, nil
			}
		}
		v := e.queue[0]
		e.queue = e.queue[1:]

		key, err := slopeKey(v)
		if err != nil {
			return nil, err
		}
		if e.visited[key] {
			continue
		}
		if e.opts.Sector != nil && !e.opts.Sector.Contains(slopeOf(v)) {
			continue
		}
		e.visited[key] = true
		return e.step(ctx, v)
	}
}

func (e *Exploration) step(ctx context.Context, v exact.Vec2) (*Step, error) {
	hooks := observability.Exploration()
	hooks.OnDirectionStart(ctx, v.String())
	start := time.Now()

	dec, err := e.c.Decompose(ctx, v)
	if err != nil {
		hooks.OnDirectionComplete(ctx, v.String(), e.c.Dimension(), time.Since(start), err)
		return nil, err
	}
	step := &Step{Direction: v, Decomposition: dec}
	if !e.opts.ReadOnly {
		step.Inserted, err = e.c.UpdateFromDecomposition(ctx, dec)
	}
	step.Dimension = e.c.Dimension()
	hooks.OnDirectionComplete(ctx, v.String(), step.Dimension, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return step, nil
}

// refill fetches the next batch of candidate directions. Depth-first
// explorations fetch everything within the bound at once; breadth-first
// ones grow the length bound one step at a time.
func (e *Exploration) refill(ctx context.Context) error {
	if e.opts.BreadthFirst {
		for len(e.queue) == 0 && e.stage <= e.opts.Bound {
			vs, err := e.c.opts.Source.Connections(ctx, e.c.s, e.stage)
			if err != nil {
				return err
			}
			e.stage++
			e.queue = vs
		}
		return nil
	}
	if e.primed {
		return nil
	}
	e.primed = true
	vs, err := e.c.opts.Source.Connections(ctx, e.c.s, e.opts.Bound)
	if err != nil {
		return err
	}
	e.queue = vs
	return nil
}

// slopeOf maps v to its slope representative, matching the normalization of
// slopeKey.
func slopeOf(v exact.Vec2) exact.Vec2 {
	f := v.Field()
	if v.Y.IsZero() {
		return exact.V(f.One(), f.Zero())
	}
	x, err := v.X.Div(v.Y)
	if err != nil {
		panic("orbit: " + err.Error())
	}
	return exact.V(x, f.One())
}

// ExploreAll sweeps every direction within the options' bound, stopping
// early when the tangent space saturates. It returns the dimension lower
// bound reached.
func (c *Closure) ExploreAll(ctx context.Context, opts ExploreOptions) (int, error) {
	ex, err := c.Explore(opts)
	if err != nil {
		return c.Dimension(), err
	}
	for {
		if c.Saturated() {
			observability.Exploration().OnSaturated(ctx, c.Dimension())
			c.log.Info("tangent space saturated", "dimension", c.Dimension())
			return c.Dimension(), nil
		}
		step, err := ex.Next(ctx)
		if err != nil {
			return c.Dimension(), err
		}
		if step == nil {
			return c.Dimension(), nil
		}
	}
}
