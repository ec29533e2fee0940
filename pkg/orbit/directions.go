package orbit

import (
	"context"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/surface"
)

// Sector is an angular sector of directions, swept counterclockwise from
// Start (inclusive) to End (exclusive).
type Sector struct {
	Start, End exact.Vec2
}

// Contains reports whether the ray of v lies in the sector. Degenerate
// sectors with parallel boundary rays are treated as a half-plane when the
// rays oppose each other and as the single Start ray when they coincide.
func (s Sector) Contains(v exact.Vec2) bool {
	s0 := s.Start.Cross(v).Sign()
	s1 := v.Cross(s.End).Sign()
	switch s.Start.Cross(s.End).Sign() {
	case 1:
		return s0 >= 0 && s1 > 0
	case -1:
		return s0 >= 0 || s1 > 0
	default:
		if s.Start.Dot(s.End).Sign() > 0 {
			return s0 == 0 && s.Start.Dot(v).Sign() > 0
		}
		return s0 >= 0
	}
}

// EdgeConnections is the default connection source: it reports the edge
// vectors of the surface itself, which are saddle connections of any
// triangulation with vertices at the singularities. Longer connections need
// an external flat-geometry engine.
type EdgeConnections struct{}

// Connections returns the edge vectors with squared length at most bound².
func (EdgeConnections) Connections(_ context.Context, s surface.Surface, bound int64) ([]exact.Vec2, error) {
	limit := s.Field().FromInt(bound * bound)
	var out []exact.Vec2
	for e := surface.Edge(0); int(e) < s.Size(); e++ {
		v := s.Vector(e.Positive())
		if v.NormSq().Cmp(limit) <= 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

// slopeKey normalizes a vector to its slope representative and returns a
// canonical key: horizontal vectors map to (1, 0), everything else to
// (x/y, 1), so two vectors share a key exactly when they span the same
// line.
func slopeKey(v exact.Vec2) (string, error) {
	f := v.Field()
	if v.Y.IsZero() {
		return exact.V(f.One(), f.Zero()).Key(), nil
	}
	x, err := v.X.Div(v.Y)
	if err != nil {
		return "", err
	}
	return exact.V(x, f.One()).Key(), nil
}
