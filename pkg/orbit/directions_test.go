package orbit

import (
	"context"
	"testing"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/surface"
)

func TestSectorContains(t *testing.T) {
	tests := []struct {
		name       string
		start, end exact.Vec2
		v          exact.Vec2
		want       bool
	}{
		{"Interior", qv(1, 0), qv(0, 1), qv(1, 1), true},
		{"StartInclusive", qv(1, 0), qv(0, 1), qv(1, 0), true},
		{"StartRay", qv(1, 0), qv(0, 1), qv(5, 0), true},
		{"EndExclusive", qv(1, 0), qv(0, 1), qv(0, 1), false},
		{"Outside", qv(1, 0), qv(0, 1), qv(-1, 1), false},
		{"Below", qv(1, 0), qv(0, 1), qv(1, -1), false},
		{"ReflexInterior", qv(0, 1), qv(1, 0), qv(-1, 0), true},
		{"ReflexBelow", qv(0, 1), qv(1, 0), qv(0, -1), true},
		{"ReflexExcluded", qv(0, 1), qv(1, 0), qv(1, 1), false},
		{"CoincidentOnRay", qv(1, 0), qv(2, 0), qv(3, 0), true},
		{"CoincidentOpposite", qv(1, 0), qv(2, 0), qv(-1, 0), false},
		{"CoincidentOff", qv(1, 0), qv(2, 0), qv(0, 1), false},
		{"HalfPlaneUpper", qv(1, 0), qv(-1, 0), qv(0, 1), true},
		{"HalfPlaneStart", qv(1, 0), qv(-1, 0), qv(1, 0), true},
		{"HalfPlaneLower", qv(1, 0), qv(-1, 0), qv(0, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sector{Start: tt.start, End: tt.end}
			if got := s.Contains(tt.v); got != tt.want {
				t.Fatalf("contains(%s): got %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestEdgeConnections(t *testing.T) {
	s := surface.UnitTorus(exact.Rationals())
	ctx := context.Background()

	short, err := EdgeConnections{}.Connections(ctx, s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(short) != 2 {
		t.Fatalf("bound 1: got %d vectors, want 2", len(short))
	}

	all, err := EdgeConnections{}.Connections(ctx, s, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("bound 2: got %d vectors, want 3", len(all))
	}
}

func TestSlopeKey(t *testing.T) {
	same := [][2]exact.Vec2{
		{qv(1, 0), qv(-3, 0)},
		{qv(1, 2), qv(2, 4)},
		{qv(1, 1), qv(-2, -2)},
	}
	for _, pair := range same {
		k0, err := slopeKey(pair[0])
		if err != nil {
			t.Fatal(err)
		}
		k1, err := slopeKey(pair[1])
		if err != nil {
			t.Fatal(err)
		}
		if k0 != k1 {
			t.Fatalf("%s and %s must share a slope key", pair[0], pair[1])
		}
	}

	k0, _ := slopeKey(qv(1, 2))
	k1, _ := slopeKey(qv(2, 1))
	if k0 == k1 {
		t.Fatal("distinct slopes must have distinct keys")
	}
}
