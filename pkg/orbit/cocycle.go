package orbit

import (
	"math/big"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"
	"github.com/flatgeom/orbita/pkg/homology"
	"github.com/flatgeom/orbita/pkg/matrix"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// cocycle is the Kontsevich–Zorich base change attached to one flow
// decomposition: the decomposition's saddle connections form their own
// homology basis, and a is the d×d integer matrix expressing it in the
// surface basis. Its determinant is a unit.
type cocycle struct {
	a     *matrix.Matrix          // base change, d×d
	dproj *matrix.Matrix          // d×n projection onto the decomposition basis
	index map[flow.Connection]int // i for the indexing orientation, −i−1 reversed
	pos   []flow.Connection       // indexing orientation of connection i
}

// decode splits an index-map value into the connection index and the
// orientation sign.
func decode(i int) (int, int) {
	if i < 0 {
		return -i - 1, -1
	}
	return i, 1
}

// newCocycle builds the base change between the homology basis of b and the
// basis spanned by the saddle connections of dec.
func newCocycle(b *homology.Basis, dec *flow.Decomposition) (*cocycle, error) {
	comps := dec.Components()
	if len(comps) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeBadDecomposition, "decomposition has no components")
	}

	// Index each unoriented connection by its first appearance along the
	// perimeters.
	kz := &cocycle{index: make(map[flow.Connection]int)}
	compOf := make(map[flow.Connection]int)
	for i, comp := range comps {
		for _, c := range comp.Perimeter() {
			compOf[c] = i
			if _, ok := kz.index[c]; !ok {
				kz.index[c] = len(kz.pos)
				kz.index[c.Reversed()] = -len(kz.pos) - 1
				kz.pos = append(kz.pos, c)
			}
		}
	}
	n := len(kz.pos)
	f := dec.Field()

	// Spanning tree over the components, glued along reversed connections.
	seen := map[int]bool{0: true}
	todo := []int{0}
	var order []flow.Connection
	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for _, c := range comps[i].Perimeter() {
			c1 := c.Reversed()
			j, ok := compOf[c1]
			if !ok {
				return nil, apperrors.New(apperrors.ErrCodeBadDecomposition,
					"connection %s has no component", c1)
			}
			if !seen[j] {
				seen[j] = true
				todo = append(todo, j)
				order = append(order, c1)
			}
		}
	}
	if len(seen) != len(comps) {
		return nil, apperrors.New(apperrors.ErrCodeBadDecomposition,
			"components do not glue into a connected surface")
	}

	// Eliminate each tree-crossing connection against the perimeter
	// relation of its component, in reverse discovery order.
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
	inSpan := make([]bool, n)
	for i := range inSpan {
		inSpan[i] = true
	}
	for k := len(order) - 1; k >= 0; k-- {
		c1 := order[k]
		i1, s1 := decode(kz.index[c1])
		for j := range rows[i1] {
			rows[i1][j] = f.Zero()
		}
		for _, p := range comps[compOf[c1]].Perimeter() {
			if p == c1 {
				continue
			}
			j, s := decode(kz.index[p])
			for col := range rows[i1] {
				rows[i1][col] = rows[i1][col].Sub(signed(rows[j][col], s1*s))
			}
		}
		inSpan[i1] = false
	}

	var spanning []int
	for i, in := range inSpan {
		if in {
			spanning = append(spanning, i)
		}
	}
	m, err := matrix.FromRows(f, rows)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "assembling decomposition reduction")
	}
	if r := m.Rank(); r != len(spanning) || r != n-len(comps)+1 {
		return nil, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"decomposition basis has rank %d for %d spanning connections", r, len(spanning))
	}
	d := b.Dim()
	if len(spanning) != d {
		return nil, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"decomposition spans dimension %d, surface basis has %d", len(spanning), d)
	}

	kz.dproj = matrix.New(f, d, n)
	for i, sp := range spanning {
		for j := 0; j < n; j++ {
			kz.dproj.Set(i, j, rows[j][sp])
		}
	}

	// Base change rows: each spanning connection's chain, projected to the
	// surface basis.
	kz.a = matrix.New(f, d, d)
	for i, sp := range spanning {
		row, err := b.ProjectChain(dec.Chain(kz.pos[sp]))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeBadDecomposition, err,
				"projecting chain of connection %s", kz.pos[sp])
		}
		if err := kz.a.SetRow(i, row); err != nil {
			return nil, err
		}
	}
	det, err := kz.a.Det()
	if err != nil {
		return nil, err
	}
	if q, ok := det.Rat(); !ok || !q.IsInt() || new(big.Int).Abs(q.Num()).Cmp(big.NewInt(1)) != 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"base change determinant %s is not a unit", det)
	}
	return kz, nil
}

// signed returns e or −e according to sign.
func signed(e exact.Elem, sign int) exact.Elem {
	if sign < 0 {
		return e.Neg()
	}
	return e
}
