package orbit

import (
	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"
	"github.com/flatgeom/orbita/pkg/homology"
	"github.com/flatgeom/orbita/pkg/matrix"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// circumferenceWidth returns the circumference class of a cylinder in the
// surface basis, together with its width (the flow-transverse extent of its
// crossing connection).
func circumferenceWidth(b *homology.Basis, dec *flow.Decomposition, kz *cocycle, comp *flow.Component) ([]exact.Elem, exact.Elem, error) {
	per := comp.Perimeter()
	if len(per) == 0 {
		return nil, exact.Elem{}, apperrors.New(apperrors.ErrCodeBadDecomposition, "cylinder has an empty perimeter")
	}
	first := per[0]
	if dec.Vertical(first) {
		return nil, exact.Elem{}, apperrors.New(apperrors.ErrCodeBadDecomposition,
			"cylinder perimeter must start with a connection crossing the flow direction")
	}
	i, s := decode(kz.index[first])
	v := kz.dproj.Col(i)
	for j := range v {
		v[j] = signed(v[j], s)
	}
	x, err := kz.a.Solve(v)
	if err != nil {
		return nil, exact.Elem{}, apperrors.Wrap(apperrors.ErrCodeInvariantViolation, err,
			"solving for the circumference class")
	}
	circ := make([]exact.Elem, len(x))
	for j := range x {
		circ[j] = x[j].Neg()
	}

	hol, err := b.HolonomyDual(circ)
	if err != nil {
		return nil, exact.Elem{}, err
	}
	want, _ := comp.CircumferenceHolonomy()
	if !hol.Equal(want) {
		return nil, exact.Elem{}, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"circumference holonomy %s does not match component holonomy %s", hol, want)
	}

	u := dec.Direction()
	w := dec.Vector(first)
	width := u.Y.Mul(w.X).Sub(u.X.Mul(w.Y))
	if engine, ok := comp.Width(); ok && !width.Equal(engine) {
		return nil, exact.Elem{}, apperrors.New(apperrors.ErrCodeInvariantViolation,
			"recomputed width %s does not match component width %s", width, engine)
	}
	return circ, width, nil
}

// deformationSubspace returns cylinder deformation vectors of dec in the
// surface basis, per Wright's cylinder deformation theorem: cylinders with
// rationally dependent moduli must be twisted together, rationally
// independent ones can be twisted separately. The result is empty unless
// every component of dec is a cylinder.
func deformationSubspace(b *homology.Basis, dec *flow.Decomposition) ([][]exact.Elem, error) {
	comps := dec.Components()
	for _, comp := range comps {
		if comp.Class() != flow.Cylinder {
			return nil, nil
		}
	}
	kz, err := newCocycle(b, dec)
	if err != nil {
		return nil, err
	}

	f := b.Field()
	var vcyls [][]exact.Elem
	var moduli []exact.Elem
	for _, comp := range comps {
		circ, width, err := circumferenceWidth(b, dec, kz, comp)
		if err != nil {
			return nil, err
		}
		vcyl := make([]exact.Elem, len(circ))
		for j := range circ {
			vcyl[j] = width.Mul(circ[j])
		}
		vcyls = append(vcyls, vcyl)

		hol, _ := comp.CircumferenceHolonomy()
		area, _ := comp.Area()
		mod, err := area.Div(hol.NormSq())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeBadDecomposition, err,
				"computing the modulus of a cylinder")
		}
		moduli = append(moduli, mod)
	}

	if f.IsRational() {
		// All moduli are commensurable: a single combined twist.
		sum := make([]exact.Elem, b.Dim())
		for j := range sum {
			sum[j] = f.Zero()
		}
		for _, vcyl := range vcyls {
			for j := range sum {
				sum[j] = sum[j].Add(vcyl[j])
			}
		}
		return [][]exact.Elem{sum}, nil
	}
	return twistCombinations(f, moduli, vcyls)
}

// twistCombinations computes the independent twist directions over a number
// field: rational linear relations among the moduli constrain the twists,
// and each basis vector t of the space orthogonal to those relations yields
// the deformation Σ tᵢ/modᵢ · vcylᵢ.
func twistCombinations(f *exact.Field, moduli []exact.Elem, vcyls [][]exact.Elem) ([][]exact.Elem, error) {
	q := exact.Rationals()
	rows := make([][]exact.Elem, len(moduli))
	for i, mod := range moduli {
		coords := mod.Coords()
		rows[i] = make([]exact.Elem, len(coords))
		for j, c := range coords {
			rows[i][j] = q.FromRat(c)
		}
	}
	m, err := matrix.FromRows(q, rows)
	if err != nil {
		return nil, err
	}
	relations := m.LeftKernel()
	twists := relations.RightKernel()

	var out [][]exact.Elem
	for ti := 0; ti < twists.Rows(); ti++ {
		vec := make([]exact.Elem, len(vcyls[0]))
		for j := range vec {
			vec[j] = f.Zero()
		}
		for i := range moduli {
			t, _ := twists.At(ti, i).Rat()
			if t.Sign() == 0 {
				continue
			}
			coeff, err := f.FromRat(t).Div(moduli[i])
			if err != nil {
				return nil, err
			}
			for j := range vec {
				vec[j] = vec[j].Add(coeff.Mul(vcyls[i][j]))
			}
		}
		out = append(out, vec)
	}
	return out, nil
}
