package orbit

import (
	"context"

	"github.com/flatgeom/orbita/pkg/exact"
	"github.com/flatgeom/orbita/pkg/flow"

	apperrors "github.com/flatgeom/orbita/pkg/errors"
)

// Parabolic reports whether dec is completely periodic with pairwise
// commensurable cylinder moduli, i.e. whether some power of the shear along
// its direction stabilizes the surface. Over the rationals all moduli are
// commensurable, so the verdict is yes. A minimal component or two
// incommensurable moduli decide no; undetermined components leave the
// verdict unknown.
func (c *Closure) Parabolic(dec *flow.Decomposition) (flow.Verdict, error) {
	if c.basis.Field().IsRational() {
		return flow.VerdictYes, nil
	}
	verdict := flow.VerdictYes
	var mod0 exact.Elem
	var hol0 exact.Vec2
	have := false
	for _, comp := range dec.Components() {
		switch comp.Class() {
		case flow.Minimal:
			return flow.VerdictNo, nil
		case flow.Undetermined:
			verdict = flow.VerdictUnknown
			continue
		}
		hol, _ := comp.CircumferenceHolonomy()
		area, _ := comp.Area()
		mod, err := area.Div(hol.NormSq())
		if err != nil {
			return flow.VerdictUnknown, apperrors.Wrap(apperrors.ErrCodeBadDecomposition, err,
				"computing the modulus of a cylinder")
		}
		if !have {
			mod0, hol0, have = mod, hol, true
			continue
		}
		if !hol0.IsParallel(hol) {
			return flow.VerdictUnknown, apperrors.New(apperrors.ErrCodeInvariantViolation,
				"circumference holonomies %s and %s are not parallel", hol0, hol)
		}
		ratio, err := mod.Div(mod0)
		if err != nil {
			return flow.VerdictUnknown, apperrors.Wrap(apperrors.ErrCodeInternal, err, "comparing moduli")
		}
		if _, rational := ratio.Rat(); !rational {
			return flow.VerdictNo, nil
		}
	}
	return verdict, nil
}

// IsTeichmuellerCurve runs the decidable part of the Veech dichotomy: it
// sweeps directions up to bound and answers no as soon as one of them is
// not parabolic. Rational surfaces are square tiled and always lie on a
// Teichmüller curve; otherwise a clean sweep only yields unknown, since no
// finite search certifies the affirmative.
func (c *Closure) IsTeichmuellerCurve(ctx context.Context, bound int64) (flow.Verdict, error) {
	if c.basis.Field().IsRational() {
		return flow.VerdictYes, nil
	}
	ex, err := c.Explore(ExploreOptions{Bound: bound, ReadOnly: true})
	if err != nil {
		return flow.VerdictUnknown, err
	}
	for {
		step, err := ex.Next(ctx)
		if err != nil {
			return flow.VerdictUnknown, err
		}
		if step == nil {
			return flow.VerdictUnknown, nil
		}
		p, err := c.Parabolic(step.Decomposition)
		if err != nil {
			return flow.VerdictUnknown, err
		}
		if p == flow.VerdictNo {
			return flow.VerdictNo, nil
		}
	}
}
