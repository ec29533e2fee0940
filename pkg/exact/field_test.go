package exact

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRationalsSingleton(t *testing.T) {
	assert.Same(t, Rationals(), Rationals())
	assert.True(t, Rationals().IsRational())
	assert.Equal(t, 1, Rationals().Degree())
	assert.Nil(t, Rationals().Minpoly())
}

func TestNewNumberField(t *testing.T) {
	tests := []struct {
		name    string
		minpoly []*big.Rat
		approx  float64
		wantErr error
	}{
		{
			name:    "Sqrt2",
			minpoly: []*big.Rat{big.NewRat(-2, 1), big.NewRat(0, 1), big.NewRat(1, 1)},
			approx:  1.414,
		},
		{
			name:    "GoldenRatio",
			minpoly: []*big.Rat{big.NewRat(-1, 1), big.NewRat(-1, 1), big.NewRat(1, 1)},
			approx:  1.618,
		},
		{
			name:    "NonMonicNormalized",
			minpoly: []*big.Rat{big.NewRat(-4, 1), big.NewRat(0, 1), big.NewRat(2, 1)},
			approx:  1.414,
		},
		{
			name:    "DegreeTooLow",
			minpoly: []*big.Rat{big.NewRat(-2, 1), big.NewRat(1, 1)},
			approx:  2,
			wantErr: ErrInvalidMinpoly,
		},
		{
			name:    "ZeroLeadingCoefficient",
			minpoly: []*big.Rat{big.NewRat(-2, 1), big.NewRat(0, 1), new(big.Rat)},
			approx:  1.414,
			wantErr: ErrInvalidMinpoly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewNumberField("K", tt.minpoly, tt.approx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.minpoly)-1, f.Degree())
			// The generator must satisfy its minimal polynomial exactly.
			acc := f.Zero()
			pow := f.One()
			mono := f.Minpoly()
			for _, c := range mono {
				acc = acc.Add(pow.MulRat(c))
				pow = pow.Mul(f.Gen())
			}
			assert.True(t, acc.IsZero())
		})
	}
}

func TestRootRefinement(t *testing.T) {
	// A sloppy seed still converges to the actual root.
	f, err := NewNumberField("K", []*big.Rat{big.NewRat(-2, 1), big.NewRat(0, 1), big.NewRat(1, 1)}, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.4142135623730951, f.Gen().Approx(), 1e-12)
}

func TestFromCoords(t *testing.T) {
	f, err := NewNumberField("K", []*big.Rat{big.NewRat(-2, 1), big.NewRat(0, 1), big.NewRat(1, 1)}, 1.414)
	require.NoError(t, err)

	e, err := f.FromCoords([]*big.Rat{big.NewRat(1, 2), nil})
	require.NoError(t, err)
	r, ok := e.Rat()
	require.True(t, ok)
	assert.Equal(t, "1/2", r.RatString())

	_, err = f.FromCoords([]*big.Rat{big.NewRat(1, 2)})
	assert.ErrorIs(t, err, ErrInvalidCoords)
}
