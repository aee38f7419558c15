package density

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/knobsim/internal/knob"
)

func TestMatrix_UpperTriangular(t *testing.T) {
	a, err := AATable.Matrix()
	require.NoError(t, err)
	r, c := a.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 5, c)
	for s := 0; s < 5; s++ {
		for k := 0; k < s; k++ {
			assert.Zero(t, a.At(s, k))
		}
	}
	// Outermost sector of the central slice, and the lone patch of the last slice.
	assert.Equal(t, 0.129722, a.At(0, 4))
	assert.Equal(t, 0.0317364, a.At(0, 0))
	assert.Equal(t, 0.314159, a.At(4, 4))
}

func TestInvert_ReproducesKnobOccupancy(t *testing.T) {
	testCases := []struct {
		name   string
		table  PatchTable
		counts []float64
		radius float64
		want   []float64
	}{
		{"AA", AATable, AACounts, knob.RadiusAA, knob.OccupancyAA},
		{"AS", ASTable, ASCounts, knob.RadiusAS, knob.OccupancyAS},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Invert(tc.table, tc.counts, tc.radius)
			require.NoError(t, err)
			require.Len(t, p.Fractions, len(tc.want))
			for i := range tc.want {
				assert.InDelta(t, tc.want[i], p.Fractions[i], 1e-9, "sector %d", i)
			}
			assert.InDelta(t, 1, floats.Sum(p.Fractions), 1e-9)
			for _, d := range p.Density {
				assert.Greater(t, d, 0.0)
			}
		})
	}
}

func TestInvert_RadiusDoesNotChangeFractions(t *testing.T) {
	a, err := Invert(AATable, AACounts, 1)
	require.NoError(t, err)
	b, err := Invert(AATable, AACounts, knob.RadiusAA)
	require.NoError(t, err)
	for i := range a.Fractions {
		assert.InDelta(t, a.Fractions[i], b.Fractions[i], 1e-12)
	}
	// Densities scale with 1/R².
	assert.InDelta(t, a.Density[0]/(knob.RadiusAA*knob.RadiusAA), b.Density[0], 1e-12)
}

func TestInvert_Errors(t *testing.T) {
	short := AATable
	short.Patches = short.Patches[:14]
	negative := AATable
	negative.Patches = append([]float64(nil), AATable.Patches...)
	negative.Patches[3] = -1

	testCases := []struct {
		name   string
		table  PatchTable
		counts []float64
		radius float64
	}{
		{"patch_count", short, AACounts, 1},
		{"negative_patch", negative, AACounts, 1},
		{"no_sectors", PatchTable{}, nil, 1},
		{"count_length", AATable, ASCounts, 1},
		{"zero_radius", AATable, AACounts, 0},
		{"no_discs", AATable, []float64{0, 0, 0, 0, 0}, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Invert(tc.table, tc.counts, tc.radius)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTable), "got %v", err)
		})
	}
}

func TestProfileStep(t *testing.T) {
	p, err := Invert(ASTable, ASCounts, knob.RadiusAS)
	require.NoError(t, err)
	x, y := p.Step()
	require.Len(t, x, 2+2*7)
	require.Len(t, y, len(x))
	assert.Equal(t, 0.0, y[0])
	assert.Equal(t, 0.0, y[len(y)-1])
	assert.InDelta(t, knob.RadiusAS*1.5707963267948966, x[len(x)-1], 1e-9)
	assert.Equal(t, p.Normalized[2], y[5])
}
