package sphere

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const radiusAA = 79.206 / 2.0

func TestToCartesian_Convention(t *testing.T) {
	testCases := []struct {
		name    string
		p       Point
		x, y, z float64
	}{
		{"apex", Point{Polar: 0, Azimuth: 1.3}, 0, 0, 2},
		{"equator_x", Point{Polar: math.Pi / 2, Azimuth: 0}, 2, 0, 0},
		{"equator_y", Point{Polar: math.Pi / 2, Azimuth: math.Pi / 2}, 0, 2, 0},
		{"equator_neg_x", Point{Polar: math.Pi / 2, Azimuth: math.Pi}, -2, 0, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := ToCartesian(tc.p, 2)
			assert.InDelta(t, tc.x, v.X, 1e-12)
			assert.InDelta(t, tc.y, v.Y, 1e-12)
			assert.InDelta(t, tc.z, v.Z, 1e-12)
		})
	}
}

func TestToCartesian_OnSphere(t *testing.T) {
	for _, p := range []Point{{0.3, 0.1}, {1.2, 4.0}, {math.Pi / 2, 6.0}} {
		v := ToCartesian(p, radiusAA)
		norm := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
		assert.InDelta(t, radiusAA, norm, 1e-9)
	}
}

func TestSurfaceDistance_SelfIsZero(t *testing.T) {
	for _, p := range []Point{{0, 0}, {0.7, 2.1}, {math.Pi / 2, 5.5}} {
		assert.Equal(t, 0.0, SurfaceDistance(p, p, radiusAA))
	}
}

func TestSurfaceDistance_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{{0.1, 0.2}, {0.9, 3.0}},
		{{0, 0}, {math.Pi / 2, 1}},
		{{1.4, 0.3}, {1.5, 6.1}},
	}
	for _, pr := range pairs {
		ab := SurfaceDistance(pr[0], pr[1], radiusAA)
		ba := SurfaceDistance(pr[1], pr[0], radiusAA)
		assert.InDelta(t, ab, ba, 1e-12)
	}
}

func TestChordToSurface_Formula(t *testing.T) {
	// Short chords approach the chord length itself.
	s, err := ChordToSurface(0.01, radiusAA)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, s, 1e-6)

	// A quarter circle apart: chord R*sqrt(2), argument 1, surface R*pi/2.
	s, err = ChordToSurface(radiusAA*math.Sqrt2, radiusAA)
	require.NoError(t, err)
	assert.InDelta(t, radiusAA*math.Pi/2, s, 1e-6)

	// Antipodal points collapse back to zero under this model.
	s, err = ChordToSurface(2*radiusAA, radiusAA)
	require.NoError(t, err)
	assert.InDelta(t, 0, s, 1e-9)
}

func TestSurfaceDistance_MatchesArcForCloseNeighbours(t *testing.T) {
	a := Point{Polar: 0.5, Azimuth: 1.0}
	b := Point{Polar: 0.55, Azimuth: 1.0}
	// Same meridian: arc length is R * delta polar.
	assert.InDelta(t, radiusAA*0.05, SurfaceDistance(a, b, radiusAA), 1e-3)
}

func TestChordToSurface_DomainViolation(t *testing.T) {
	_, err := ChordToSurface(2*radiusAA*1.001, radiusAA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChordExceedsDiameter))

	_, err = ChordToSurface(1, 0)
	assert.True(t, errors.Is(err, ErrInvalidRadius))
}

func TestSurfaceDistanceVec_PanicsOnMixedRadii(t *testing.T) {
	a := ToCartesian(Point{Polar: math.Pi / 2, Azimuth: 0}, 100)
	b := ToCartesian(Point{Polar: math.Pi / 2, Azimuth: math.Pi}, 100)
	assert.Panics(t, func() {
		SurfaceDistanceVec(a, b, radiusAA)
	})
}
