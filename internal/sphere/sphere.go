package sphere

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// chordSlack is the relative rounding allowance on the 2R chord bound.
const chordSlack = 1e-12

// Point is a position on a sphere in radians.
type Point struct {
	Polar   float64
	Azimuth float64
}

// ToCartesian converts p to Cartesian coordinates on a sphere of the given radius.
func ToCartesian(p Point, radius float64) r3.Vec {
	sinPolar, cosPolar := math.Sincos(p.Polar)
	sinAz, cosAz := math.Sincos(p.Azimuth)
	return r3.Vec{
		X: radius * sinPolar * cosAz,
		Y: radius * sinPolar * sinAz,
		Z: radius * cosPolar,
	}
}

// Chord returns the straight-line distance between two Cartesian positions.
func Chord(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// ChordToSurface maps a chord length d on a sphere of radius R to the model's
// surface distance R*asin(d*sqrt(4R²-d²)/(2R²)).
//
// This is not the great-circle arc length: the two agree for short chords and
// diverge once the points are more than a quarter circle apart.
func ChordToSurface(d, radius float64) (float64, error) {
	if radius <= 0 {
		return 0, fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	diameter := 2 * radius
	if d > diameter*(1+chordSlack) {
		return 0, fmt.Errorf("%w: chord %g, diameter %g", ErrChordExceedsDiameter, d, diameter)
	}
	r2 := radius * radius
	rem := 4*r2 - d*d
	if rem < 0 {
		rem = 0
	}
	arg := d * math.Sqrt(rem) / (2 * r2)
	if arg > 1 {
		arg = 1
	}
	return radius * math.Asin(arg), nil
}

// SurfaceDistance returns the surface distance between a and b on a sphere of
// the given radius. It panics if the chord between them is longer than the
// diameter, which means a point was built against a different radius.
func SurfaceDistance(a, b Point, radius float64) float64 {
	return SurfaceDistanceVec(ToCartesian(a, radius), ToCartesian(b, radius), radius)
}

// SurfaceDistanceVec is SurfaceDistance for positions already converted with
// ToCartesian against the same radius.
func SurfaceDistanceVec(a, b r3.Vec, radius float64) float64 {
	s, err := ChordToSurface(Chord(a, b), radius)
	if err != nil {
		panic(fmt.Sprintf("sphere: internal invariant violated: %v", err))
	}
	return s
}
