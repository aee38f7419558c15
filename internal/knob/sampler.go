package knob

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/knobsim/internal/sphere"
)

// SampleOne draws a single point uniformly by solid angle inside s: azimuth
// uniform on [0, 2π), cosine of the polar angle uniform between the cosines
// of the two bounds. It ignores every placement constraint.
func SampleOne(rng *rand.Rand, s Sector) sphere.Point {
	azimuth := sampleAzimuth(rng)
	return sphere.Point{Polar: samplePolar(rng, s), Azimuth: azimuth}
}

// SampleInSector draws count independent points from s.
func SampleInSector(rng *rand.Rand, s Sector, count int) []sphere.Point {
	if count <= 0 {
		return nil
	}
	out := make([]sphere.Point, count)
	for i := range out {
		out[i] = SampleOne(rng, s)
	}
	return out
}

func samplePolar(rng *rand.Rand, s Sector) float64 {
	// cos is decreasing on [0, π/2], so the upper polar bound gives the lower cosine.
	c := distuv.Uniform{Min: math.Cos(s.PolarHi), Max: math.Cos(s.PolarLo), Src: rng}.Rand()
	return math.Acos(c)
}

func sampleAzimuth(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng}.Rand()
}
