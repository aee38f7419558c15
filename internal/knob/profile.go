package knob

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Type names an empirically measured knob variant.
type Type string

const (
	TypeAA Type = "AA"
	TypeAS Type = "AS"
)

// Knob radii in nm, half the measured knob diameters.
const (
	RadiusAA = 79.206 / 2.0
	RadiusAS = 108.289 / 2.0
)

// occupancyTolerance bounds how far an occupancy distribution may sum from 1.
const occupancyTolerance = 1e-6

// Measured fraction of discs per sector, apex first.
var (
	OccupancyAA = []float64{0.047076342223133109, 0.17041750404891309, 0.14288596678141868, 0.3429168902432384, 0.2967032967032967}
	OccupancyAS = []float64{0.03638455687749774, 0.061833159380116055, 0.18647013167014589, 0.25457432455680268, 0.21226516051360983, 0.097094298202712412, 0.15137836879911531}
)

// Sector is one ring of a knob between two polar angles.
type Sector struct {
	Index   int
	PolarLo float64
	PolarHi float64
}

// Profile is the static description of a knob type.
type Profile struct {
	Type   Type
	Radius float64
	// Bounds are the polar-angle cut-offs of the sectors, apex first.
	// Sector i spans Bounds[i]..Bounds[i+1].
	Bounds    []float64
	Occupancy []float64
}

// RingBounds returns n+1 polar angles asin(k/n), k = 0..n. The rings they
// delimit have equal width when the knob is viewed from above.
func RingBounds(n int) []float64 {
	out := make([]float64, n+1)
	for k := range out {
		out[k] = math.Asin(float64(k) / float64(n))
	}
	return out
}

// AA returns the AA knob profile: five rings on a 39.6 nm half-sphere.
func AA() Profile {
	return Profile{
		Type:      TypeAA,
		Radius:    RadiusAA,
		Bounds:    RingBounds(len(OccupancyAA)),
		Occupancy: append([]float64(nil), OccupancyAA...),
	}
}

// AS returns the AS knob profile: seven rings on a 54.1 nm half-sphere.
func AS() Profile {
	return Profile{
		Type:      TypeAS,
		Radius:    RadiusAS,
		Bounds:    RingBounds(len(OccupancyAS)),
		Occupancy: append([]float64(nil), OccupancyAS...),
	}
}

// ParseType accepts "AA" or "AS" in any case.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeAA:
		return TypeAA, nil
	case TypeAS:
		return TypeAS, nil
	}
	return "", fmt.Errorf("%w: unknown knob type %q", ErrInvalidProfile, s)
}

// ProfileFor returns the built-in profile for t.
func ProfileFor(t Type) (Profile, error) {
	switch t {
	case TypeAA:
		return AA(), nil
	case TypeAS:
		return AS(), nil
	}
	return Profile{}, fmt.Errorf("%w: unknown knob type %q", ErrInvalidProfile, t)
}

// NumSectors returns the number of rings in the profile.
func (p Profile) NumSectors() int {
	if len(p.Bounds) < 2 {
		return 0
	}
	return len(p.Bounds) - 1
}

// Sectors returns the ordered ring partition.
func (p Profile) Sectors() []Sector {
	out := make([]Sector, p.NumSectors())
	for i := range out {
		out[i] = Sector{Index: i, PolarLo: p.Bounds[i], PolarHi: p.Bounds[i+1]}
	}
	return out
}

// Validate checks the radius, the sector bounds and the occupancy
// distribution. A profile that fails here would silently produce degenerate
// knobs, so Build refuses it.
func (p Profile) Validate() error {
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidProfile, p.Radius)
	}
	if len(p.Bounds) < 2 {
		return fmt.Errorf("%w: need at least two sector bounds, got %d", ErrInvalidProfile, len(p.Bounds))
	}
	if len(p.Occupancy) != len(p.Bounds)-1 {
		return fmt.Errorf("%w: %d sectors but %d occupancy values", ErrInvalidProfile, len(p.Bounds)-1, len(p.Occupancy))
	}
	for i, b := range p.Bounds {
		if b < 0 || b > math.Pi/2+1e-12 || math.IsNaN(b) {
			return fmt.Errorf("%w: bound %d = %g outside the half-sphere", ErrInvalidProfile, i, b)
		}
		if i > 0 && b <= p.Bounds[i-1] {
			return fmt.Errorf("%w: bounds must increase, bound %d = %g after %g", ErrInvalidProfile, i, b, p.Bounds[i-1])
		}
	}
	for i, f := range p.Occupancy {
		if f < 0 || math.IsNaN(f) {
			return fmt.Errorf("%w: occupancy %d = %g", ErrInvalidProfile, i, f)
		}
	}
	if sum := floats.Sum(p.Occupancy); math.Abs(sum-1) > occupancyTolerance {
		return fmt.Errorf("%w: occupancy sums to %g, want 1", ErrInvalidProfile, sum)
	}
	return nil
}
