// Package density converts disc counts measured in equal-area slices of a
// knob into per-sector occupancy fractions.
//
// Slices and sectors cut the half-sphere into patches. Slice s crosses the
// sectors s..n-1, so the patch-area matrix is upper triangular. Solving
// A·ρ = c gives the disc density ρ of every sector. Its fraction of all discs
// is ρ times the sector area.
package density

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidTable reports a patch table or count vector that does not describe
// a solvable partition.
var ErrInvalidTable = errors.New("density: invalid patch table")

// PatchTable lists patch areas in units of R². Patches are stored slice by
// slice. Within slice s they run from the outermost sector n-1 inward to
// sector s, so the table holds n(n+1)/2 values.
type PatchTable struct {
	Name    string
	Sectors int
	// ZoneArea is the area of one slice on one half of the knob, in R².
	ZoneArea float64
	Patches  []float64
}

// Patch areas of the AA (15 patches) and AS (28 patches) partitions.
var (
	AATable = PatchTable{
		Name:     "AA",
		Sectors:  5,
		ZoneArea: 0.314159,
		Patches: []float64{
			0.129722, 0.0575678, 0.047787, 0.0473456, 0.0317364,
			0.136454, 0.0633804, 0.0622697, 0.0520555,
			0.154092, 0.0871022, 0.0729648,
			0.20805, 0.106109,
			0.314159,
		},
	}
	ASTable = PatchTable{
		Name:     "AS",
		Sectors:  7,
		ZoneArea: 0.224399,
		Patches: []float64{
			0.077595, 0.0336289, 0.0269923, 0.023959, 0.0225391, 0.0235741, 0.0161111,
			0.0794426, 0.0348242, 0.0284968, 0.0264048, 0.0294374, 0.0257937,
			0.0835817, 0.0376706, 0.0325264, 0.0365067, 0.0341141,
			0.0912602, 0.0437597, 0.0461, 0.0432795,
			0.106072, 0.0626943, 0.0556329,
			0.146733, 0.0776669,
			0.224399,
		},
	}
)

// Disc counts per slice measured on AA and AS knobs. Slice 0 runs through
// the apex; the last slice only touches the outer ring.
var (
	AACounts = []float64{98, 91, 73, 66, 36}
	ASCounts = []float64{57, 54, 55, 44, 27, 14, 11}
)

// Matrix returns the n×n patch-area matrix: row s is slice s, column k is
// sector k (apex first).
func (t PatchTable) Matrix() (*mat.Dense, error) {
	n := t.Sectors
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d sectors", ErrInvalidTable, n)
	}
	if want := n * (n + 1) / 2; len(t.Patches) != want {
		return nil, fmt.Errorf("%w: %s has %d patches, want %d for %d sectors", ErrInvalidTable, t.Name, len(t.Patches), want, n)
	}
	if !(t.ZoneArea > 0) {
		return nil, fmt.Errorf("%w: zone area %g", ErrInvalidTable, t.ZoneArea)
	}
	a := mat.NewDense(n, n, nil)
	i := 0
	for s := 0; s < n; s++ {
		for k := n - 1; k >= s; k-- {
			if t.Patches[i] <= 0 {
				return nil, fmt.Errorf("%w: patch %d of %s has area %g", ErrInvalidTable, i, t.Name, t.Patches[i])
			}
			a.Set(s, k, t.Patches[i])
			i++
		}
	}
	return a, nil
}

// Profile is the per-sector density derived from slice counts.
type Profile struct {
	Name   string
	Radius float64
	// Density is the disc density per sector in nm⁻², apex first.
	Density []float64
	// Fractions is each sector's share of all discs. Use it as the knob
	// occupancy distribution.
	Fractions []float64
	// ArcLengths are the outer arc-length bounds of the sectors, R·asin(k/n).
	ArcLengths []float64
	// Normalized is Density/N·1000, the quantity plotted against arc length.
	Normalized []float64
}

// Invert solves for the sector densities of a knob of the given radius from
// the disc counts of each slice, ordered as in the patch table. The counts
// cover both halves of the knob.
func Invert(t PatchTable, counts []float64, radius float64) (*Profile, error) {
	a, err := t.Matrix()
	if err != nil {
		return nil, err
	}
	n := t.Sectors
	if len(counts) != n {
		return nil, fmt.Errorf("%w: %d slice counts for %d sectors", ErrInvalidTable, len(counts), n)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius %g", ErrInvalidTable, radius)
	}
	total := floats.Sum(counts)
	if !(total > 0) {
		return nil, fmt.Errorf("%w: no discs counted", ErrInvalidTable)
	}

	r2 := radius * radius
	a.Scale(r2, a)

	// Each slice area is split evenly over the two halves, so the left-hand
	// side for one half is ZoneArea·R² times the slice density.
	sliceArea := 2 * t.ZoneArea * r2
	rhs := mat.NewVecDense(n, nil)
	for s, c := range counts {
		rhs.SetVec(s, t.ZoneArea*r2*c/sliceArea)
	}

	var rho mat.VecDense
	if err := rho.SolveVec(a, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}

	p := &Profile{
		Name:       t.Name,
		Radius:     radius,
		Density:    make([]float64, n),
		Fractions:  make([]float64, n),
		ArcLengths: make([]float64, n),
		Normalized: make([]float64, n),
	}
	for k := 0; k < n; k++ {
		d := rho.AtVec(k)
		sectorArea := floats.Sum(mat.Col(nil, k, a))
		p.Density[k] = d
		p.Fractions[k] = d * sectorArea * 2 / total
		p.ArcLengths[k] = radius * math.Asin(float64(k+1)/float64(n))
		p.Normalized[k] = d / total * 1000
	}
	return p, nil
}

// Step returns the density profile as a step curve: x alternates sector
// bounds in arc length, y holds each sector's normalized density, and the
// curve starts and ends at zero.
func (p *Profile) Step() (x, y []float64) {
	x = []float64{0, 0}
	y = []float64{0}
	for k := range p.ArcLengths {
		x = append(x, p.ArcLengths[k], p.ArcLengths[k])
		y = append(y, p.Normalized[k], p.Normalized[k])
	}
	y = append(y, 0)
	return x, y
}
