package knob

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/banshee-data/knobsim/internal/sphere"
)

// Knob is one realisation of a profile: the accepted disc centres in sector
// order plus what happened while placing them.
type Knob struct {
	Type       Type
	Radius     float64
	DiscRadius float64
	// Counts holds the number of discs assigned to each sector.
	Counts []int
	Sites  []Site
	// RelaxedSectors lists the sectors whose placement gave up on the
	// overlap constraint.
	RelaxedSectors []int
}

// Len returns the number of discs on the knob.
func (k *Knob) Len() int { return len(k.Sites) }

// Points returns the disc centres in angular form.
func (k *Knob) Points() []sphere.Point {
	out := make([]sphere.Point, len(k.Sites))
	for i, s := range k.Sites {
		out[i] = s.Point
	}
	return out
}

// Relaxed reports whether any sector was placed with overlaps allowed.
func (k *Knob) Relaxed() bool { return len(k.RelaxedSectors) > 0 }

// AssignCounts splits total into per-sector counts by acceptance sampling:
// pick a sector uniformly, keep the increment with probability
// distribution[sector], stop when the counts reach total. The counts always
// sum to total and in expectation follow distribution.
func AssignCounts(total int, distribution []float64, rng *rand.Rand) ([]int, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, total)
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	if len(distribution) == 0 {
		return nil, fmt.Errorf("%w: no sectors", ErrInvalidDistribution)
	}
	var mass float64
	for i, p := range distribution {
		if p < 0 || math.IsNaN(p) {
			return nil, fmt.Errorf("%w: sector %d has probability %g", ErrInvalidDistribution, i, p)
		}
		mass += p
	}
	counts := make([]int, len(distribution))
	if total == 0 {
		return counts, nil
	}
	if mass == 0 {
		return nil, fmt.Errorf("%w: every sector has zero probability", ErrInvalidDistribution)
	}
	for placed := 0; placed < total; {
		i := rng.IntN(len(distribution))
		if rng.Float64() < distribution[i] {
			counts[i]++
			placed++
		}
	}
	return counts, nil
}

// Build assembles one knob of profile with total discs. Sectors are filled in
// order, and every sector treats the sites of the earlier sectors as fixed
// obstacles.
func Build(profile Profile, total int, opts Options, rng *rand.Rand) (*Knob, error) {
	if err := validateBuild(profile, total, opts, rng); err != nil {
		return nil, err
	}
	counts, err := AssignCounts(total, profile.Occupancy, rng)
	if err != nil {
		return nil, err
	}

	k := &Knob{
		Type:       profile.Type,
		Radius:     profile.Radius,
		DiscRadius: opts.DiscRadius,
		Counts:     counts,
		Sites:      make([]Site, 0, total),
	}
	placer := NewPlacer(profile.Radius, opts, rng)
	for _, s := range profile.Sectors() {
		sites, relaxed := placer.PlaceSector(s, counts[s.Index], k.Sites)
		if relaxed {
			k.RelaxedSectors = append(k.RelaxedSectors, s.Index)
		}
		k.Sites = append(k.Sites, sites...)
	}
	return k, nil
}

func validateBuild(profile Profile, total int, opts Options, rng *rand.Rand) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if total < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, total)
	}
	if opts.DiscRadius < 0 || math.IsNaN(opts.DiscRadius) || math.IsInf(opts.DiscRadius, 0) {
		return fmt.Errorf("%w: disc radius %g", ErrInvalidOptions, opts.DiscRadius)
	}
	if opts.AzimuthRetries < 0 {
		return fmt.Errorf("%w: azimuth retries %d", ErrInvalidOptions, opts.AzimuthRetries)
	}
	if rng == nil {
		return ErrNilRand
	}
	return nil
}
