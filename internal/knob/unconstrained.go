package knob

import (
	"math"
	"math/rand/v2"

	"github.com/banshee-data/knobsim/internal/sphere"
)

// RoundedCounts gives each sector round(total*p) discs, rounding halves to
// even. Unlike AssignCounts the result need not sum to total.
func RoundedCounts(total int, distribution []float64) []int {
	out := make([]int, len(distribution))
	for i, p := range distribution {
		out[i] = int(math.RoundToEven(float64(total) * p))
	}
	return out
}

// PlaceUnconstrained spreads about total points over profile using
// RoundedCounts and the raw sector sampler, with no overlap check. It is the
// quick look at the density profile, not a disc model: DiscRadius is zero.
func PlaceUnconstrained(profile Profile, total int, rng *rand.Rand) (*Knob, error) {
	if err := validateBuild(profile, total, Options{}, rng); err != nil {
		return nil, err
	}
	counts := RoundedCounts(total, profile.Occupancy)
	k := &Knob{
		Type:   profile.Type,
		Radius: profile.Radius,
		Counts: counts,
	}
	for _, s := range profile.Sectors() {
		for _, pt := range SampleInSector(rng, s, counts[s.Index]) {
			k.Sites = append(k.Sites, Site{Point: pt, Pos: sphere.ToCartesian(pt, profile.Radius), Sector: s.Index})
		}
	}
	return k, nil
}
