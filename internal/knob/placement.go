package knob

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/knobsim/internal/monitoring"
	"github.com/banshee-data/knobsim/internal/sphere"
)

// DefaultRelaxAfter is the number of consecutive rejected candidates after
// which a sector stops enforcing the overlap constraint.
const DefaultRelaxAfter = 100

// Options controls disc placement.
type Options struct {
	// DiscRadius is the PfEMP1 disc radius (r_thresh). Two discs overlap
	// when their centres are closer than 2*DiscRadius along the surface.
	DiscRadius float64
	// RelaxAfter is the consecutive-failure budget before a sector relaxes;
	// 0 means DefaultRelaxAfter.
	RelaxAfter int
	// AzimuthRetries, when positive, re-draws only the azimuth of a rejected
	// candidate up to this many times before counting a failure.
	AzimuthRetries int
}

func (o Options) relaxAfter() int {
	if o.RelaxAfter <= 0 {
		return DefaultRelaxAfter
	}
	return o.RelaxAfter
}

// Site is an accepted disc centre. Pos caches the Cartesian position on the
// knob the site was placed on.
type Site struct {
	Point  sphere.Point
	Pos    r3.Vec
	Sector int
}

// Placer fills one sector at a time with discs that do not overlap each
// other or any context site.
type Placer struct {
	radius         float64
	minSeparation  float64
	relaxAfter     int
	azimuthRetries int
	rng            *rand.Rand
}

// NewPlacer returns a Placer for a knob of the given radius.
func NewPlacer(radius float64, opts Options, rng *rand.Rand) *Placer {
	return &Placer{
		radius:         radius,
		minSeparation:  2 * opts.DiscRadius,
		relaxAfter:     opts.relaxAfter(),
		azimuthRetries: opts.AzimuthRetries,
		rng:            rng,
	}
}

// PlaceSector returns exactly n sites inside s. A candidate is accepted when
// its surface distance to every context site and every site already accepted
// in s is at least twice the disc radius. After more than RelaxAfter
// consecutive rejections the rest of the sector is placed without the check
// and relaxed is reported true. n <= 0 returns nothing without sampling.
func (p *Placer) PlaceSector(s Sector, n int, context []Site) (sites []Site, relaxed bool) {
	if n <= 0 {
		return nil, false
	}
	accepted := make([]Site, 0, n)
	failures := 0
	for len(accepted) < n {
		cand := p.site(s, SampleOne(p.rng, s))
		if relaxed || p.clear(cand.Pos, context, accepted) {
			accepted = append(accepted, cand)
			failures = 0
			continue
		}
		if alt, ok := p.retryAzimuth(s, cand.Point.Polar, context, accepted); ok {
			accepted = append(accepted, alt)
			failures = 0
			continue
		}
		failures++
		if failures > p.relaxAfter {
			relaxed = true
			monitoring.Warnf("sector %d: no overlap-free position after %d attempts, allowing overlap for the remaining %d of %d discs",
				s.Index, failures, n-len(accepted), n)
		}
	}
	return accepted, relaxed
}

// retryAzimuth keeps the rejected polar angle and spins the candidate around
// the knob axis.
func (p *Placer) retryAzimuth(s Sector, polar float64, context, accepted []Site) (Site, bool) {
	for i := 0; i < p.azimuthRetries; i++ {
		cand := p.site(s, sphere.Point{Polar: polar, Azimuth: sampleAzimuth(p.rng)})
		if p.clear(cand.Pos, context, accepted) {
			return cand, true
		}
	}
	return Site{}, false
}

func (p *Placer) site(s Sector, pt sphere.Point) Site {
	return Site{Point: pt, Pos: sphere.ToCartesian(pt, p.radius), Sector: s.Index}
}

// clear reports whether pos keeps the minimum separation from every site in
// both sets. Empty sets always pass.
func (p *Placer) clear(pos r3.Vec, sets ...[]Site) bool {
	for _, set := range sets {
		for _, other := range set {
			if sphere.SurfaceDistanceVec(pos, other.Pos, p.radius) < p.minSeparation {
				return false
			}
		}
	}
	return true
}
