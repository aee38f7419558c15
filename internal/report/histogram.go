package report

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData reports that there was nothing to draw.
var ErrNoData = errors.New("report: no data")

// Histogram is a binned sample set normalised to unit area.
type Histogram struct {
	// Edges has len(Density)+1 entries.
	Edges   []float64
	Counts  []float64
	Density []float64
}

// Centers returns the midpoint of every bin.
func (h Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return out
}

// Range returns the smallest and largest value over all sample sets.
func Range(sets ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range sets {
		if len(s) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(s))
		hi = math.Max(hi, floats.Max(s))
		ok = true
	}
	return lo, hi, ok
}

// Bin sorts a copy of samples into bins equal-width bins spanning [lo, hi].
// Values outside the range are dropped. A degenerate range is widened by
// half a unit on each side.
func Bin(samples []float64, bins int, lo, hi float64) Histogram {
	if bins < 1 {
		bins = 1
	}
	if !(hi > lo) {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram treats the last divider as exclusive.
	edges[bins] = math.Nextafter(hi, math.Inf(1))

	x := make([]float64, 0, len(samples))
	for _, v := range samples {
		if v >= lo && v <= hi {
			x = append(x, v)
		}
	}
	sort.Float64s(x)

	counts := stat.Histogram(nil, edges, x, nil)
	edges[bins] = hi

	h := Histogram{Edges: edges, Counts: counts, Density: make([]float64, bins)}
	total := floats.Sum(counts)
	if total == 0 {
		return h
	}
	width := (hi - lo) / float64(bins)
	for i, c := range counts {
		h.Density[i] = c / (total * width)
	}
	return h
}
