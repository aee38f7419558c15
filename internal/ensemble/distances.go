package ensemble

import (
	"math"

	"github.com/banshee-data/knobsim/internal/knob"
	"github.com/banshee-data/knobsim/internal/sphere"
)

// NearestNeighborDistances returns, for each disc on k, the surface distance
// to its nearest other disc minus twice the disc radius (edge to edge rather
// than centre to centre). Knobs with fewer than two discs have no neighbours
// and yield an empty slice.
func NearestNeighborDistances(k *knob.Knob) []float64 {
	n := k.Len()
	if n < 2 {
		return []float64{}
	}
	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := sphere.SurfaceDistanceVec(k.Sites[i].Pos, k.Sites[j].Pos, k.Radius)
			if d < nearest[i] {
				nearest[i] = d
			}
			if d < nearest[j] {
				nearest[j] = d
			}
		}
	}
	gap := 2 * k.DiscRadius
	for i := range nearest {
		nearest[i] -= gap
	}
	return nearest
}
