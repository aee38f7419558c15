package ensemble

import "gonum.org/v1/gonum/stat"

// Summary describes one distance sample set.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	StdErr float64 `json:"stderr"`
}

// Summarize returns the mean, the population standard deviation and the
// standard error std/sqrt(n). Empty input gives a zero Summary.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	mean, std := stat.PopMeanStdDev(samples, nil)
	n := len(samples)
	return Summary{
		N:      n,
		Mean:   mean,
		StdDev: std,
		StdErr: stat.StdErr(std, float64(n)),
	}
}
