package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name    string
		samples []float64
		want    Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{4.2}, Summary{N: 1, Mean: 4.2}},
		{"four", []float64{1, 2, 3, 4}, Summary{N: 4, Mean: 2.5, StdDev: math.Sqrt(1.25), StdErr: math.Sqrt(1.25) / 2}},
		{"constant", []float64{3, 3, 3}, Summary{N: 3, Mean: 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.samples)
			assert.Equal(t, tc.want.N, got.N)
			assert.InDelta(t, tc.want.Mean, got.Mean, 1e-12)
			assert.InDelta(t, tc.want.StdDev, got.StdDev, 1e-12)
			assert.InDelta(t, tc.want.StdErr, got.StdErr, 1e-12)
		})
	}
}
