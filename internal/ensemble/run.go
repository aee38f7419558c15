package ensemble

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/knobsim/internal/knob"
)

// ErrInvalidParams reports a negative particle or trial count.
var ErrInvalidParams = errors.New("ensemble: invalid parameters")

// Params describes one particle-count group.
type Params struct {
	Profile       knob.Profile
	ParticleCount int
	Trials        int
	Options       knob.Options
	Seed          uint64
	// Workers bounds concurrent trials; 0 means GOMAXPROCS.
	Workers int
}

// Result is the concatenated distance sample set of one group.
type Result struct {
	Type          knob.Type
	ParticleCount int
	Trials        int
	Samples       []float64
	// Relaxations counts the trials in which at least one sector had to
	// allow overlapping discs.
	Relaxations int
}

// Summary summarises r.Samples.
func (r *Result) Summary() Summary { return Summarize(r.Samples) }

// TrialRand returns the independent stream for one trial of a group.
func TrialRand(seed uint64, particleCount, trial int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(particleCount)<<32|uint64(uint32(trial))))
}

// Run builds p.Trials knobs with p.ParticleCount discs each and concatenates
// their nearest-neighbour distances in trial order. Cancelling ctx stops new
// trials from starting and Run returns ctx.Err().
func Run(ctx context.Context, p Params) (*Result, error) {
	if p.ParticleCount < 0 || p.Trials < 0 {
		return nil, fmt.Errorf("%w: particles=%d trials=%d", ErrInvalidParams, p.ParticleCount, p.Trials)
	}
	if err := p.Profile.Validate(); err != nil {
		return nil, err
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	perTrial := make([][]float64, p.Trials)
	relaxed := make([]bool, p.Trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := 0; t < p.Trials; t++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			k, err := knob.Build(p.Profile, p.ParticleCount, p.Options, TrialRand(p.Seed, p.ParticleCount, t))
			if err != nil {
				return fmt.Errorf("trial %d: %w", t, err)
			}
			perTrial[t] = NearestNeighborDistances(k)
			relaxed[t] = k.Relaxed()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Type:          p.Profile.Type,
		ParticleCount: p.ParticleCount,
		Trials:        p.Trials,
		Samples:       make([]float64, 0, sampleCapacity(p)),
	}
	for t, d := range perTrial {
		res.Samples = append(res.Samples, d...)
		if relaxed[t] {
			res.Relaxations++
		}
	}
	return res, nil
}

func sampleCapacity(p Params) int {
	if p.ParticleCount < 2 {
		return 0
	}
	return p.ParticleCount * p.Trials
}
