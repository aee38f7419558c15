package ensemble

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/knobsim/internal/knob"
)

func TestRun_SampleCount(t *testing.T) {
	for _, p := range []knob.Profile{knob.AA(), knob.AS()} {
		t.Run(string(p.Type), func(t *testing.T) {
			res, err := Run(context.Background(), Params{
				Profile:       p,
				ParticleCount: 3,
				Trials:        10,
				Options:       knob.Options{DiscRadius: 5.917},
				Seed:          1,
			})
			require.NoError(t, err)
			assert.Len(t, res.Samples, 30)
			assert.Equal(t, p.Type, res.Type)
			assert.Equal(t, 3, res.ParticleCount)
			assert.Equal(t, 10, res.Trials)
		})
	}
}

func TestRun_SameSamplesForAnyWorkerCount(t *testing.T) {
	params := Params{
		Profile:       knob.AS(),
		ParticleCount: 6,
		Trials:        40,
		Options:       knob.Options{DiscRadius: 5.917},
		Seed:          77,
	}
	params.Workers = 1
	serial, err := Run(context.Background(), params)
	require.NoError(t, err)

	params.Workers = 8
	parallel, err := Run(context.Background(), params)
	require.NoError(t, err)

	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("worker count changed the result (-serial +parallel):\n%s", diff)
	}
}

func TestRun_SeedsDiffer(t *testing.T) {
	base := Params{Profile: knob.AA(), ParticleCount: 4, Trials: 5, Options: knob.Options{DiscRadius: 1}}
	base.Seed = 1
	a, err := Run(context.Background(), base)
	require.NoError(t, err)
	base.Seed = 2
	b, err := Run(context.Background(), base)
	require.NoError(t, err)
	assert.NotEqual(t, a.Samples, b.Samples)
}

func TestRun_Degenerate(t *testing.T) {
	res, err := Run(context.Background(), Params{Profile: knob.AA(), ParticleCount: 0, Trials: 5, Options: knob.Options{DiscRadius: 1}})
	require.NoError(t, err)
	assert.Empty(t, res.Samples)
	assert.Equal(t, Summary{}, res.Summary())

	res, err = Run(context.Background(), Params{Profile: knob.AA(), ParticleCount: 4, Trials: 0})
	require.NoError(t, err)
	assert.Empty(t, res.Samples)
}

func TestRun_InvalidParams(t *testing.T) {
	_, err := Run(context.Background(), Params{Profile: knob.AA(), ParticleCount: -1, Trials: 1})
	assert.True(t, errors.Is(err, ErrInvalidParams))

	_, err = Run(context.Background(), Params{Profile: knob.AA(), ParticleCount: 1, Trials: -1})
	assert.True(t, errors.Is(err, ErrInvalidParams))

	bad := knob.AA()
	bad.Radius = 0
	_, err = Run(context.Background(), Params{Profile: bad, ParticleCount: 2, Trials: 1})
	assert.True(t, errors.Is(err, knob.ErrInvalidProfile))

	_, err = Run(context.Background(), Params{Profile: knob.AA(), ParticleCount: 2, Trials: 1, Options: knob.Options{DiscRadius: -1}})
	assert.True(t, errors.Is(err, knob.ErrInvalidOptions))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Params{Profile: knob.AA(), ParticleCount: 3, Trials: 100, Options: knob.Options{DiscRadius: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_CountsRelaxedTrials(t *testing.T) {
	// 25 nm discs on an AA knob cannot all fit, so most trials relax.
	res, err := Run(context.Background(), Params{
		Profile:       knob.AA(),
		ParticleCount: 10,
		Trials:        5,
		Options:       knob.Options{DiscRadius: 25, RelaxAfter: 5},
		Seed:          3,
	})
	require.NoError(t, err)
	assert.Len(t, res.Samples, 50)
	assert.Greater(t, res.Relaxations, 0)
}
