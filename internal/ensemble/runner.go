package ensemble

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/knobsim/internal/knob"
	"github.com/banshee-data/knobsim/internal/monitoring"
	"github.com/banshee-data/knobsim/internal/timeutil"
)

// RunStatus represents the current state of an ensemble run.
type RunStatus string

const (
	RunStatusIdle     RunStatus = "idle"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusError    RunStatus = "error"
)

// Group is one particle count and the number of knobs to build for it.
type Group struct {
	ParticleCount int `json:"particle_count"`
	Trials        int `json:"trials"`
}

// Plan describes a full run over several particle counts.
type Plan struct {
	Profile knob.Profile
	Options knob.Options
	Groups  []Group
	Seed    uint64
	Workers int
}

// GroupSummary is the per-group line of a run's state.
type GroupSummary struct {
	Group
	Summary
	Relaxations int `json:"relaxations"`
}

// RunState holds the progress and results of a run.
type RunState struct {
	RunID           string         `json:"run_id"`
	Type            knob.Type      `json:"knob_type"`
	Status          RunStatus      `json:"status"`
	StartedAt       *time.Time     `json:"started_at,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	TotalGroups     int            `json:"total_groups"`
	CompletedGroups int            `json:"completed_groups"`
	Summaries       []GroupSummary `json:"summaries"`
	Error           string         `json:"error,omitempty"`
}

// Runner executes a Plan group by group and forwards every finished group to
// its sinks.
type Runner struct {
	mu    sync.RWMutex
	state RunState
	sinks []Sink
	clock timeutil.Clock
}

// NewRunner creates a runner with a fresh run ID.
func NewRunner(sinks ...Sink) *Runner {
	return &Runner{
		state: RunState{RunID: uuid.New().String(), Status: RunStatusIdle},
		sinks: sinks,
		clock: timeutil.RealClock{},
	}
}

// SetClock replaces the clock used for run timestamps.
func (r *Runner) SetClock(c timeutil.Clock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = c
}

// AddSink registers another sink. It must not be called while a run is in
// progress.
func (r *Runner) AddSink(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// RunID returns the run identifier.
func (r *Runner) RunID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.RunID
}

// State returns a copy of the current run state.
func (r *Runner) State() RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state := r.state
	state.Summaries = append([]GroupSummary(nil), r.state.Summaries...)
	return state
}

// Run executes every group of plan in order. Groups use the same seed; the
// particle count is part of each trial's stream so groups stay independent.
func (r *Runner) Run(ctx context.Context, plan Plan) ([]*Result, error) {
	r.mu.Lock()
	clock := r.clock
	now := clock.Now()
	if r.state.Status == RunStatusRunning {
		r.mu.Unlock()
		return nil, fmt.Errorf("run %s already running", r.state.RunID)
	}
	r.state.Type = plan.Profile.Type
	r.state.Status = RunStatusRunning
	r.state.StartedAt = &now
	r.state.CompletedAt = nil
	r.state.TotalGroups = len(plan.Groups)
	r.state.CompletedGroups = 0
	r.state.Summaries = nil
	r.state.Error = ""
	r.mu.Unlock()

	results := make([]*Result, 0, len(plan.Groups))
	for i, g := range plan.Groups {
		started := clock.Now()
		res, err := Run(ctx, Params{
			Profile:       plan.Profile,
			ParticleCount: g.ParticleCount,
			Trials:        g.Trials,
			Options:       plan.Options,
			Seed:          plan.Seed,
			Workers:       plan.Workers,
		})
		if err != nil {
			return results, r.fail(fmt.Errorf("group %d (particles=%d): %w", i, g.ParticleCount, err))
		}
		for _, s := range r.sinks {
			if err := s.WriteGroup(res); err != nil {
				return results, r.fail(fmt.Errorf("write group %d: %w", i, err))
			}
		}
		results = append(results, res)

		sum := res.Summary()
		monitoring.Logf("%s group %d/%d: particles=%d trials=%d samples=%d mean=%.4f std=%.4f stderr=%.5f relaxed=%d (%s)",
			plan.Profile.Type, i+1, len(plan.Groups), g.ParticleCount, g.Trials, sum.N, sum.Mean, sum.StdDev, sum.StdErr,
			res.Relaxations, clock.Since(started).Round(time.Millisecond))

		r.mu.Lock()
		r.state.CompletedGroups++
		r.state.Summaries = append(r.state.Summaries, GroupSummary{Group: g, Summary: sum, Relaxations: res.Relaxations})
		r.mu.Unlock()
	}

	done := clock.Now()
	r.mu.Lock()
	r.state.Status = RunStatusComplete
	r.state.CompletedAt = &done
	r.mu.Unlock()
	return results, nil
}

func (r *Runner) fail(err error) error {
	r.mu.Lock()
	done := r.clock.Now()
	r.state.Status = RunStatusError
	r.state.CompletedAt = &done
	r.state.Error = err.Error()
	r.mu.Unlock()
	return err
}
