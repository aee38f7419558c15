package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/knobsim/internal/config"
	"github.com/banshee-data/knobsim/internal/density"
	"github.com/banshee-data/knobsim/internal/ensemble"
	"github.com/banshee-data/knobsim/internal/fsutil"
	"github.com/banshee-data/knobsim/internal/knob"
	"github.com/banshee-data/knobsim/internal/monitoring"
	"github.com/banshee-data/knobsim/internal/report"
)

// outputs selects the optional report formats.
type outputs struct {
	PNG  bool
	HTML bool
}

// runDir returns output_dir/<knob>-<first 8 characters of the run ID>.
func runDir(cfg *config.SimulationConfig, t knob.Type, runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return filepath.Join(cfg.GetOutputDir(), fmt.Sprintf("%s-%s", t, runID))
}

// plan turns the configuration into an ensemble plan.
func plan(cfg *config.SimulationConfig) (ensemble.Plan, error) {
	profile, err := cfg.Profile()
	if err != nil {
		return ensemble.Plan{}, err
	}
	p := ensemble.Plan{
		Profile: profile,
		Options: cfg.PlacementOptions(),
		Seed:    cfg.GetSeed(),
		Workers: cfg.GetWorkers(),
	}
	for i, n := range cfg.GetParticleCounts() {
		p.Groups = append(p.Groups, ensemble.Group{ParticleCount: n, Trials: cfg.TrialsFor(i)})
	}
	return p, nil
}

// runEnsemble runs every particle-count group and writes the distribution
// file, the summary CSV, the run state and the requested reports into a
// fresh run directory, which it returns.
func runEnsemble(ctx context.Context, cfg *config.SimulationConfig, fsys fsutil.FileSystem, out outputs) (dir string, err error) {
	p, err := plan(cfg)
	if err != nil {
		return "", err
	}
	runner := ensemble.NewRunner()
	dir = runDir(cfg, p.Profile.Type, runner.RunID())

	distFile, _, err := fsutil.CreateIn(fsys, dir, fmt.Sprintf("distribution_data_%s.txt", p.Profile.Type))
	if err != nil {
		return dir, err
	}
	defer closeInto(distFile, &err)
	sumFile, _, err := fsutil.CreateIn(fsys, dir, fmt.Sprintf("summary_%s.csv", p.Profile.Type))
	if err != nil {
		return dir, err
	}
	defer closeInto(sumFile, &err)

	runner.AddSink(ensemble.NewDistributionWriter(distFile))
	runner.AddSink(ensemble.NewSummaryWriter(sumFile))

	monitoring.Logf("Run %s: %s knob, %d groups, seed %d -> %s", runner.RunID(), p.Profile.Type, len(p.Groups), p.Seed, dir)
	results, runErr := runner.Run(ctx, p)

	state := runner.State()
	if err := writeState(fsys, filepath.Join(dir, "run.json"), state); err != nil {
		return dir, errors.Join(runErr, err)
	}
	if runErr != nil {
		return dir, runErr
	}

	if out.PNG {
		hist := filepath.Join(dir, fmt.Sprintf("histogram_%s.png", p.Profile.Type))
		if err := report.WriteHistogramPNG(fsys, hist, results, cfg.GetHistogramCounts(), cfg.GetHistogramBins()); err != nil {
			reportSkipped(hist, err)
		}
		mean := filepath.Join(dir, fmt.Sprintf("mean_distance_%s.png", p.Profile.Type))
		if err := report.WriteMeanDistancePNG(fsys, mean, string(p.Profile.Type), state.Summaries); err != nil {
			reportSkipped(mean, err)
		}
	}
	if out.HTML {
		var buf bytes.Buffer
		page := filepath.Join(dir, fmt.Sprintf("report_%s.html", p.Profile.Type))
		if err := report.RenderEnsembleHTML(&buf, state, results, cfg.GetHistogramCounts(), cfg.GetHistogramBins()); err != nil {
			reportSkipped(page, err)
		} else if err := fsys.WriteFile(page, buf.Bytes(), 0o644); err != nil {
			return dir, err
		}
	}
	return dir, nil
}

// runCoords builds one knob and writes its disc centres. With unconstrained
// set the discs are drawn from the sector distribution without the overlap
// check.
func runCoords(cfg *config.SimulationConfig, fsys fsutil.FileSystem, n int, unconstrained bool, out outputs) (string, error) {
	profile, err := cfg.Profile()
	if err != nil {
		return "", err
	}
	rng := ensemble.TrialRand(cfg.GetSeed(), n, 0)

	var k *knob.Knob
	if unconstrained {
		k, err = knob.PlaceUnconstrained(profile, n, rng)
	} else {
		k, err = knob.Build(profile, n, cfg.PlacementOptions(), rng)
	}
	if err != nil {
		return "", err
	}

	dir := runDir(cfg, profile.Type, uuid.New().String())
	var buf bytes.Buffer
	if err := ensemble.WriteCoordinates(&buf, k); err != nil {
		return "", err
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("coordinates_%s.txt", profile.Type))
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	if out.HTML {
		buf.Reset()
		if err := report.RenderKnobHTML(&buf, k); err != nil {
			reportSkipped(path, err)
		} else if err := fsys.WriteFile(filepath.Join(dir, fmt.Sprintf("knob_%s.html", profile.Type)), buf.Bytes(), 0o644); err != nil {
			return path, err
		}
	}
	return path, nil
}

// runDensity inverts the measured slice counts of both knob types, prints
// the per-sector results and plots the density profiles.
func runDensity(w io.Writer, cfg *config.SimulationConfig, fsys fsutil.FileSystem, out outputs) error {
	var profiles []*density.Profile
	for _, m := range []struct {
		table  density.PatchTable
		counts []float64
		radius float64
	}{
		{density.AATable, density.AACounts, knob.RadiusAA},
		{density.ASTable, density.ASCounts, knob.RadiusAS},
	} {
		prof, err := density.Invert(m.table, m.counts, m.radius)
		if err != nil {
			return err
		}
		profiles = append(profiles, prof)

		fmt.Fprintf(w, "%s knob (R=%.4f nm)\n", prof.Name, prof.Radius)
		fmt.Fprintf(w, "%-7s %-12s %-14s %-10s\n", "sector", "arc_nm", "density_nm-2", "fraction")
		for k := range prof.Density {
			fmt.Fprintf(w, "%-7d %-12.4f %-14.6g %-10.6f\n", k, prof.ArcLengths[k], prof.Density[k], prof.Fractions[k])
		}
	}

	if !out.PNG {
		return nil
	}
	dir := cfg.GetOutputDir()
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return report.WriteDensityProfilePNG(fsys, filepath.Join(dir, "density_profile.png"), profiles)
}

func writeState(fsys fsutil.FileSystem, path string, state ensemble.RunState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return fsys.WriteFile(path, append(data, '\n'), 0o644)
}

func reportSkipped(path string, err error) {
	monitoring.Warnf("skipping %s: %v", path, err)
}

func closeInto(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
