package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/banshee-data/knobsim/internal/config"
	"github.com/banshee-data/knobsim/internal/fsutil"
	"github.com/banshee-data/knobsim/internal/monitoring"
	"github.com/banshee-data/knobsim/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a simulation config JSON file (default: built-in defaults)")
	mode        = flag.String("mode", "ensemble", "Mode: 'ensemble' (distance statistics), 'coords' (one knob's coordinates), 'density' (sector densities)")
	knobType    = flag.String("knob", "", "Knob type: AA or AS (overrides knob_type)")
	particles   = flag.String("particles", "", "Comma-separated particle counts (overrides particle_counts)")
	trials      = flag.String("trials", "", "Comma-separated trials per particle count (overrides trials)")
	outputDir   = flag.String("out", "", "Output directory (overrides output_dir)")
	seed        = flag.Uint64("seed", 0, "Random seed (overrides seed)")
	workers     = flag.Int("workers", 0, "Concurrent trials, 0 = GOMAXPROCS (overrides workers)")
	count       = flag.Int("count", 10, "Discs on the knob in coords mode")
	free        = flag.Bool("unconstrained", false, "In coords mode, place discs without the overlap check")
	writePlots  = flag.Bool("plots", true, "Write PNG figures")
	writeHTML   = flag.Bool("html", false, "Write interactive HTML reports")
	showVersion = flag.Bool("version", false, "Print version and exit")
	quiet       = flag.Bool("quiet", false, "Suppress progress logging")
)

// parseCSVIntSlice parses a comma-separated list of ints
func parseCSVIntSlice(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// applyFlags copies the explicitly set flags onto cfg and re-validates it.
func applyFlags(cfg *config.SimulationConfig, set map[string]bool) error {
	if set["knob"] {
		cfg.KnobType = knobType
	}
	if set["particles"] {
		v, err := parseCSVIntSlice(*particles)
		if err != nil {
			return fmt.Errorf("-particles: %w", err)
		}
		cfg.ParticleCounts = v
		// An explicit trials list only makes sense for the counts it was
		// written for.
		if !set["trials"] {
			cfg.Trials = nil
		}
	}
	if set["trials"] {
		v, err := parseCSVIntSlice(*trials)
		if err != nil {
			return fmt.Errorf("-trials: %w", err)
		}
		cfg.Trials = v
	}
	if set["out"] {
		cfg.OutputDir = outputDir
	}
	if set["seed"] {
		cfg.Seed = seed
	}
	if set["workers"] {
		cfg.Workers = workers
	}
	return cfg.Validate()
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg := config.EmptySimulationConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadSimulationConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyFlags(cfg, set); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := outputs{PNG: *writePlots, HTML: *writeHTML}
	fsys := fsutil.OSFileSystem{}

	switch *mode {
	case "ensemble":
		dir, err := runEnsemble(ctx, cfg, fsys, out)
		if err != nil {
			log.Fatalf("Ensemble failed: %v", err)
		}
		log.Printf("Results written to %s", dir)
	case "coords":
		path, err := runCoords(cfg, fsys, *count, *free, out)
		if err != nil {
			log.Fatalf("Coordinates failed: %v", err)
		}
		log.Printf("Coordinates written to %s", path)
	case "density":
		if err := runDensity(os.Stdout, cfg, fsys, out); err != nil {
			log.Fatalf("Density failed: %v", err)
		}
	default:
		log.Fatalf("Unknown mode %q (want ensemble, coords or density)", *mode)
	}
}
