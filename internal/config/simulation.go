// Package config loads the simulation settings from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/knobsim/internal/knob"
)

// DefaultConfigPath is the path to the canonical simulation defaults file.
const DefaultConfigPath = "config/simulation.defaults.json"

// DefaultTargetSamples is the number of distance samples aimed for per
// particle count: 9!/2, divisible by every particle count from 2 to 10.
const DefaultTargetSamples = 181440

// SimulationConfig is the root configuration. Every field is optional;
// the Get* methods supply the defaults for fields left out of the JSON.
type SimulationConfig struct {
	// Knob model
	KnobType   *string   `json:"knob_type,omitempty"`   // "AA" or "AS"
	DiscRadius *float64  `json:"disc_radius,omitempty"` // PfEMP1 disc radius (nm)
	KnobRadius *float64  `json:"knob_radius,omitempty"` // overrides the knob type's radius (nm)
	Occupancy  []float64 `json:"occupancy,omitempty"`   // overrides the knob type's sector fractions

	// Ensemble
	ParticleCounts []int   `json:"particle_counts,omitempty"`
	TargetSamples  *int    `json:"target_samples,omitempty"`
	Trials         []int   `json:"trials,omitempty"` // explicit trials per particle count
	Seed           *uint64 `json:"seed,omitempty"`
	Workers        *int    `json:"workers,omitempty"` // 0 = GOMAXPROCS

	// Placement
	RelaxAfter     *int `json:"relax_after,omitempty"`
	AzimuthRetries *int `json:"azimuth_retries,omitempty"`

	// Output
	HistogramCounts []int   `json:"histogram_counts,omitempty"`
	HistogramBins   *int    `json:"histogram_bins,omitempty"`
	OutputDir       *string `json:"output_dir,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptySimulationConfig returns a SimulationConfig with all fields unset.
func EmptySimulationConfig() *SimulationConfig {
	return &SimulationConfig{}
}

// LoadSimulationConfig loads a SimulationConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimulationConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and its parents up to the repository
// root. Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *SimulationConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/, cmd/knobsim/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadSimulationConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. Occupancy
// overrides are checked against the sector count of the selected knob type.
func (c *SimulationConfig) Validate() error {
	if c.KnobType != nil {
		if _, err := knob.ParseType(*c.KnobType); err != nil {
			return fmt.Errorf("knob_type: %w", err)
		}
	}
	if c.DiscRadius != nil {
		if *c.DiscRadius < 0 || math.IsNaN(*c.DiscRadius) || math.IsInf(*c.DiscRadius, 0) {
			return fmt.Errorf("disc_radius must be non-negative, got %f", *c.DiscRadius)
		}
	}
	if c.KnobRadius != nil {
		if !(*c.KnobRadius > 0) || math.IsInf(*c.KnobRadius, 0) {
			return fmt.Errorf("knob_radius must be positive, got %f", *c.KnobRadius)
		}
	}
	for i, n := range c.ParticleCounts {
		if n < 0 {
			return fmt.Errorf("particle_counts[%d] must be non-negative, got %d", i, n)
		}
	}
	if c.TargetSamples != nil && *c.TargetSamples < 0 {
		return fmt.Errorf("target_samples must be non-negative, got %d", *c.TargetSamples)
	}
	if len(c.Trials) > 0 {
		if len(c.Trials) != len(c.GetParticleCounts()) {
			return fmt.Errorf("trials has %d entries but particle_counts has %d", len(c.Trials), len(c.GetParticleCounts()))
		}
		for i, n := range c.Trials {
			if n < 0 {
				return fmt.Errorf("trials[%d] must be non-negative, got %d", i, n)
			}
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.RelaxAfter != nil && *c.RelaxAfter < 1 {
		return fmt.Errorf("relax_after must be at least 1, got %d", *c.RelaxAfter)
	}
	if c.AzimuthRetries != nil && *c.AzimuthRetries < 0 {
		return fmt.Errorf("azimuth_retries must be non-negative, got %d", *c.AzimuthRetries)
	}
	if c.HistogramBins != nil && *c.HistogramBins < 1 {
		return fmt.Errorf("histogram_bins must be at least 1, got %d", *c.HistogramBins)
	}
	if c.KnobRadius != nil || len(c.Occupancy) > 0 {
		p, err := c.Profile()
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetKnobType returns the knob_type value or the default (AA).
func (c *SimulationConfig) GetKnobType() knob.Type {
	if c.KnobType == nil {
		return knob.TypeAA
	}
	t, err := knob.ParseType(*c.KnobType)
	if err != nil {
		return knob.TypeAA
	}
	return t
}

// GetDiscRadius returns the disc_radius value or the default sqrt(110/π) nm,
// the radius of a disc with the 110 nm² PfEMP1 footprint.
func (c *SimulationConfig) GetDiscRadius() float64 {
	if c.DiscRadius == nil {
		return math.Sqrt(110 / math.Pi)
	}
	return *c.DiscRadius
}

// GetParticleCounts returns the particle_counts value or the default 2..10.
func (c *SimulationConfig) GetParticleCounts() []int {
	if len(c.ParticleCounts) == 0 {
		return []int{2, 3, 4, 5, 6, 7, 8, 9, 10}
	}
	return c.ParticleCounts
}

// GetTargetSamples returns the target_samples value or the default.
func (c *SimulationConfig) GetTargetSamples() int {
	if c.TargetSamples == nil {
		return DefaultTargetSamples
	}
	return *c.TargetSamples
}

// TrialsFor returns the number of knobs to build for the i-th particle
// count: the explicit trials entry if present, otherwise enough knobs to
// reach target_samples.
func (c *SimulationConfig) TrialsFor(i int) int {
	if i < len(c.Trials) {
		return c.Trials[i]
	}
	counts := c.GetParticleCounts()
	if i < 0 || i >= len(counts) || counts[i] == 0 {
		return 0
	}
	n := counts[i]
	return (c.GetTargetSamples() + n - 1) / n
}

// GetSeed returns the seed value or the default.
func (c *SimulationConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetWorkers returns the workers value or the default (0 = GOMAXPROCS).
func (c *SimulationConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetRelaxAfter returns the relax_after value or the default.
func (c *SimulationConfig) GetRelaxAfter() int {
	if c.RelaxAfter == nil {
		return knob.DefaultRelaxAfter
	}
	return *c.RelaxAfter
}

// GetAzimuthRetries returns the azimuth_retries value or the default.
func (c *SimulationConfig) GetAzimuthRetries() int {
	if c.AzimuthRetries == nil {
		return 0
	}
	return *c.AzimuthRetries
}

// GetHistogramCounts returns the particle counts shown in the histogram.
func (c *SimulationConfig) GetHistogramCounts() []int {
	if len(c.HistogramCounts) == 0 {
		return []int{3, 5, 7, 9}
	}
	return c.HistogramCounts
}

// GetHistogramBins returns the histogram_bins value or the default.
func (c *SimulationConfig) GetHistogramBins() int {
	if c.HistogramBins == nil {
		return 50
	}
	return *c.HistogramBins
}

// GetOutputDir returns the output_dir value or the default.
func (c *SimulationConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "out"
	}
	return *c.OutputDir
}

// Profile returns the built-in profile of the configured knob type with the
// knob_radius and occupancy overrides applied. The result is not validated.
func (c *SimulationConfig) Profile() (knob.Profile, error) {
	p, err := knob.ProfileFor(c.GetKnobType())
	if err != nil {
		return knob.Profile{}, err
	}
	if c.KnobRadius != nil {
		p.Radius = *c.KnobRadius
	}
	if len(c.Occupancy) > 0 {
		p.Occupancy = append([]float64(nil), c.Occupancy...)
	}
	return p, nil
}

// PlacementOptions returns the knob placement options.
func (c *SimulationConfig) PlacementOptions() knob.Options {
	return knob.Options{
		DiscRadius:     c.GetDiscRadius(),
		RelaxAfter:     c.GetRelaxAfter(),
		AzimuthRetries: c.GetAzimuthRetries(),
	}
}
