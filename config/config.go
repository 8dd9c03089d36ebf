// Package config provides configuration loading and access for tree generation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generation configuration parameters.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Run        RunConfig        `yaml:"run"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Log        LogConfig        `yaml:"log"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GenerationConfig holds the tree shape parameters. Each entry mirrors a
// field of tree.Parameters.
type GenerationConfig struct {
	// Trunk
	TrunkDiameter                       VariableSpec `yaml:"trunk_diameter"`
	TrunkChords                         VariableSpec `yaml:"trunk_chords"`
	TrunkChordScale                     VariableSpec `yaml:"trunk_chord_scale"`
	TrunkChordRadii                     VariableSpec `yaml:"trunk_chord_radii"`
	TrunkChordEccentricity              VariableSpec `yaml:"trunk_chord_eccentricity"`
	TrunkChordGravity                   VariableSpec `yaml:"trunk_chord_gravity"`
	TrunkChordInitialVelocityMagnitude  VariableSpec `yaml:"trunk_chord_initial_velocity_magnitude"`
	TrunkChordInitialVelocityDeflection VariableSpec `yaml:"trunk_chord_initial_velocity_deflection"`
	TrunkChordAngularVelocity           VariableSpec `yaml:"trunk_chord_angular_velocity"`
	TrunkChordAngularVelocityDamping    VariableSpec `yaml:"trunk_chord_angular_velocity_damping"`
	HeartwoodDiameter                   VariableSpec `yaml:"heartwood_diameter"`
	TrunkSetback                        VariableSpec `yaml:"trunk_setback"`
	TrunkSetbackAcceleration            VariableSpec `yaml:"trunk_setback_acceleration"`

	// Branches
	BranchCount                          VariableSpec `yaml:"branch_count"`
	BranchLength                         VariableSpec `yaml:"branch_length"`
	BranchSegmentLength                  VariableSpec `yaml:"branch_segment_length"`
	BranchStraightnessBias               VariableSpec `yaml:"branch_straightness_bias"`
	BranchSeparationBias                 VariableSpec `yaml:"branch_separation_bias"`
	BranchRadialBias                     VariableSpec `yaml:"branch_radial_bias"`
	BranchUpwardBias                     VariableSpec `yaml:"branch_upward_bias"`
	BranchSplitProbabilityScalar         VariableSpec `yaml:"branch_split_probability_scalar"`
	BranchSplitMinimumFirstSegmentLength VariableSpec `yaml:"branch_split_minimum_first_segment_length"`
	BranchYDeflection                    VariableSpec `yaml:"branch_y_deflection"`
	BranchAvoidRadius                    VariableSpec `yaml:"branch_avoid_radius"`
	BranchHeightDistribution             PdfSpec      `yaml:"branch_height_distribution"`
	BranchSplitDistribution              PdfSpec      `yaml:"branch_split_distribution"`

	// Leaves
	LeafClusterSplitProbability   VariableSpec `yaml:"leaf_cluster_split_probability"`
	LeafClusterDropOffProbability VariableSpec `yaml:"leaf_cluster_drop_off_probability"`
	LeafClusterNodeCount          VariableSpec `yaml:"leaf_cluster_node_count"`
	LeafClusterRadius             VariableSpec `yaml:"leaf_cluster_radius"`
}

// RunConfig holds per-run settings.
type RunConfig struct {
	Seed         uint64       `yaml:"seed"`          // 0 = pick a seed from the clock
	Workers      int          `yaml:"workers"`       // Round worker goroutines (0 = one per CPU)
	MaxRounds    int          `yaml:"max_rounds"`    // Growth round cap
	DebugMarkers bool         `yaml:"debug_markers"` // Mark turn and split points with debug materials
	Origin       OriginConfig `yaml:"origin"`
}

// OriginConfig is the world position of the trunk base.
type OriginConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// TelemetryConfig holds telemetry and output parameters.
type TelemetryConfig struct {
	PerfWindow  int    `yaml:"perf_window"`  // Rounds averaged per perf.csv row
	OutputDir   string `yaml:"output_dir"`   // Empty disables file output
	WriteVoxels bool   `yaml:"write_voxels"` // Include voxels.csv in the output
}

// LogConfig holds logging parameters. Logs always go to stdout as JSON; a
// non-empty File adds a size-rotated copy.
type LogConfig struct {
	Level      string `yaml:"level"`        // debug, info, warn or error
	File       string `yaml:"file"`         // Empty disables the log file
	MaxSizeMB  int    `yaml:"max_size_mb"`  // Rotate after this many megabytes
	MaxBackups int    `yaml:"max_backups"`  // Rotated files kept
	MaxAgeDays int    `yaml:"max_age_days"` // Days a rotated file is kept
	Compress   bool   `yaml:"compress"`     // Gzip rotated files
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	Workers   int // Resolved worker count
	MaxRounds int // Resolved round cap
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Workers = c.Run.Workers
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.NumCPU()
	}
	c.Derived.MaxRounds = c.Run.MaxRounds
	if c.Derived.MaxRounds <= 0 {
		c.Derived.MaxRounds = 1000
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
