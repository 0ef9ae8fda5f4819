// Package config holds the Spikeview configuration: simulation shape,
// observation cadence, viewer behavior, and logging.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Spikeview configuration
type Config struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Observation ObservationConfig `mapstructure:"observation"`
	TUI         TUIConfig         `mapstructure:"tui"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// SimulationConfig controls the network model and the run length
type SimulationConfig struct {
	// LayerSizes are the unit counts per layer: input, hidden..., output.
	// At least three layers are required.
	LayerSizes []int `mapstructure:"layer_sizes"`
	// Epochs is the number of passes over the input patterns
	Epochs int `mapstructure:"epochs"`
	// TimestepsPerIteration is how many network timesteps each input
	// pattern is presented for
	TimestepsPerIteration int `mapstructure:"timesteps_per_iteration"`
	// Seed makes a run reproducible; 0 seeds from the clock
	Seed int64 `mapstructure:"seed"`
	// Dt is the integration timestep in milliseconds
	Dt float64 `mapstructure:"dt"`
	// StartPaused starts the simulation paused so the viewer can attach
	// probes before any data flows
	StartPaused bool `mapstructure:"start_paused"`
}

// ObservationConfig controls what the producer publishes and how much
// history is kept
type ObservationConfig struct {
	// SnapshotEvery is the cadence: a structural snapshot is published on
	// every Nth iteration
	SnapshotEvery int `mapstructure:"snapshot_every"`
	// TraceCapacity is the number of samples kept per probe
	TraceCapacity int `mapstructure:"trace_capacity"`
}

// TUIConfig controls the terminal viewer
type TUIConfig struct {
	// FPS is the viewer's frame rate; each frame is one try-read
	FPS int `mapstructure:"fps"`
	// SidebarWidth is the width of the details panel in columns
	SidebarWidth int `mapstructure:"sidebar_width"`
}

// LoggingConfig controls the structured log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			LayerSizes:            []int{2, 64, 64, 1},
			Epochs:                1000,
			TimestepsPerIteration: 40,
			Seed:                  0,
			Dt:                    0.1,
			StartPaused:           false,
		},
		Observation: ObservationConfig{
			SnapshotEvery: 10,
			TraceCapacity: 1000,
		},
		TUI: TUIConfig{
			FPS:          20,
			SidebarWidth: 36,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}

// FrameInterval returns the viewer's frame interval as a time.Duration
func (c *TUIConfig) FrameInterval() time.Duration {
	fps := c.FPS
	if fps <= 0 {
		fps = 20
	}
	return time.Second / time.Duration(fps)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("simulation.layer_sizes", defaults.Simulation.LayerSizes)
	viper.SetDefault("simulation.epochs", defaults.Simulation.Epochs)
	viper.SetDefault("simulation.timesteps_per_iteration", defaults.Simulation.TimestepsPerIteration)
	viper.SetDefault("simulation.seed", defaults.Simulation.Seed)
	viper.SetDefault("simulation.dt", defaults.Simulation.Dt)
	viper.SetDefault("simulation.start_paused", defaults.Simulation.StartPaused)

	viper.SetDefault("observation.snapshot_every", defaults.Observation.SnapshotEvery)
	viper.SetDefault("observation.trace_capacity", defaults.Observation.TraceCapacity)

	viper.SetDefault("tui.fps", defaults.TUI.FPS)
	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spikeview")
	}
	// Fall back to ~/.config/spikeview
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spikeview"
	}
	return filepath.Join(home, ".config", "spikeview")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the path to the user's data directory, where run
// directories are created
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "spikeview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spikeview"
	}
	return filepath.Join(home, ".local", "share", "spikeview")
}

// RunsDir returns the directory that holds one subdirectory per run
func RunsDir() string {
	return filepath.Join(DataDir(), "runs")
}
