package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/Iron-Ham/spikeview/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify Spikeview configuration",
	Long: `View or modify Spikeview configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  spikeview config set observation.snapshot_every 5
  spikeview config set tui.fps 30
  spikeview config set simulation.epochs 500

Valid keys:
  simulation.epochs                  - Passes over the input patterns
  simulation.timesteps_per_iteration - Timesteps each pattern is presented for
  simulation.seed                    - Random seed (0 seeds from the clock)
  simulation.dt                      - Integration timestep in milliseconds
  simulation.start_paused            - Start the run paused (true/false)
  observation.snapshot_every         - Publish a snapshot every N iterations
  observation.trace_capacity         - Samples kept per probe
  tui.fps                            - Viewer frame rate
  tui.sidebar_width                  - Details panel width in columns
  logging.level                      - Log level (debug/info/warn/error)
  logging.dir                        - Directory for run logs`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/spikeview/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("simulation:")
	fmt.Printf("  layer_sizes: %v\n", cfg.Simulation.LayerSizes)
	fmt.Printf("  epochs: %d\n", cfg.Simulation.Epochs)
	fmt.Printf("  timesteps_per_iteration: %d\n", cfg.Simulation.TimestepsPerIteration)
	fmt.Printf("  seed: %d\n", cfg.Simulation.Seed)
	fmt.Printf("  dt: %g\n", cfg.Simulation.Dt)
	fmt.Printf("  start_paused: %v\n", cfg.Simulation.StartPaused)

	fmt.Println("observation:")
	fmt.Printf("  snapshot_every: %d\n", cfg.Observation.SnapshotEvery)
	fmt.Printf("  trace_capacity: %d\n", cfg.Observation.TraceCapacity)

	fmt.Println("tui:")
	fmt.Printf("  fps: %d\n", cfg.TUI.FPS)
	fmt.Printf("  sidebar_width: %d\n", cfg.TUI.SidebarWidth)

	fmt.Println("logging:")
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	if cfg.Logging.Dir != "" {
		fmt.Printf("  dir: %s\n", cfg.Logging.Dir)
	} else {
		fmt.Printf("  dir: (default: %s)\n", config.RunsDir())
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"simulation.epochs":                  "int",
		"simulation.timesteps_per_iteration": "int",
		"simulation.seed":                    "int",
		"simulation.dt":                      "float",
		"simulation.start_paused":            "bool",
		"observation.snapshot_every":         "int",
		"observation.trace_capacity":         "int",
		"tui.fps":                            "int",
		"tui.sidebar_width":                  "int",
		"logging.level":                      "string",
		"logging.dir":                        "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'spikeview config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		if key == "logging.level" && logging.ParseLevel(value) != strings.ToUpper(value) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.ToLower(strings.Join(logging.ValidLevels(), ", ")))
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	case "float":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected number", key)
		}
		typedValue = floatVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper and re-validate the whole configuration
	// before persisting, so a bad value never lands in the file.
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'spikeview config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Spikeview Configuration
# See: https://github.com/Iron-Ham/spikeview

# Simulation settings
simulation:
  # Unit counts per layer: input, hidden..., output
  layer_sizes: [2, 64, 64, 1]
  # Passes over the input patterns
  epochs: 1000
  # Timesteps each input pattern is presented for
  timesteps_per_iteration: 40
  # Random seed; 0 seeds from the clock
  seed: 0
  # Integration timestep in milliseconds
  dt: 0.1
  # Start paused so probes can be attached before any data flows
  start_paused: false

# What the simulation publishes for the viewer
observation:
  # Publish a structural snapshot every N iterations.
  # Reloaded live: edit while a run is active and the new cadence applies.
  snapshot_every: 10
  # Samples kept per probe
  trace_capacity: 1000

# Terminal viewer settings
tui:
  # Frame rate; each frame is one try-read against the shared state
  fps: 20
  # Details panel width in columns
  sidebar_width: 36

# Logging settings
logging:
  # debug, info, warn, error
  level: info
  # Directory for run logs; empty uses the default data directory
  dir: ""
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println("Edit this file to customize Spikeview's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Println("\nSearch paths:")
	fmt.Printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Printf("  2. $HOME/.config/spikeview/config.yaml\n")
	fmt.Printf("  3. ./config.yaml (current directory)\n")
	fmt.Println("\nEnvironment variables: SPIKEVIEW_* (e.g., SPIKEVIEW_OBSERVATION_SNAPSHOT_EVERY)")

	return nil
}
