package cmd

import (
	"strings"

	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "spikeview",
	Short: "Live terminal viewer for spiking network training runs",
	Long: `Spikeview runs a spiking neural network simulation and renders its
state in a terminal viewer. The simulation and the viewer share state
through a non-blocking boundary: neither side ever waits on the other,
so training speed is independent of the frame rate.`,
	RunE: runRun,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/spikeview/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/spikeview")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SPIKEVIEW")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SPIKEVIEW_OBSERVATION_SNAPSHOT_EVERY for observation.snapshot_every
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
