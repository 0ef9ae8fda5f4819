package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past runs",
	Long:  `List past run directories, most recent first. Each run keeps its logs under its own directory.`,
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	runsDir := cfg.Logging.Dir
	if runsDir == "" {
		runsDir = config.RunsDir()
	}

	runs, err := listRuns(runsDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	for _, runID := range runs {
		logPath := filepath.Join(runsDir, runID, "debug.log")
		size := int64(0)
		modified := ""
		if info, err := os.Stat(logPath); err == nil {
			size = info.Size()
			modified = info.ModTime().Format(time.DateTime)
		}
		fmt.Printf("%s  %8d bytes  %s\n", runID, size, modified)
	}

	return nil
}
