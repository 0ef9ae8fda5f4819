package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/Iron-Ham/spikeview/internal/logging"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View run logs",
	Long: `View and filter logs from past runs.

By default, shows logs from the most recent run. Use flags to filter
and format the output.

Examples:
  # Show the last 50 entries from the most recent run
  spikeview logs

  # Show everything from a specific run
  spikeview logs -r 20260829-104500 -n 0

  # Only warnings and errors
  spikeview logs --level warn

  # Everything the loop logged about one probe
  spikeview logs --component loop --probe "hidden1[3]"

  # Export a filtered view for analysis
  spikeview logs --level warn --export warnings.csv --format csv`,
	RunE: runLogs,
}

var (
	logsRunID     string
	logsTail      int
	logsLevel     string
	logsSince     string
	logsComponent string
	logsProbe     string
	logsGrep      string
	logsExport    string
	logsFormat    string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsRunID, "run", "r", "", "Run ID (default: most recent)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Filter by component (e.g., loop)")
	logsCmd.Flags().StringVar(&logsProbe, "probe", "", "Filter by probe ID (e.g., hidden1[3])")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter entries whose message contains a substring")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Write matching entries to a file instead of stdout")
	logsCmd.Flags().StringVar(&logsFormat, "format", "text", "Export format (json/text/csv)")
}

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// levelColor returns the ANSI color code for a log level
func levelColor(level string) string {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return colorGray
	case logging.LevelInfo:
		return colorBlue
	case logging.LevelWarn:
		return colorYellow
	case logging.LevelError:
		return colorRed
	default:
		return colorReset
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry logging.LogEntry) string {
	var sb strings.Builder

	sb.WriteString(colorGray)
	sb.WriteString("[")
	sb.WriteString(entry.Timestamp.Format("15:04:05.000"))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	sb.WriteString(" ")
	sb.WriteString(levelColor(entry.Level))
	sb.WriteString("[")
	sb.WriteString(strings.ToUpper(entry.Level))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	sb.WriteString(" ")
	sb.WriteString(entry.Message)

	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString("component=")
		sb.WriteString(entry.Component)
		sb.WriteString(colorReset)
	}
	if entry.Probe != "" {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString("probe=")
		sb.WriteString(entry.Probe)
		sb.WriteString(colorReset)
	}

	for key, value := range entry.Attrs {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(colorReset)
		sb.WriteString(fmt.Sprintf("%v", value))
	}

	return sb.String()
}

// listRuns returns the run IDs under the runs directory, most recent first.
// Run IDs are timestamps, so lexical order is chronological.
func listRuns(runsDir string) ([]string, error) {
	dirEntries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var runs []string
	for _, e := range dirEntries {
		if e.IsDir() {
			runs = append(runs, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))
	return runs, nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	runsDir := cfg.Logging.Dir
	if runsDir == "" {
		runsDir = config.RunsDir()
	}

	runID := logsRunID
	if runID == "" {
		runs, err := listRuns(runsDir)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}
		runID = runs[0]
	}

	runDir := filepath.Join(runsDir, runID)
	entries, err := logging.AggregateLogs(runDir)
	if err != nil {
		return fmt.Errorf("failed to read logs for run %s: %w", runID, err)
	}

	filter := logging.LogFilter{
		Level:           logsLevel,
		Component:       logsComponent,
		Probe:           logsProbe,
		MessageContains: logsGrep,
	}
	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.StartTime = time.Now().Add(-duration)
	}

	entries = logging.FilterLogs(entries, filter)

	if logsExport != "" {
		if err := logging.ExportLogEntries(entries, logsExport, logsFormat); err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", len(entries), logsExport)
		return nil
	}

	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	for _, entry := range entries {
		fmt.Println(formatLogEntry(entry))
	}

	if len(entries) == 0 {
		fmt.Println("No matching log entries found.")
	}

	return nil
}
