// Package logging provides structured logging for Spikeview runs.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation support for debugging and post-hoc analysis. The
// viewer owns the terminal while a run is live, so nothing useful can go
// to stdout; instead each run writes a structured debug.log that can be
// filtered and exported after the fact.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (run ID, component, probe)
//   - Log rotation with configurable size limits
//   - Optional gzip compression for rotated logs
//   - Log aggregation and filtering utilities
//   - Export to JSON, text, or CSV formats
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger for a run directory:
//
//	logger, err := logging.NewLogger("/path/to/run", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Debug("drained control commands", "count", 2)
//	logger.Info("snapshot published", "iteration", 120)
//	logger.Warn("guard contended, publish skipped", "iteration", 130)
//	logger.Error("config reload failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	runLogger := logger.WithRun("run-abc123")
//	loopLogger := runLogger.WithComponent("loop")
//	probeLogger := loopLogger.WithProbe("hidden1[3]")
//
//	// All logs from probeLogger include run_id, component, and probe
//	probeLogger.Info("probe attached")
//
// # Log Aggregation and Filtering
//
// Read and analyze logs after a run:
//
//	entries, err := logging.AggregateLogs("/path/to/run")
//	if err != nil {
//	    return err
//	}
//
//	filter := logging.LogFilter{
//	    Level:     "WARN",
//	    Component: "loop",
//	    StartTime: time.Now().Add(-1 * time.Hour),
//	}
//	filtered := logging.FilterLogs(entries, filter)
//
//	logging.ExportLogEntries(filtered, "warnings.json", "json")
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output.
package logging
