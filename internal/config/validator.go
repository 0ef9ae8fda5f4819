package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "observation.snapshot_every")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSimulation()...)
	errors = append(errors, c.validateObservation()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateSimulation() []ValidationError {
	var errors []ValidationError

	if len(c.Simulation.LayerSizes) < 3 {
		errors = append(errors, ValidationError{
			Field:   "simulation.layer_sizes",
			Value:   c.Simulation.LayerSizes,
			Message: "need at least input, one hidden, and output layer",
		})
	}
	for i, size := range c.Simulation.LayerSizes {
		if size <= 0 {
			errors = append(errors, ValidationError{
				Field:   "simulation.layer_sizes",
				Value:   size,
				Message: fmt.Sprintf("layer %d must have a positive size", i),
			})
		}
	}
	if c.Simulation.Epochs < 1 {
		errors = append(errors, ValidationError{
			Field:   "simulation.epochs",
			Value:   c.Simulation.Epochs,
			Message: "must be at least 1",
		})
	}
	if c.Simulation.TimestepsPerIteration < 1 {
		errors = append(errors, ValidationError{
			Field:   "simulation.timesteps_per_iteration",
			Value:   c.Simulation.TimestepsPerIteration,
			Message: "must be at least 1",
		})
	}
	if c.Simulation.Dt <= 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.dt",
			Value:   c.Simulation.Dt,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateObservation() []ValidationError {
	var errors []ValidationError

	if c.Observation.SnapshotEvery < 1 {
		errors = append(errors, ValidationError{
			Field:   "observation.snapshot_every",
			Value:   c.Observation.SnapshotEvery,
			Message: "must be at least 1",
		})
	}
	if c.Observation.TraceCapacity < 1 {
		errors = append(errors, ValidationError{
			Field:   "observation.trace_capacity",
			Value:   c.Observation.TraceCapacity,
			Message: "must be at least 1",
		})
	}
	if c.Observation.TraceCapacity > 1_000_000 {
		errors = append(errors, ValidationError{
			Field:   "observation.trace_capacity",
			Value:   c.Observation.TraceCapacity,
			Message: "unreasonably large; every probe preallocates this many samples",
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.FPS < 1 || c.TUI.FPS > 120 {
		errors = append(errors, ValidationError{
			Field:   "tui.fps",
			Value:   c.TUI.FPS,
			Message: "must be between 1 and 120",
		})
	}
	if c.TUI.SidebarWidth < 20 || c.TUI.SidebarWidth > 80 {
		errors = append(errors, ValidationError{
			Field:   "tui.sidebar_width",
			Value:   c.TUI.SidebarWidth,
			Message: "must be between 20 and 80",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
