package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		msg := errs.Error()
		if !strings.Contains(msg, "2 validation errors") {
			t.Errorf("Error() = %q, want count prefix", msg)
		}
		if !strings.Contains(msg, "a: bad") || !strings.Contains(msg, "b: worse") {
			t.Errorf("Error() = %q, want both errors listed", msg)
		}
	})
}

// invalidate applies a mutation to an otherwise-valid config.
func invalidate(mutate func(*Config)) *Config {
	cfg := Default()
	mutate(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *Config
		field string
	}{
		{
			name:  "too few layers",
			cfg:   invalidate(func(c *Config) { c.Simulation.LayerSizes = []int{2, 1} }),
			field: "simulation.layer_sizes",
		},
		{
			name:  "zero layer size",
			cfg:   invalidate(func(c *Config) { c.Simulation.LayerSizes = []int{2, 0, 1} }),
			field: "simulation.layer_sizes",
		},
		{
			name:  "negative layer size",
			cfg:   invalidate(func(c *Config) { c.Simulation.LayerSizes = []int{2, -4, 1} }),
			field: "simulation.layer_sizes",
		},
		{
			name:  "zero epochs",
			cfg:   invalidate(func(c *Config) { c.Simulation.Epochs = 0 }),
			field: "simulation.epochs",
		},
		{
			name:  "zero timesteps",
			cfg:   invalidate(func(c *Config) { c.Simulation.TimestepsPerIteration = 0 }),
			field: "simulation.timesteps_per_iteration",
		},
		{
			name:  "zero dt",
			cfg:   invalidate(func(c *Config) { c.Simulation.Dt = 0 }),
			field: "simulation.dt",
		},
		{
			name:  "zero snapshot cadence",
			cfg:   invalidate(func(c *Config) { c.Observation.SnapshotEvery = 0 }),
			field: "observation.snapshot_every",
		},
		{
			name:  "zero trace capacity",
			cfg:   invalidate(func(c *Config) { c.Observation.TraceCapacity = 0 }),
			field: "observation.trace_capacity",
		},
		{
			name:  "huge trace capacity",
			cfg:   invalidate(func(c *Config) { c.Observation.TraceCapacity = 10_000_000 }),
			field: "observation.trace_capacity",
		},
		{
			name:  "fps too low",
			cfg:   invalidate(func(c *Config) { c.TUI.FPS = 0 }),
			field: "tui.fps",
		},
		{
			name:  "fps too high",
			cfg:   invalidate(func(c *Config) { c.TUI.FPS = 240 }),
			field: "tui.fps",
		},
		{
			name:  "sidebar too narrow",
			cfg:   invalidate(func(c *Config) { c.TUI.SidebarWidth = 10 }),
			field: "tui.sidebar_width",
		},
		{
			name:  "unknown log level",
			cfg:   invalidate(func(c *Config) { c.Logging.Level = "verbose" }),
			field: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want an error for field %q", errs, tt.field)
			}
		})
	}
}

func TestValidateCaseInsensitiveLogLevel(t *testing.T) {
	cfg := invalidate(func(c *Config) { c.Logging.Level = "DEBUG" })
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Validate() = %v, want log level comparison to ignore case", errs)
	}
}
