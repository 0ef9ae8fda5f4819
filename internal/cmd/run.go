package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/Iron-Ham/spikeview/internal/event"
	"github.com/Iron-Ham/spikeview/internal/logging"
	"github.com/Iron-Ham/spikeview/internal/network"
	"github.com/Iron-Ham/spikeview/internal/observation"
	"github.com/Iron-Ham/spikeview/internal/runner"
	"github.com/Iron-Ham/spikeview/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a training session with the live viewer",
	Long: `Run a spiking network training session.

By default the terminal viewer opens alongside the simulation. Quitting
the viewer stops the run. With --headless the simulation runs without a
viewer and progress goes to the run's log file; headless is also chosen
automatically when stdout is not a terminal.

Examples:
  # Train with the viewer
  spikeview run

  # Start paused so probes can be attached before data flows
  spikeview run --paused

  # Headless run with a fixed seed
  spikeview run --headless --seed 42 --epochs 200`,
	RunE: runRun,
}

var runHeadless bool

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Run without the viewer")
	runCmd.Flags().Bool("paused", false, "Start the simulation paused")
	runCmd.Flags().Int("epochs", 0, "Number of passes over the input patterns")
	runCmd.Flags().Int64("seed", 0, "Random seed (0 seeds from the clock)")
	runCmd.Flags().Int("snapshot-every", 0, "Publish a snapshot every N iterations")

	_ = viper.BindPFlag("simulation.start_paused", runCmd.Flags().Lookup("paused"))
	_ = viper.BindPFlag("simulation.epochs", runCmd.Flags().Lookup("epochs"))
	_ = viper.BindPFlag("simulation.seed", runCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("observation.snapshot_every", runCmd.Flags().Lookup("snapshot-every"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Each run gets its own directory for logs.
	runID := time.Now().Format("20060102-150405")
	runsDir := cfg.Logging.Dir
	if runsDir == "" {
		runsDir = config.RunsDir()
	}
	runDir := filepath.Join(runsDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	logger, err := logging.NewLogger(runDir, logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logger.Close()
	log := logger.WithRun(runID)

	net, err := network.New(cfg.Simulation.LayerSizes, cfg.Simulation.Seed, cfg.Simulation.Dt)
	if err != nil {
		return fmt.Errorf("invalid network shape: %w", err)
	}

	state := observation.NewState(net, cfg.Observation.TraceCapacity, cfg.Simulation.StartPaused)
	bus := event.NewBus()
	loop := runner.NewLoop(net, network.XORDataset(), state, bus, log, runner.Config{
		Epochs:                cfg.Simulation.Epochs,
		TimestepsPerIteration: cfg.Simulation.TimestepsPerIteration,
		SnapshotEvery:         cfg.Observation.SnapshotEvery,
	})

	// Hot-reload the snapshot cadence when the config file changes. The
	// rest of the configuration is fixed for the lifetime of a run.
	if watcher, err := config.NewWatcher(); err == nil {
		watcher.SetReloadCallback(func(c *config.Config) {
			loop.SetCadence(c.Observation.SnapshotEvery)
			log.Info("config reloaded", "snapshot_every", c.Observation.SnapshotEvery)
		})
		watcher.SetErrorCallback(func(err error) {
			log.Warn("config reload failed", "error", err)
		})
		watcher.Start()
		defer watcher.Stop()
	} else {
		log.Warn("config watcher unavailable", "error", err)
	}

	log.Info("run starting",
		"run_dir", runDir,
		"layer_sizes", fmt.Sprint(cfg.Simulation.LayerSizes),
		"epochs", cfg.Simulation.Epochs,
		"seed", cfg.Simulation.Seed,
		"start_paused", cfg.Simulation.StartPaused)

	if runHeadless || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runWithoutViewer(loop, state, bus, log, runDir)
	}
	return runWithViewer(loop, state, bus, log, cfg)
}

// runWithViewer runs the simulation in the background and blocks on the
// viewer. Quitting the viewer cancels the simulation's context; a
// shutdown command that beat the cancel makes the loop return first.
func runWithViewer(loop *runner.Loop, state *observation.State, bus *event.Bus, log *logging.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	app := tui.New(state, bus, cfg.TUI)
	viewerErr := app.Run()

	cancel()
	simErr := <-loopErr

	log.Info("run finished", "iterations", loop.Iteration())

	if viewerErr != nil {
		return fmt.Errorf("viewer failed: %w", viewerErr)
	}
	if simErr != nil && !errors.Is(simErr, context.Canceled) {
		return fmt.Errorf("simulation failed: %w", simErr)
	}
	return nil
}

// runWithoutViewer runs the simulation in the foreground until it
// completes or a signal arrives.
func runWithoutViewer(loop *runner.Loop, state *observation.State, bus *event.Bus, log *logging.Logger, runDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subID := bus.Subscribe("snapshot.published", func(e event.Event) {
		if ev, ok := e.(event.SnapshotPublishedEvent); ok {
			log.Info("snapshot published", "iteration", ev.Iteration)
		}
	})
	defer bus.Unsubscribe(subID)

	// Periodic progress line; headless runs have no other heartbeat.
	progressDone := make(chan struct{})
	defer close(progressDone)
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-progressDone:
				return
			case <-ticker.C:
				log.Info("progress", "iteration", loop.Iteration(), "probes", state.ProbeCount())
			}
		}
	}()

	fmt.Printf("Running headless; logs at %s\n", filepath.Join(runDir, "debug.log"))

	err := loop.Run(ctx)
	log.Info("run finished", "iterations", loop.Iteration())

	if errors.Is(err, context.Canceled) {
		fmt.Println("Interrupted.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	fmt.Printf("Completed %d iterations.\n", loop.Iteration())
	return nil
}
