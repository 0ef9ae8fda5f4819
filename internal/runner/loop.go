// Package runner drives the simulation: it advances the spiking network,
// drains viewer commands, and publishes observable state.
//
// The loop is the producer side of the observation boundary. It never
// blocks on the shared guard: contended operations are skipped and the
// simulation keeps its pace. The loop is also the only probe mutator, so
// it keeps a local mirror of the attached probes and samples the network
// outside the guard.
package runner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/spikeview/internal/event"
	"github.com/Iron-Ham/spikeview/internal/logging"
	"github.com/Iron-Ham/spikeview/internal/network"
	"github.com/Iron-Ham/spikeview/internal/observation"
	"github.com/Iron-Ham/spikeview/internal/probe"
	"github.com/Iron-Ham/spikeview/internal/snapshot"
	"github.com/Iron-Ham/spikeview/internal/trace"
)

// pausedPollInterval is how often a paused loop wakes to drain commands.
const pausedPollInterval = 25 * time.Millisecond

// Config sets the run length and the publish cadence.
type Config struct {
	// Epochs is the number of passes over the input patterns.
	Epochs int
	// TimestepsPerIteration is how many network timesteps each input
	// pattern is presented for.
	TimestepsPerIteration int
	// SnapshotEvery publishes a structural snapshot on every Nth iteration.
	SnapshotEvery int
}

// Loop is the simulation producer. Create one with NewLoop and drive it
// with Run; it is not restartable.
type Loop struct {
	net     *network.Network
	data    *network.Dataset
	state   *observation.State
	builder *snapshot.Builder
	bus     *event.Bus
	log     *logging.Logger

	epochs    int
	timesteps int
	cadence   atomic.Int64

	// mirror tracks attached probes outside the guard. Only Drain results
	// mutate it, so it cannot diverge from the manager's view.
	mirror map[probe.ID]probe.Probe
	order  []probe.ID

	step      uint64
	iteration uint64
	paused    bool
}

// NewLoop wires a simulation loop. The paused flag is picked up from the
// first drain, so a run configured to start paused sits idle until the
// viewer resumes it.
func NewLoop(net *network.Network, data *network.Dataset, state *observation.State, bus *event.Bus, log *logging.Logger, cfg Config) *Loop {
	l := &Loop{
		net:       net,
		data:      data,
		state:     state,
		builder:   snapshot.NewBuilder(),
		bus:       bus,
		log:       log.WithComponent("loop"),
		epochs:    cfg.Epochs,
		timesteps: cfg.TimestepsPerIteration,
		mirror:    make(map[probe.ID]probe.Probe),
	}
	l.cadence.Store(int64(cfg.SnapshotEvery))
	return l
}

// SetCadence adjusts the snapshot cadence. Safe to call from another
// goroutine; the config watcher uses it for live reload.
func (l *Loop) SetCadence(every int) {
	if every < 1 {
		return
	}
	l.cadence.Store(int64(every))
}

// Iteration reports how many iterations have completed.
func (l *Loop) Iteration() uint64 {
	return atomic.LoadUint64(&l.iteration)
}

// Run executes the configured epochs. It returns nil when the run
// completes or a shutdown command is observed, and ctx.Err() when the
// context is canceled. A shutdown is honored within one iteration.
func (l *Loop) Run(ctx context.Context) error {
	perEpoch := l.data.Len()
	total := uint64(l.epochs) * uint64(perEpoch)
	start := time.Now()

	l.log.Info("run started",
		"epochs", l.epochs,
		"iterations", total,
		"timesteps_per_iteration", l.timesteps,
		"snapshot_every", l.cadence.Load())

	for l.Iteration() < total {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d, ok := l.state.Drain(); ok {
			if l.applyDrain(d) {
				l.bus.Publish(event.NewShutdownObservedEvent(l.Iteration()))
				l.log.Info("shutdown observed", "iteration", l.Iteration())
				return nil
			}
		}

		if l.paused {
			time.Sleep(pausedPollInterval)
			continue
		}

		batches := l.advance(l.data.Next())
		if !l.state.AppendSamples(batches) {
			l.log.Debug("sample batch dropped on contention", "iteration", l.Iteration())
		}

		iter := atomic.AddUint64(&l.iteration, 1)

		elapsed := time.Since(start).Seconds()
		stats := observation.Stats{
			Epoch:       int(iter-1)/perEpoch + 1,
			TotalEpochs: l.epochs,
			Iteration:   iter,
			Timestep:    l.step,
		}
		if elapsed > 0 {
			stats.PerSecond = float64(iter) / elapsed
		}
		l.state.UpdateStats(stats)

		if k := uint64(l.cadence.Load()); k > 0 && iter%k == 0 {
			snap := l.builder.Build(l.net)
			if l.state.Publish(snap) {
				l.bus.Publish(event.NewSnapshotPublishedEvent(iter))
			} else {
				l.log.Debug("snapshot publish skipped on contention", "iteration", iter)
			}
		}
	}

	l.bus.Publish(event.NewRunCompletedEvent(l.Iteration()))
	l.log.Info("run completed", "iterations", l.Iteration())
	return nil
}

// applyDrain folds one drain result into the local probe mirror, emits the
// matching events, and reports whether shutdown was requested.
func (l *Loop) applyDrain(d observation.Drained) bool {
	if d.Cleared {
		l.mirror = make(map[probe.ID]probe.Probe)
		l.order = l.order[:0]
		l.bus.Publish(event.NewTracesClearedEvent())
		l.log.Info("traces cleared")
	}
	if d.Detached != nil {
		id := *d.Detached
		if _, ok := l.mirror[id]; ok {
			delete(l.mirror, id)
			for i, existing := range l.order {
				if existing == id {
					l.order = append(l.order[:i], l.order[i+1:]...)
					break
				}
			}
		}
		l.bus.Publish(event.NewProbeDetachedEvent(id))
		l.log.Info("probe detached", "probe", string(id))
	}
	if d.Attach != nil {
		res := *d.Attach
		if res.Err != nil {
			l.bus.Publish(event.NewProbeRejectedEvent(res.Probe, res.Err))
			l.log.Warn("probe rejected",
				"node", res.Probe.NodeID,
				"index", res.Probe.Index,
				"error", res.Err.Error())
		} else {
			if _, ok := l.mirror[res.ID]; !ok {
				l.mirror[res.ID] = res.Probe
				l.order = append(l.order, res.ID)
			}
			l.bus.Publish(event.NewProbeAttachedEvent(res.ID, res.Probe))
			l.log.Info("probe attached", "probe", string(res.ID))
		}
	}

	if d.Paused != l.paused {
		l.paused = d.Paused
		l.log.Info("paused state changed", "paused", l.paused)
	}
	return d.Shutdown
}

// advance presents one input pattern for the configured number of
// timesteps and collects probe samples locally. The guard is never touched
// here; the caller appends the batches in one try-acquire.
func (l *Loop) advance(input []float64) []observation.SampleBatch {
	var collected map[probe.ID][]trace.Sample
	if len(l.mirror) > 0 {
		collected = make(map[probe.ID][]trace.Sample, len(l.mirror))
	}

	for t := 0; t < l.timesteps; t++ {
		l.net.Step(input)
		l.step++

		for id, p := range l.mirror {
			if v, ok := l.net.Value(p.NodeID, p.Index); ok {
				collected[id] = append(collected[id], trace.Sample{Step: l.step, Value: v})
			}
		}
	}

	if len(collected) == 0 {
		return nil
	}
	batches := make([]observation.SampleBatch, 0, len(collected))
	for _, id := range l.order {
		if samples, ok := collected[id]; ok {
			batches = append(batches, observation.SampleBatch{ID: id, Samples: samples})
		}
	}
	return batches
}
