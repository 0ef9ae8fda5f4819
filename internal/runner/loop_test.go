package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iron-Ham/spikeview/internal/event"
	"github.com/Iron-Ham/spikeview/internal/logging"
	"github.com/Iron-Ham/spikeview/internal/network"
	"github.com/Iron-Ham/spikeview/internal/observation"
	"github.com/Iron-Ham/spikeview/internal/probe"
)

type fixture struct {
	net   *network.Network
	data  *network.Dataset
	state *observation.State
	bus   *event.Bus
	loop  *Loop
}

func newFixture(t *testing.T, cfg Config, startPaused bool) *fixture {
	t.Helper()

	net, err := network.New([]int{2, 4, 1}, 7, 0.1)
	if err != nil {
		t.Fatalf("network.New failed: %v", err)
	}

	data := network.XORDataset()
	state := observation.NewState(net, 100, startPaused)
	bus := event.NewBus()

	return &fixture{
		net:   net,
		data:  data,
		state: state,
		bus:   bus,
		loop:  NewLoop(net, data, state, bus, logging.NopLogger(), cfg),
	}
}

func TestRunPublishesOnCadence(t *testing.T) {
	// 5 epochs of 4 patterns = 20 iterations; cadence 10 means exactly
	// two snapshots, at iterations 10 and 20.
	f := newFixture(t, Config{Epochs: 5, TimestepsPerIteration: 2, SnapshotEvery: 10}, false)

	var published []uint64
	f.bus.Subscribe("snapshot.published", func(e event.Event) {
		published = append(published, e.(event.SnapshotPublishedEvent).Iteration)
	})
	completed := false
	f.bus.Subscribe("run.completed", func(e event.Event) { completed = true })

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(published) != 2 || published[0] != 10 || published[1] != 20 {
		t.Errorf("published at iterations %v, want [10 20]", published)
	}
	if !completed {
		t.Error("run.completed event not published")
	}

	view, ok := f.state.TryRead()
	if !ok {
		t.Fatal("TryRead failed after run")
	}
	if view.Snapshot == nil {
		t.Fatal("no snapshot visible after run")
	}
	if view.Stats.Iteration != 20 {
		t.Errorf("Stats.Iteration = %d, want 20", view.Stats.Iteration)
	}
	if view.Stats.Epoch != 5 {
		t.Errorf("Stats.Epoch = %d, want 5", view.Stats.Epoch)
	}
}

func TestShutdownHonoredBeforeFirstIteration(t *testing.T) {
	f := newFixture(t, Config{Epochs: 1000, TimestepsPerIteration: 40, SnapshotEvery: 10}, false)

	observed := false
	f.bus.Subscribe("run.shutdown", func(e event.Event) { observed = true })

	if !f.state.Issue(observation.Command{Kind: observation.Shutdown}) {
		t.Fatal("Issue(Shutdown) failed")
	}

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !observed {
		t.Error("run.shutdown event not published")
	}
	if f.loop.Iteration() != 0 {
		t.Errorf("Iteration() = %d, want 0", f.loop.Iteration())
	}
}

func TestShutdownHonoredWhilePaused(t *testing.T) {
	f := newFixture(t, Config{Epochs: 1000, TimestepsPerIteration: 40, SnapshotEvery: 10}, true)

	if !f.state.Issue(observation.Command{Kind: observation.Shutdown}) {
		t.Fatal("Issue(Shutdown) failed")
	}

	done := make(chan error, 1)
	go func() { done <- f.loop.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("paused loop did not observe shutdown")
	}

	if f.loop.Iteration() != 0 {
		t.Errorf("Iteration() = %d, want 0 for a run that never resumed", f.loop.Iteration())
	}
}

func TestResumeFromStartPaused(t *testing.T) {
	f := newFixture(t, Config{Epochs: 1, TimestepsPerIteration: 2, SnapshotEvery: 10}, true)

	if !f.state.Issue(observation.Command{Kind: observation.SetPaused, Paused: false}) {
		t.Fatal("Issue(SetPaused) failed")
	}

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := f.loop.Iteration(); got != 4 {
		t.Errorf("Iteration() = %d, want 4", got)
	}
}

func TestAttachedProbeCollectsSamples(t *testing.T) {
	f := newFixture(t, Config{Epochs: 2, TimestepsPerIteration: 5, SnapshotEvery: 10}, false)

	var attachedID probe.ID
	f.bus.Subscribe("probe.attached", func(e event.Event) {
		attachedID = e.(event.ProbeAttachedEvent).ID
	})

	if !f.state.Issue(observation.Command{
		Kind:  observation.AttachProbe,
		Probe: probe.Probe{NodeID: "hidden1", Index: 0},
	}) {
		t.Fatal("Issue(AttachProbe) failed")
	}

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if attachedID == "" {
		t.Fatal("probe.attached event not published")
	}

	view, ok := f.state.TryRead()
	if !ok {
		t.Fatal("TryRead failed after run")
	}
	if len(view.Traces) != 1 {
		t.Fatalf("got %d traces, want 1", len(view.Traces))
	}
	tr := view.Traces[0]
	if tr.ID != attachedID {
		t.Errorf("trace ID = %q, want %q", tr.ID, attachedID)
	}

	// The attach is drained before the first iteration, so every
	// subsequent timestep contributes a sample: 8 iterations * 5 steps.
	if len(tr.Samples) != 40 {
		t.Errorf("got %d samples, want 40", len(tr.Samples))
	}
	for i := 1; i < len(tr.Samples); i++ {
		if tr.Samples[i].Step <= tr.Samples[i-1].Step {
			t.Fatalf("samples out of order at %d: %d then %d",
				i, tr.Samples[i-1].Step, tr.Samples[i].Step)
		}
	}
}

func TestInvalidAttachIsRejected(t *testing.T) {
	f := newFixture(t, Config{Epochs: 1, TimestepsPerIteration: 1, SnapshotEvery: 10}, false)

	var rejected *event.ProbeRejectedEvent
	f.bus.Subscribe("probe.rejected", func(e event.Event) {
		ev := e.(event.ProbeRejectedEvent)
		rejected = &ev
	})

	f.state.Issue(observation.Command{
		Kind:  observation.AttachProbe,
		Probe: probe.Probe{NodeID: "nope", Index: 0},
	})

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rejected == nil {
		t.Fatal("probe.rejected event not published")
	}
	if !errors.Is(rejected.Err, probe.ErrInvalidProbe) {
		t.Errorf("rejection error = %v, want ErrInvalidProbe", rejected.Err)
	}

	view, ok := f.state.TryRead()
	if !ok {
		t.Fatal("TryRead failed after run")
	}
	if len(view.Traces) != 0 {
		t.Errorf("got %d traces after rejected attach, want 0", len(view.Traces))
	}
}

func TestDetachStopsSampling(t *testing.T) {
	f := newFixture(t, Config{Epochs: 3, TimestepsPerIteration: 2, SnapshotEvery: 100}, false)

	// Detach as soon as the attach result comes back. The handler runs on
	// the producer goroutine after the drain released the guard, so the
	// issue lands in the pending slot for the next iteration's drain.
	detached := false
	f.bus.Subscribe("probe.attached", func(e event.Event) {
		id := e.(event.ProbeAttachedEvent).ID
		f.state.Issue(observation.Command{Kind: observation.DetachProbe, ProbeID: id})
	})
	f.bus.Subscribe("probe.detached", func(e event.Event) { detached = true })

	f.state.Issue(observation.Command{
		Kind:  observation.AttachProbe,
		Probe: probe.Probe{NodeID: "out", Index: 0},
	})

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !detached {
		t.Fatal("probe.detached event not published")
	}

	view, ok := f.state.TryRead()
	if !ok {
		t.Fatal("TryRead failed after run")
	}
	if len(view.Traces) != 0 {
		t.Errorf("got %d traces after detach, want 0", len(view.Traces))
	}
}

func TestSetCadence(t *testing.T) {
	f := newFixture(t, Config{Epochs: 1, TimestepsPerIteration: 1, SnapshotEvery: 100}, false)

	count := 0
	f.bus.Subscribe("snapshot.published", func(e event.Event) { count++ })

	f.loop.SetCadence(2)
	// Out-of-range values are ignored, not applied.
	f.loop.SetCadence(0)

	if err := f.loop.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 4 iterations at cadence 2: snapshots at 2 and 4.
	if count != 2 {
		t.Errorf("published %d snapshots, want 2", count)
	}
}

func TestRunHonorsContextCancel(t *testing.T) {
	f := newFixture(t, Config{Epochs: 1000, TimestepsPerIteration: 40, SnapshotEvery: 10}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := f.loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
