// Package observation is the synchronization boundary between the
// simulation loop (producer) and the terminal viewer (consumer).
//
// Both sides share one State guarded by a single mutex, and every access is
// a try-acquire: on contention the caller skips its turn instead of
// blocking, so neither loop can stall the other. Critical sections move
// data in or out only; nothing is simulated or rendered while the guard is
// held. Contention therefore degrades freshness, never correctness.
package observation

import (
	"sync"

	"github.com/Iron-Ham/spikeview/internal/probe"
	"github.com/Iron-Ham/spikeview/internal/snapshot"
	"github.com/Iron-Ham/spikeview/internal/trace"
)

// Stats are producer-owned run counters, refreshed every iteration.
type Stats struct {
	Epoch       int
	TotalEpochs int
	Iteration   uint64
	Timestep    uint64
	PerSecond   float64
}

// View is the consumer's copy of everything observable: the current
// snapshot, run stats, and per-probe trace copies. The snapshot pointer is
// shared but the value is immutable, so holding it across frames is safe.
type View struct {
	Snapshot *snapshot.Snapshot
	Stats    Stats
	Traces   []probe.Trace
	Paused   bool
}

// SampleBatch carries one probe's samples collected during a producer
// iteration, appended in order under a single guard acquisition.
type SampleBatch struct {
	ID      probe.ID
	Samples []trace.Sample
}

// State joins the published snapshot, run stats, probe traces, and control
// slots. The producer writes snapshot, stats, and samples; the consumer
// writes control slots; both read everything.
type State struct {
	mu sync.Mutex

	snap    *snapshot.Snapshot
	stats   Stats
	probes  *probe.Manager
	paused  bool
	pending pendingSlots
}

// NewState creates the shared state. Attach requests are validated against
// topology; each probe's history holds traceCapacity samples. The
// simulation starts paused or running per startPaused.
func NewState(topology probe.Topology, traceCapacity int, startPaused bool) *State {
	return &State{
		probes: probe.NewManager(topology, traceCapacity),
		paused: startPaused,
	}
}

// TryRead returns a copy of the observable state, or false immediately if
// the guard is held. An unavailable read is the documented try-acquire
// outcome, not an error: the consumer re-renders its previous frame.
func (s *State) TryRead() (View, bool) {
	if !s.mu.TryLock() {
		return View{}, false
	}
	defer s.mu.Unlock()

	return View{
		Snapshot: s.snap,
		Stats:    s.stats,
		Traces:   s.probes.Traces(),
		Paused:   s.paused,
	}, true
}

// Issue writes a command into its pending slot, overwriting any undrained
// request of the same kind. Returns false if the guard was contended and
// the command was dropped; the consumer may re-issue on a later frame.
func (s *State) Issue(cmd Command) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	switch cmd.Kind {
	case AttachProbe:
		p := cmd.Probe
		s.pending.attach = &p
	case DetachProbe:
		id := cmd.ProbeID
		s.pending.detach = &id
	case ClearProbes:
		s.pending.clear = true
	case SetPaused:
		paused := cmd.Paused
		s.pending.setPaused = &paused
	case Shutdown:
		s.pending.shutdown = true
	}
	return true
}

// Publish replaces the structural snapshot. Returns false if the guard was
// contended; the producer skips publishing for this cadence tick and never
// retries it.
func (s *State) Publish(snap *snapshot.Snapshot) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	s.snap = snap
	return true
}

// UpdateStats replaces the run counters. Skipped on contention.
func (s *State) UpdateStats(stats Stats) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	s.stats = stats
	return true
}

// AppendSamples appends collected samples to their probes' rings under one
// guard acquisition. Batches for probes detached since collection are
// silently dropped. Returns false if the guard was contended; the batch is
// lost for this iteration, which only costs trace resolution.
func (s *State) AppendSamples(batches []SampleBatch) bool {
	if len(batches) == 0 {
		return true
	}
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	for _, batch := range batches {
		for _, sample := range batch.Samples {
			s.probes.Append(batch.ID, sample.Step, sample.Value)
		}
	}
	return true
}

// Drain consumes the pending control slots, applying probe mutations while
// the guard is held so a reader never observes a half-applied drain. Slots
// are cleared as they are consumed; the shutdown flag is sticky. Applied in
// the order clear, detach, attach, so a clear never wipes out a probe
// attached by the same drain.
//
// Returns false if the guard was contended; the slots stay pending and the
// producer retries on its next iteration.
func (s *State) Drain() (Drained, bool) {
	if !s.mu.TryLock() {
		return Drained{}, false
	}
	defer s.mu.Unlock()

	var d Drained

	if s.pending.clear {
		s.probes.Clear()
		s.pending.clear = false
		d.Cleared = true
	}
	if s.pending.detach != nil {
		id := *s.pending.detach
		s.probes.Detach(id)
		s.pending.detach = nil
		d.Detached = &id
	}
	if s.pending.attach != nil {
		p := *s.pending.attach
		id, err := s.probes.Attach(p)
		s.pending.attach = nil
		d.Attach = &AttachResult{Probe: p, ID: id, Err: err}
	}
	if s.pending.setPaused != nil {
		s.paused = *s.pending.setPaused
		s.pending.setPaused = nil
	}

	d.Paused = s.paused
	d.Shutdown = s.pending.shutdown
	return d, true
}

// ProbeCount reports how many probes are attached. Used by the headless
// runner's periodic log line; skipped value is 0 on contention.
func (s *State) ProbeCount() int {
	if !s.mu.TryLock() {
		return 0
	}
	defer s.mu.Unlock()
	return s.probes.Len()
}
