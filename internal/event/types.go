package event

import (
	"time"

	"github.com/Iron-Ham/spikeview/internal/probe"
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "probe.attached", "run.shutdown")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Probe Events
// -----------------------------------------------------------------------------

// ProbeAttachedEvent is emitted when a drained attach request was applied.
type ProbeAttachedEvent struct {
	baseEvent
	ID    probe.ID
	Probe probe.Probe
}

// NewProbeAttachedEvent creates a ProbeAttachedEvent.
func NewProbeAttachedEvent(id probe.ID, p probe.Probe) ProbeAttachedEvent {
	return ProbeAttachedEvent{
		baseEvent: newBaseEvent("probe.attached"),
		ID:        id,
		Probe:     p,
	}
}

// ProbeRejectedEvent is emitted when an attach request named a node or
// index outside the current topology.
type ProbeRejectedEvent struct {
	baseEvent
	Probe probe.Probe
	Err   error
}

// NewProbeRejectedEvent creates a ProbeRejectedEvent.
func NewProbeRejectedEvent(p probe.Probe, err error) ProbeRejectedEvent {
	return ProbeRejectedEvent{
		baseEvent: newBaseEvent("probe.rejected"),
		Probe:     p,
		Err:       err,
	}
}

// ProbeDetachedEvent is emitted when a drained detach request was applied.
type ProbeDetachedEvent struct {
	baseEvent
	ID probe.ID
}

// NewProbeDetachedEvent creates a ProbeDetachedEvent.
func NewProbeDetachedEvent(id probe.ID) ProbeDetachedEvent {
	return ProbeDetachedEvent{
		baseEvent: newBaseEvent("probe.detached"),
		ID:        id,
	}
}

// TracesClearedEvent is emitted when every probe and its history was dropped.
type TracesClearedEvent struct {
	baseEvent
}

// NewTracesClearedEvent creates a TracesClearedEvent.
func NewTracesClearedEvent() TracesClearedEvent {
	return TracesClearedEvent{baseEvent: newBaseEvent("traces.cleared")}
}

// -----------------------------------------------------------------------------
// Run Lifecycle Events
// -----------------------------------------------------------------------------

// SnapshotPublishedEvent is emitted after a structural snapshot was
// published on a cadence tick.
type SnapshotPublishedEvent struct {
	baseEvent
	Iteration uint64
}

// NewSnapshotPublishedEvent creates a SnapshotPublishedEvent.
func NewSnapshotPublishedEvent(iteration uint64) SnapshotPublishedEvent {
	return SnapshotPublishedEvent{
		baseEvent: newBaseEvent("snapshot.published"),
		Iteration: iteration,
	}
}

// ShutdownObservedEvent is emitted when the simulation loop observes the
// shutdown flag and begins stopping.
type ShutdownObservedEvent struct {
	baseEvent
	Iteration uint64
}

// NewShutdownObservedEvent creates a ShutdownObservedEvent.
func NewShutdownObservedEvent(iteration uint64) ShutdownObservedEvent {
	return ShutdownObservedEvent{
		baseEvent: newBaseEvent("run.shutdown"),
		Iteration: iteration,
	}
}

// RunCompletedEvent is emitted when the simulation loop finishes its
// configured epochs.
type RunCompletedEvent struct {
	baseEvent
	Iteration uint64
}

// NewRunCompletedEvent creates a RunCompletedEvent.
func NewRunCompletedEvent(iteration uint64) RunCompletedEvent {
	return RunCompletedEvent{
		baseEvent: newBaseEvent("run.completed"),
		Iteration: iteration,
	}
}
