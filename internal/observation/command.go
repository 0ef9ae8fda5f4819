package observation

import "github.com/Iron-Ham/spikeview/internal/probe"

// CommandKind selects which control slot a command writes.
type CommandKind int

const (
	// AttachProbe asks the producer to start tracking a scalar.
	AttachProbe CommandKind = iota
	// DetachProbe asks the producer to stop tracking a probe.
	DetachProbe
	// ClearProbes asks the producer to drop every probe and its history.
	ClearProbes
	// SetPaused sets the simulation's paused state.
	SetPaused
	// Shutdown asks the producer to stop. It is sticky: once set it is
	// never cleared, and the producer observes it on its next drain.
	Shutdown
)

// Command is a consumer-issued control request. Each kind occupies a single
// pending slot: issuing a second command of the same kind before the
// producer drains overwrites the first (last write wins, not a queue).
type Command struct {
	Kind    CommandKind
	Probe   probe.Probe // AttachProbe
	ProbeID probe.ID    // DetachProbe
	Paused  bool        // SetPaused
}

// AttachResult reports the outcome of a drained attach request.
type AttachResult struct {
	Probe probe.Probe
	ID    probe.ID
	// Err is non-nil when the request named a node or index outside the
	// current topology (probe.ErrInvalidProbe).
	Err error
}

// Drained is what the producer receives from one drain: the applied probe
// mutations plus the current paused and shutdown flags.
type Drained struct {
	Attach   *AttachResult
	Detached *probe.ID
	Cleared  bool
	Paused   bool
	Shutdown bool
}

// pendingSlots holds at most one outstanding request per command kind.
type pendingSlots struct {
	attach    *probe.Probe
	detach    *probe.ID
	clear     bool
	setPaused *bool
	shutdown  bool
}
