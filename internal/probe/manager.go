package probe

import (
	"fmt"

	"github.com/Iron-Ham/spikeview/internal/trace"
)

// Trace is a probe together with its sample history, as handed to readers.
type Trace struct {
	ID      ID
	Probe   Probe
	Samples []trace.Sample
}

// Manager owns the set of attached probes and their sample rings.
//
// Manager is not safe for concurrent use on its own; it lives inside the
// observation state and is only touched while the guard is held.
type Manager struct {
	topology Topology
	capacity int

	// order preserves attach order for stable iteration in the viewer.
	order  []ID
	probes map[ID]Probe
	rings  map[ID]*trace.Ring
}

// NewManager creates a manager that validates attaches against topology and
// gives each probe a ring of the given capacity.
func NewManager(topology Topology, capacity int) *Manager {
	return &Manager{
		topology: topology,
		capacity: capacity,
		probes:   make(map[ID]Probe),
		rings:    make(map[ID]*trace.Ring),
	}
}

// Attach registers a probe and returns its id. The node id and unit index
// are validated against the current topology; out-of-bounds requests fail
// with ErrInvalidProbe. Attaching an already-tracked scalar returns the
// existing id.
func (m *Manager) Attach(p Probe) (ID, error) {
	size, ok := m.topology.NodeSize(p.NodeID)
	if !ok {
		return "", fmt.Errorf("%w: unknown node %q", ErrInvalidProbe, p.NodeID)
	}
	if p.Index < 0 || p.Index >= size {
		return "", fmt.Errorf("%w: index %d out of range for node %q (size %d)",
			ErrInvalidProbe, p.Index, p.NodeID, size)
	}

	id := ID(p.DisplayName())
	if _, exists := m.probes[id]; exists {
		return id, nil
	}

	m.probes[id] = p
	m.rings[id] = trace.NewRing(m.capacity)
	m.order = append(m.order, id)
	return id, nil
}

// Detach removes a probe and its history. Detaching an absent id is a no-op.
func (m *Manager) Detach(id ID) {
	if _, exists := m.probes[id]; !exists {
		return
	}
	delete(m.probes, id)
	delete(m.rings, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Append records a sample for a probe. Appends for ids that are no longer
// attached are silently dropped: a detach racing an in-flight sample batch
// is expected, not an error.
func (m *Manager) Append(id ID, step uint64, value float64) {
	ring, exists := m.rings[id]
	if !exists {
		return
	}
	ring.Push(step, value)
}

// Clear removes every probe and its history.
func (m *Manager) Clear() {
	m.order = nil
	m.probes = make(map[ID]Probe)
	m.rings = make(map[ID]*trace.Ring)
}

// Len returns the number of attached probes.
func (m *Manager) Len() int {
	return len(m.probes)
}

// Probes returns the attached probes in attach order.
func (m *Manager) Probes() map[ID]Probe {
	out := make(map[ID]Probe, len(m.probes))
	for id, p := range m.probes {
		out[id] = p
	}
	return out
}

// Traces copies every probe's history, oldest to newest, in attach order.
func (m *Manager) Traces() []Trace {
	out := make([]Trace, 0, len(m.order))
	for _, id := range m.order {
		p, exists := m.probes[id]
		if !exists {
			continue
		}
		out = append(out, Trace{
			ID:      id,
			Probe:   p,
			Samples: m.rings[id].Samples(),
		})
	}
	return out
}
