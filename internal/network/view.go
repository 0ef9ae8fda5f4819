package network

import "github.com/Iron-Ham/spikeview/internal/snapshot"

// NodeStates reports each layer's structure and current activity level
// (fraction of units that spiked on the last timestep). Read-only.
func (n *Network) NodeStates() []snapshot.NodeState {
	out := make([]snapshot.NodeState, 0, len(n.layers))
	for i := range n.layers {
		l := &n.layers[i]
		active := 0
		for _, s := range l.spikes {
			if s > 0 {
				active++
			}
		}
		out = append(out, snapshot.NodeState{
			ID:       l.id,
			Name:     l.id,
			Kind:     l.kind,
			Size:     l.size,
			Activity: float64(active) / float64(l.size),
		})
	}
	return out
}

// EdgeStates reports each connection with its mean absolute weight.
// Read-only.
func (n *Network) EdgeStates() []snapshot.EdgeState {
	out := make([]snapshot.EdgeState, 0, len(n.synapses))
	for _, s := range n.synapses {
		sum := 0.0
		count := 0
		for i := range s.weights {
			for _, w := range s.weights[i] {
				if w < 0 {
					sum -= w
				} else {
					sum += w
				}
				count++
			}
		}
		magnitude := 0.0
		if count > 0 {
			magnitude = sum / float64(count)
		}
		out = append(out, snapshot.EdgeState{
			Source:    n.layers[s.pre].id,
			Target:    n.layers[s.post].id,
			Kind:      s.kind,
			Magnitude: magnitude,
		})
	}
	return out
}

// NodeSize returns the unit count for a layer id, or false for an unknown
// id. This is the bound probes are validated against.
func (n *Network) NodeSize(id string) (int, bool) {
	for i := range n.layers {
		if n.layers[i].id == id {
			return n.layers[i].size, true
		}
	}
	return 0, false
}

// Value returns the current spike value of one unit, the scalar a probe
// traces over time. Returns false for out-of-bounds coordinates. Read-only.
func (n *Network) Value(nodeID string, index int) (float64, bool) {
	for i := range n.layers {
		l := &n.layers[i]
		if l.id != nodeID {
			continue
		}
		if index < 0 || index >= l.size {
			return 0, false
		}
		return l.spikes[index], true
	}
	return 0, false
}
