// Package snapshot builds immutable structural views of the live network
// for the viewer. A snapshot is a complete point-in-time value: the producer
// replaces it wholesale, so a reader never sees a partial update.
package snapshot

// Position is a fixed layout coordinate on the viewer's canvas.
type Position struct {
	X float64
	Y float64
}

// Node describes one network node as drawn by the viewer.
type Node struct {
	ID   string
	Name string
	// Kind is the node category: "input", "hidden", or "output".
	Kind string
	Size int
	Pos  Position
	// Activity is the fraction of the node's units that fired on the most
	// recent timestep, in [0, 1]. Drives the node's color.
	Activity float64
}

// Edge describes one connection between nodes.
type Edge struct {
	Source string
	Target string
	// Kind is the connection category, e.g. "forward" or "output".
	Kind string
	// Magnitude is the mean absolute weight. Drives edge thickness.
	Magnitude float64
}

// Snapshot is an immutable structural view. Fields are never mutated after
// Build returns; the producer publishes a fresh value each cadence tick.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// NodeByID returns the node with the given id, or false if absent.
func (s *Snapshot) NodeByID(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
