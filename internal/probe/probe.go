// Package probe tracks user-selected scalars from the live network over time.
package probe

import (
	"errors"
	"fmt"
)

// ErrInvalidProbe is returned when an attach request names a node that does
// not exist in the current topology or an index past the node's size.
var ErrInvalidProbe = errors.New("invalid probe")

// Probe identifies one observable scalar: a unit index within a node.
type Probe struct {
	NodeID string
	Index  int
}

// ID is the stable identifier assigned to a probe when it is attached.
type ID string

// DisplayName renders the probe the way the viewer labels it, e.g. "hidden1[7]".
func (p Probe) DisplayName() string {
	return fmt.Sprintf("%s[%d]", p.NodeID, p.Index)
}

// Topology exposes node bounds for attach validation.
type Topology interface {
	// NodeSize returns the unit count for a node id, or false if the node
	// does not exist.
	NodeSize(id string) (int, bool)
}
