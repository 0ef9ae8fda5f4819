package snapshot

// Canvas bounds the fixed layout works within. The viewer scales these
// world coordinates to the terminal.
const (
	canvasWidth  = 1000.0
	canvasHeight = 400.0
	marginX      = 100.0
)

// NodeState is a side-effect-free read of one live node.
type NodeState struct {
	ID       string
	Name     string
	Kind     string
	Size     int
	Activity float64
}

// EdgeState is a side-effect-free read of one live connection.
type EdgeState struct {
	Source    string
	Target    string
	Kind      string
	Magnitude float64
}

// Source is the boundary with the simulation engine: pull-based reads of
// the current structure. Both methods must be free of side effects.
type Source interface {
	NodeStates() []NodeState
	EdgeStates() []EdgeState
}

// Builder produces snapshots from a live source. Node layout is computed
// the first time a node is seen and held fixed for the rest of the run, so
// the rendered topology stays visually stable across snapshots.
type Builder struct {
	positions map[string]Position
}

// NewBuilder creates a builder with no layout assigned yet.
func NewBuilder() *Builder {
	return &Builder{positions: make(map[string]Position)}
}

// Build reads the source and returns a fresh snapshot. Two builds over
// identical underlying state produce field-equal snapshots.
func (b *Builder) Build(src Source) *Snapshot {
	states := src.NodeStates()

	// Assign positions for nodes we have not seen before. Columns run left
	// to right in first-seen order, vertically centered, so a layered
	// network reads input -> hidden -> output.
	for _, st := range states {
		if _, seen := b.positions[st.ID]; !seen {
			b.positions[st.ID] = b.nextPosition(len(b.positions), len(states))
		}
	}

	snap := &Snapshot{
		Nodes: make([]Node, 0, len(states)),
	}
	for _, st := range states {
		snap.Nodes = append(snap.Nodes, Node{
			ID:       st.ID,
			Name:     st.Name,
			Kind:     st.Kind,
			Size:     st.Size,
			Pos:      b.positions[st.ID],
			Activity: clamp01(st.Activity),
		})
	}

	edges := src.EdgeStates()
	snap.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		snap.Edges = append(snap.Edges, Edge{
			Source:    e.Source,
			Target:    e.Target,
			Kind:      e.Kind,
			Magnitude: e.Magnitude,
		})
	}
	return snap
}

// nextPosition places the column'th node of an expected total count.
func (b *Builder) nextPosition(column, expected int) Position {
	if expected < 2 {
		expected = 2
	}
	span := canvasWidth - 2*marginX
	x := marginX + span*float64(column)/float64(expected-1)
	// Stagger alternate columns slightly so dense rows of edges stay legible.
	y := canvasHeight / 2
	if column%2 == 1 {
		y -= canvasHeight / 8
	}
	return Position{X: x, Y: y}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
