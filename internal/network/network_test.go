package network

import (
	"reflect"
	"testing"
)

func newTestNetwork(t *testing.T) *Network {
	t.Helper()
	n, err := New([]int{2, 8, 8, 1}, 42, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return n
}

func TestNewRejectsBadShapes(t *testing.T) {
	t.Parallel()

	if _, err := New([]int{2, 1}, 1, 0.1); err == nil {
		t.Error("two layers accepted, want error")
	}
	if _, err := New([]int{2, 0, 1}, 1, 0.1); err == nil {
		t.Error("zero-size layer accepted, want error")
	}
}

func TestTopologyShape(t *testing.T) {
	t.Parallel()
	n := newTestNetwork(t)

	nodes := n.NodeStates()
	wantIDs := []string{"input", "hidden1", "hidden2", "out"}
	if len(nodes) != len(wantIDs) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(wantIDs))
	}
	for i, want := range wantIDs {
		if nodes[i].ID != want {
			t.Errorf("node %d id = %q, want %q", i, nodes[i].ID, want)
		}
	}
	if nodes[0].Kind != "input" || nodes[3].Kind != "output" || nodes[1].Kind != "hidden" {
		t.Errorf("kinds = %q %q %q %q", nodes[0].Kind, nodes[1].Kind, nodes[2].Kind, nodes[3].Kind)
	}

	// Two hidden layers: 2 forward, 1 backward, 2 output connections.
	edges := n.EdgeStates()
	counts := map[string]int{}
	for _, e := range edges {
		counts[e.Kind]++
	}
	if counts["forward"] != 2 || counts["backward"] != 1 || counts["output"] != 2 {
		t.Errorf("edge kind counts = %v, want forward:2 backward:1 output:2", counts)
	}
}

func TestNodeSize(t *testing.T) {
	t.Parallel()
	n := newTestNetwork(t)

	if size, ok := n.NodeSize("hidden1"); !ok || size != 8 {
		t.Errorf("NodeSize(hidden1) = %d, %v", size, ok)
	}
	if _, ok := n.NodeSize("hidden9"); ok {
		t.Error("NodeSize(hidden9) reported present")
	}
}

func TestValueBounds(t *testing.T) {
	t.Parallel()
	n := newTestNetwork(t)

	if _, ok := n.Value("input", 0); !ok {
		t.Error("Value(input, 0) out of bounds")
	}
	if _, ok := n.Value("input", 2); ok {
		t.Error("Value(input, 2) accepted, want out of bounds")
	}
	if _, ok := n.Value("ghost", 0); ok {
		t.Error("Value(ghost, 0) accepted, want unknown node")
	}
}

func TestDeterministicGivenSeed(t *testing.T) {
	t.Parallel()

	run := func() ([]float64, []float64) {
		n, err := New([]int{2, 8, 1}, 7, 0.1)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		input := []float64{1, 0}
		spikes := make([]float64, 0, 50)
		for i := 0; i < 50; i++ {
			n.Step(input)
			v, _ := n.Value("hidden1", 3)
			spikes = append(spikes, v)
		}
		weights := make([]float64, 0)
		for _, e := range n.EdgeStates() {
			weights = append(weights, e.Magnitude)
		}
		return spikes, weights
	}

	spikesA, weightsA := run()
	spikesB, weightsB := run()
	if !reflect.DeepEqual(spikesA, spikesB) {
		t.Error("spike traces differ across identical seeded runs")
	}
	if !reflect.DeepEqual(weightsA, weightsB) {
		t.Error("weights differ across identical seeded runs")
	}
}

func TestAccessorsAreSideEffectFree(t *testing.T) {
	t.Parallel()
	n := newTestNetwork(t)
	for i := 0; i < 20; i++ {
		n.Step([]float64{1, 1})
	}

	before := n.NodeStates()
	n.NodeStates()
	n.EdgeStates()
	n.Value("hidden1", 0)
	after := n.NodeStates()

	if !reflect.DeepEqual(before, after) {
		t.Error("read accessors changed observable state")
	}
}

func TestStepProducesActivity(t *testing.T) {
	t.Parallel()
	n := newTestNetwork(t)

	// Driving the input hard for a while should make something spike.
	sawActivity := false
	for i := 0; i < 200 && !sawActivity; i++ {
		n.Step([]float64{1, 1})
		for _, node := range n.NodeStates() {
			if node.Activity > 0 {
				sawActivity = true
			}
		}
	}
	if !sawActivity {
		t.Error("no activity after 200 driven timesteps")
	}
}

func TestResetClearsActivity(t *testing.T) {
	t.Parallel()
	n := newTestNetwork(t)
	for i := 0; i < 50; i++ {
		n.Step([]float64{1, 1})
	}
	n.Reset()

	for _, node := range n.NodeStates() {
		if node.Activity != 0 {
			t.Errorf("node %s active after Reset: %v", node.ID, node.Activity)
		}
	}
}

func TestDatasetCycles(t *testing.T) {
	t.Parallel()
	ds := XORDataset()

	if ds.Len() != 4 {
		t.Fatalf("Len = %d, want 4", ds.Len())
	}
	first := ds.Next()
	for i := 0; i < 3; i++ {
		ds.Next()
	}
	again := ds.Next()
	if !reflect.DeepEqual(first, again) {
		t.Errorf("pattern after full cycle = %v, want %v", again, first)
	}
}
