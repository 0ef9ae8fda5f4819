// Package network implements the simulated entity model: a small layered
// spiking network in the style of leaky integrate-and-fire dynamics.
//
// The model is deliberately simple. What matters to the rest of the system
// is its boundary: Step advances the simulation, and the read accessors
// (NodeStates, EdgeStates, NodeSize, Value) are side-effect-free so the
// producer can sample them at any point in its loop.
package network

import (
	"fmt"
	"math"
	"math/rand"
)

// Model parameters. Values follow the reference dynamics; they are not
// tuned for learning quality, only for producing visibly varying activity.
const (
	membraneTau    = 13.0
	spikeThreshold = 1.0
	hebbianRate    = 0.01
	weightDecay    = 0.001
	initWeightStd  = 0.3
)

type layer struct {
	id         string
	kind       string
	size       int
	potentials []float64
	spikes     []float64
	drive      []float64
}

type synapse struct {
	kind string
	pre  int // layer index
	post int
	// weights[i][j] connects pre unit j to post unit i.
	weights [][]float64
}

// Network is a layered spiking model: a Bernoulli input layer, dense
// hidden layers with forward and backward connections, and an output layer
// fed by every hidden layer.
type Network struct {
	dt       float64
	decay    float64
	learning bool
	rng      *rand.Rand
	layers   []layer
	synapses []synapse
}

// New builds a network from layer sizes (input, hidden..., output). At
// least three layers are required. The same seed always produces the same
// network and, given the same inputs, the same activity.
func New(sizes []int, seed int64, dt float64) (*Network, error) {
	if len(sizes) < 3 {
		return nil, fmt.Errorf("need at least input, one hidden, and output layer, got %d sizes", len(sizes))
	}
	for i, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("layer %d has non-positive size %d", i, size)
		}
	}
	if dt <= 0 {
		dt = 0.1
	}

	n := &Network{
		dt:       dt,
		decay:    math.Exp(-dt / membraneTau),
		learning: true,
		rng:      rand.New(rand.NewSource(seed)),
	}

	for i, size := range sizes {
		var id, kind string
		switch {
		case i == 0:
			id, kind = "input", "input"
		case i == len(sizes)-1:
			id, kind = "out", "output"
		default:
			id, kind = fmt.Sprintf("hidden%d", i), "hidden"
		}
		n.layers = append(n.layers, layer{
			id:         id,
			kind:       kind,
			size:       size,
			potentials: make([]float64, size),
			spikes:     make([]float64, size),
			drive:      make([]float64, size),
		})
	}

	hiddenFirst := 1
	hiddenLast := len(sizes) - 2
	output := len(sizes) - 1

	// Forward chain: input -> hidden1 -> ... -> hiddenN.
	for i := 0; i < hiddenLast; i++ {
		n.addSynapse("forward", i, i+1)
	}
	// Backward connections between adjacent hidden layers.
	for i := hiddenFirst; i < hiddenLast; i++ {
		n.addSynapse("backward", i+1, i)
	}
	// Every hidden layer feeds the output layer.
	for i := hiddenFirst; i <= hiddenLast; i++ {
		n.addSynapse("output", i, output)
	}

	return n, nil
}

func (n *Network) addSynapse(kind string, pre, post int) {
	weights := make([][]float64, n.layers[post].size)
	for i := range weights {
		weights[i] = make([]float64, n.layers[pre].size)
		for j := range weights[i] {
			weights[i][j] = n.rng.NormFloat64() * initWeightStd
		}
	}
	n.synapses = append(n.synapses, synapse{kind: kind, pre: pre, post: post, weights: weights})
}

// SetLearning enables or disables the Hebbian weight update.
func (n *Network) SetLearning(enabled bool) {
	n.learning = enabled
}

// Reset zeroes membrane potentials and spikes, as between input patterns.
func (n *Network) Reset() {
	for i := range n.layers {
		for j := range n.layers[i].potentials {
			n.layers[i].potentials[j] = 0
			n.layers[i].spikes[j] = 0
		}
	}
}

// Step advances one timestep. input holds per-unit firing probabilities for
// the input layer, values in [0, 1]; shorter inputs leave trailing units
// silent.
func (n *Network) Step(input []float64) {
	// Input layer: Bernoulli spike generation.
	in := &n.layers[0]
	for i := range in.spikes {
		p := 0.0
		if i < len(input) {
			p = input[i]
		}
		if n.rng.Float64() < p {
			in.spikes[i] = 1
		} else {
			in.spikes[i] = 0
		}
	}

	// Accumulate synaptic drive from the previous timestep's spikes.
	for i := range n.layers {
		for j := range n.layers[i].drive {
			n.layers[i].drive[j] = 0
		}
	}
	for _, s := range n.synapses {
		pre := n.layers[s.pre].spikes
		drive := n.layers[s.post].drive
		for i := range drive {
			sum := 0.0
			for j, w := range s.weights[i] {
				sum += w * pre[j]
			}
			drive[i] += sum
		}
	}

	// Leaky integrate-and-fire update for every non-input layer.
	for i := 1; i < len(n.layers); i++ {
		l := &n.layers[i]
		for j := range l.potentials {
			l.potentials[j] = l.potentials[j]*n.decay + l.drive[j]*n.dt
			if l.potentials[j] >= spikeThreshold {
				l.spikes[j] = 1
				l.potentials[j] = 0
			} else {
				l.spikes[j] = 0
			}
		}
	}

	if n.learning {
		n.updateWeights()
	}
}

// updateWeights applies a local Hebbian rule: coincident pre and post
// spikes strengthen a weight, everything decays slowly toward zero.
func (n *Network) updateWeights() {
	for _, s := range n.synapses {
		pre := n.layers[s.pre].spikes
		post := n.layers[s.post].spikes
		for i := range s.weights {
			for j := range s.weights[i] {
				s.weights[i][j] += n.dt * (hebbianRate*post[i]*pre[j] - weightDecay*s.weights[i][j])
			}
		}
	}
}
