// Package trace stores fixed-capacity histories of probe samples.
package trace

// DefaultCapacity is the number of samples a ring keeps per probe.
// At 40 timesteps per iteration this is a few hundred milliseconds of
// simulated time, enough for the viewer's sparklines.
const DefaultCapacity = 1000

// Sample is one observed scalar at a simulation timestep.
type Sample struct {
	Step  uint64
	Value float64
}

// Ring is a fixed-capacity circular buffer of samples. When full, a push
// overwrites the oldest sample by advancing the start index; the backing
// array is allocated once and never resized.
//
// Ring is not safe for concurrent use. The observation state guards it.
type Ring struct {
	data  []Sample
	start int
	end   int
	full  bool
}

// NewRing creates a ring holding at most capacity samples.
// Non-positive capacities fall back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{data: make([]Sample, capacity)}
}

// Push records a sample, overwriting the oldest one when the ring is full.
func (r *Ring) Push(step uint64, value float64) {
	r.data[r.end] = Sample{Step: step, Value: value}
	r.end = (r.end + 1) % len(r.data)

	if r.full {
		r.start = (r.start + 1) % len(r.data)
	}
	if r.end == r.start {
		r.full = true
	}
}

// Samples returns a copy of the retained samples, oldest to newest.
func (r *Ring) Samples() []Sample {
	n := r.Len()
	if n == 0 {
		return nil
	}

	out := make([]Sample, 0, n)
	if r.full || r.end < r.start {
		out = append(out, r.data[r.start:]...)
		out = append(out, r.data[:r.end]...)
	} else {
		out = append(out, r.data[r.start:r.end]...)
	}
	return out
}

// Len returns the number of retained samples.
func (r *Ring) Len() int {
	if r.full {
		return len(r.data)
	}
	if r.end >= r.start {
		return r.end - r.start
	}
	return len(r.data) - r.start + r.end
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Clear discards all samples without releasing the backing array.
func (r *Ring) Clear() {
	r.start = 0
	r.end = 0
	r.full = false
}
