package network

// Dataset cycles through input patterns, one per producer iteration.
type Dataset struct {
	patterns [][]float64
	next     int
}

// NewDataset creates a dataset from explicit patterns.
func NewDataset(patterns [][]float64) *Dataset {
	return &Dataset{patterns: patterns}
}

// XORDataset returns the four XOR input patterns. The labels are not used:
// the run is unsupervised, the patterns just drive varied input activity.
func XORDataset() *Dataset {
	return &Dataset{
		patterns: [][]float64{
			{0, 0},
			{0, 1},
			{1, 0},
			{1, 1},
		},
	}
}

// Len returns the number of patterns, i.e. iterations per epoch.
func (d *Dataset) Len() int {
	return len(d.patterns)
}

// Next returns the next pattern, wrapping around at the end.
func (d *Dataset) Next() []float64 {
	p := d.patterns[d.next]
	d.next = (d.next + 1) % len(d.patterns)
	return p
}
