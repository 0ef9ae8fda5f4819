package tui

import (
	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/Iron-Ham/spikeview/internal/observation"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
)

// Model holds the viewer state. The model never blocks on the shared
// guard: every frame is one try-read, and a contended frame re-renders
// the previous view.
type Model struct {
	state *observation.State
	cfg   config.TUIConfig

	// view is the last successfully read copy of the observable state.
	// It stays valid across contended frames.
	view     observation.View
	haveView bool
	// staleFrames counts consecutive frames whose try-read was contended.
	staleFrames int

	// UI state
	width    int
	height   int
	ready    bool
	quitting bool
	showHelp bool

	// selected indexes into view.Traces (attach order).
	selected int

	// attaching is the probe entry mode; input holds "node index".
	attaching bool
	input     textinput.Model

	progress progress.Model

	infoMessage  string
	errorMessage string
}

// NewModel creates the viewer model.
func NewModel(state *observation.State, cfg config.TUIConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "node index (e.g. hidden1 3)"
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		state:    state,
		cfg:      cfg,
		input:    ti,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// selectedTrace returns the currently selected trace, or false if none.
func (m Model) selectedTrace() (int, bool) {
	if len(m.view.Traces) == 0 {
		return 0, false
	}
	idx := m.selected
	if idx >= len(m.view.Traces) {
		idx = len(m.view.Traces) - 1
	}
	return idx, true
}
