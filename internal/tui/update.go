package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Iron-Ham/spikeview/internal/event"
	"github.com/Iron-Ham/spikeview/internal/observation"
	"github.com/Iron-Ham/spikeview/internal/probe"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.progress.Width = min(m.width-20, 60)
		return m, nil

	case frameMsg:
		if v, ok := m.state.TryRead(); ok {
			m.view = v
			m.haveView = true
			m.staleFrames = 0
		} else {
			// Contended frame: keep rendering the previous view.
			m.staleFrames++
		}
		return m, frame(m.cfg.FrameInterval())

	case busEventMsg:
		return m.handleBusEvent(msg.event)
	}

	return m, nil
}

// handleBusEvent surfaces producer events in the status line.
func (m Model) handleBusEvent(e event.Event) (tea.Model, tea.Cmd) {
	switch ev := e.(type) {
	case event.ProbeAttachedEvent:
		m.infoMessage = fmt.Sprintf("attached %s", ev.ID)
		m.errorMessage = ""
	case event.ProbeRejectedEvent:
		m.errorMessage = fmt.Sprintf("rejected %s: %v", ev.Probe.DisplayName(), ev.Err)
	case event.ProbeDetachedEvent:
		m.infoMessage = fmt.Sprintf("detached %s", ev.ID)
	case event.TracesClearedEvent:
		m.infoMessage = "traces cleared"
		m.selected = 0
	case event.RunCompletedEvent:
		m.infoMessage = fmt.Sprintf("run completed after %d iterations", ev.Iteration)
	}
	return m, nil
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.attaching {
		return m.handleAttachInput(msg)
	}

	// Clear transient messages on most actions
	m.infoMessage = ""

	switch msg.String() {
	case "q", "ctrl+c":
		// Fire-and-forget: ask the producer to stop, then quit
		// independently. A dropped issue still quits; the command layer
		// cancels the producer's context afterwards.
		m.state.Issue(observation.Command{Kind: observation.Shutdown})
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "p":
		m.issue(observation.Command{
			Kind:   observation.SetPaused,
			Paused: !m.view.Paused,
		})
		return m, nil

	case "a":
		m.attaching = true
		m.errorMessage = ""
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		if idx, ok := m.selectedTrace(); ok {
			m.issue(observation.Command{
				Kind:    observation.DetachProbe,
				ProbeID: m.view.Traces[idx].ID,
			})
		}
		return m, nil

	case "c":
		m.issue(observation.Command{Kind: observation.ClearProbes})
		return m, nil

	case "tab", "j", "down":
		if n := len(m.view.Traces); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil

	case "shift+tab", "k", "up":
		if n := len(m.view.Traces); n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
		return m, nil
	}

	return m, nil
}

// handleAttachInput handles keystrokes in probe entry mode.
func (m Model) handleAttachInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.attaching = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		p, err := parseProbeInput(m.input.Value())
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		// Pre-validate against the last snapshot so obvious typos fail
		// immediately. The producer re-validates on drain either way.
		if err := m.validateAgainstSnapshot(p); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		if m.issue(observation.Command{Kind: observation.AttachProbe, Probe: p}) {
			m.infoMessage = fmt.Sprintf("attach %s requested", p.DisplayName())
			m.attaching = false
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseProbeInput parses "node index" into a probe.
func parseProbeInput(s string) (probe.Probe, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return probe.Probe{}, fmt.Errorf("expected \"node index\", e.g. \"hidden1 3\"")
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return probe.Probe{}, fmt.Errorf("index %q is not a number", fields[1])
	}
	return probe.Probe{NodeID: fields[0], Index: index}, nil
}

// validateAgainstSnapshot checks a probe against the last published
// snapshot. With no snapshot yet, everything passes; the producer is the
// authority.
func (m Model) validateAgainstSnapshot(p probe.Probe) error {
	if m.view.Snapshot == nil {
		return nil
	}
	node, ok := m.view.Snapshot.NodeByID(p.NodeID)
	if !ok {
		return fmt.Errorf("no node %q in the current network", p.NodeID)
	}
	if p.Index < 0 || p.Index >= node.Size {
		return fmt.Errorf("%s has %d units, index %d is out of range", p.NodeID, node.Size, p.Index)
	}
	return nil
}
