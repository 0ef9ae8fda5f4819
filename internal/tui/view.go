package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Iron-Ham/spikeview/internal/snapshot"
	"github.com/Iron-Ham/spikeview/internal/trace"
	"github.com/Iron-Ham/spikeview/internal/tui/styles"
	"github.com/Iron-Ham/spikeview/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// sparkRunes maps a normalized value to a bar glyph, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// View renders the viewer
func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}
	if m.quitting {
		return "shutting down...\n"
	}

	sections := []string{
		m.renderHeader(),
		m.renderTopology(),
		m.renderTraces(),
	}
	if m.attaching {
		sections = append(sections, m.renderAttachPrompt())
	}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := styles.Header.Render("spikeview")

	if !m.haveView {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			styles.Muted.Render("waiting for the simulation..."))
	}

	st := m.view.Stats

	badge := styles.RunningBadge.Render("RUNNING")
	if m.view.Paused {
		badge = styles.PausedBadge.Render("PAUSED")
	}

	stats := fmt.Sprintf("epoch %d/%d  iteration %d  timestep %d  %.1f it/s",
		st.Epoch, st.TotalEpochs, st.Iteration, st.Timestep, st.PerSecond)
	line := badge + "  " + styles.Text.Render(stats)
	if m.staleFrames > 1 {
		line += "  " + styles.StaleBadge.Render("(stale)")
	}

	var bar string
	if st.TotalEpochs > 0 {
		bar = m.progress.ViewAs(float64(st.Epoch) / float64(st.TotalEpochs))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, line, bar)
}

func (m Model) renderTopology() string {
	title := styles.PanelTitle.Render("network")

	if m.view.Snapshot == nil {
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			title, styles.Muted.Render("no snapshot published yet")))
	}

	snap := m.view.Snapshot

	// Draw nodes left to right using their fixed layout positions.
	nodes := make([]snapshot.Node, len(snap.Nodes))
	copy(nodes, snap.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Pos.X < nodes[j].Pos.X })

	lines := []string{title}
	for _, n := range nodes {
		name := lipgloss.NewStyle().Foreground(styles.NodeColor(n.Kind)).Render(
			fmt.Sprintf("%-8s", n.Name))
		lines = append(lines, fmt.Sprintf("%s %4d units  %s %.2f",
			name, n.Size, activityBar(n.Activity, 10), n.Activity))
	}

	if len(snap.Edges) > 0 {
		mean := 0.0
		for _, e := range snap.Edges {
			mean += e.Magnitude
		}
		mean /= float64(len(snap.Edges))
		lines = append(lines, styles.Muted.Render(
			fmt.Sprintf("%d connections, mean |w| %.3f", len(snap.Edges), mean)))
	}

	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderTraces() string {
	title := styles.PanelTitle.Render("traces")

	if len(m.view.Traces) == 0 {
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			title, styles.Muted.Render("no probes attached  [a] to attach")))
	}

	width := m.width - m.cfg.SidebarWidth
	if width < 10 {
		width = 10
	}

	selected, _ := m.selectedTrace()
	lines := []string{title}
	for i, tr := range m.view.Traces {
		marker := "  "
		nameStyle := styles.TraceName
		if i == selected {
			marker = styles.TraceSelected.Render("> ")
			nameStyle = styles.TraceSelected
		}

		last := 0.0
		if n := len(tr.Samples); n > 0 {
			last = tr.Samples[n-1].Value
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %.2f",
			marker,
			nameStyle.Render(fmt.Sprintf("%-12s", util.TruncateString(tr.Probe.DisplayName(), 12))),
			styles.Sparkline.Render(sparkline(tr.Samples, width)),
			last))
	}

	return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderAttachPrompt() string {
	return styles.Panel.Render(
		styles.PanelTitle.Render("attach probe") + "\n" + m.input.View())
}

func (m Model) renderHelp() string {
	keys := [][2]string{
		{"p", "pause/resume"},
		{"a", "attach probe"},
		{"d", "detach selected"},
		{"c", "clear all"},
		{"tab", "select probe"},
		{"?", "toggle help"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, styles.HelpKey.Render("["+k[0]+"]")+" "+k[1])
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}

func (m Model) renderStatusBar() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	switch {
	case m.errorMessage != "":
		return util.TruncateANSI(styles.StatusError.Render(m.errorMessage), width)
	case m.infoMessage != "":
		return util.TruncateANSI(styles.StatusInfo.Render(m.infoMessage), width)
	default:
		return styles.HelpBar.Render("[?] help  [q] quit")
	}
}

// activityBar renders a fixed-width bar for an activity fraction.
func activityBar(activity float64, width int) string {
	if activity < 0 {
		activity = 0
	}
	if activity > 1 {
		activity = 1
	}
	filled := int(activity*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// sparkline renders the most recent samples as bar glyphs, normalized to
// the window's own min and max.
func sparkline(samples []trace.Sample, width int) string {
	if len(samples) == 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	lo, hi := samples[0].Value, samples[0].Value
	for _, s := range samples[1:] {
		if s.Value < lo {
			lo = s.Value
		}
		if s.Value > hi {
			hi = s.Value
		}
	}

	var sb strings.Builder
	span := hi - lo
	for _, s := range samples {
		level := 0
		if span > 0 {
			level = int((s.Value - lo) / span * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[level])
	}
	return sb.String()
}
