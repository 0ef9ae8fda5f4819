// Package styles centralizes the viewer's lipgloss styling.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Node kind colors
	InputNodeColor  = lipgloss.Color("#60A5FA") // Blue
	HiddenNodeColor = lipgloss.Color("#A78BFA") // Purple
	OutputNodeColor = lipgloss.Color("#F472B6") // Pink

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		PaddingBottom(1)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	PanelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// Paused / running badges
	PausedBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(WarningColor).
			Padding(0, 1)

	RunningBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(SecondaryColor).
			Padding(0, 1)

	StaleBadge = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Trace list
	TraceSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	TraceName = lipgloss.NewStyle().
			Foreground(TextColor)

	Sparkline = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	// Help / status bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	StatusInfo = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	StatusError = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// NodeColor returns the color for a node kind.
func NodeColor(kind string) lipgloss.Color {
	switch kind {
	case "input":
		return InputNodeColor
	case "output":
		return OutputNodeColor
	default:
		return HiddenNodeColor
	}
}
