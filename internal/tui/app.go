// Package tui is the terminal viewer: the consumer side of the
// observation boundary. It renders at its own frame rate from try-read
// copies and issues control commands; it never drives the simulation.
package tui

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Iron-Ham/spikeview/internal/config"
	"github.com/Iron-Ham/spikeview/internal/event"
	"github.com/Iron-Ham/spikeview/internal/observation"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
}

// New creates a new viewer application.
func New(state *observation.State, bus *event.Bus, cfg config.TUIConfig) *App {
	return &App{
		model: NewModel(state, cfg),
		bus:   bus,
	}
}

// Run starts the viewer and blocks until it quits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Signals quit the viewer; the command layer cancels the simulation's
	// context when Run returns, so ctrl+c never strands the producer.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Forward producer events into the program. Send is safe from the
	// producer goroutine and keeps the bus decoupled from frame timing.
	subID := a.bus.SubscribeAll(func(e event.Event) {
		if a.program != nil {
			a.program.Send(busEventMsg{event: e})
		}
	})

	_, err := a.program.Run()

	a.bus.Unsubscribe(subID)
	signal.Stop(sigChan)

	return err
}

// Messages

// frameMsg drives one render frame.
type frameMsg time.Time

// busEventMsg wraps a producer event forwarded from the event bus.
type busEventMsg struct {
	event event.Event
}

// Commands

func frame(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return frame(m.cfg.FrameInterval())
}

// issue writes a command into its pending slot. A contended issue is
// dropped; the user can press the key again on a later frame.
func (m *Model) issue(cmd observation.Command) bool {
	if !m.state.Issue(cmd) {
		m.errorMessage = "busy, try again"
		return false
	}
	return true
}
