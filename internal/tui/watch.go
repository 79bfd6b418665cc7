package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/winvelocity/internal/config"
	"github.com/1broseidon/winvelocity/internal/ipc"
)

const defaultPollInterval = 250 * time.Millisecond

// StatusSource is the slice of the IPC client the watch view needs.
type StatusSource interface {
	GetStatus() (*ipc.StatusData, error)
	Toggle() (*ipc.StatusData, error)
}

type keyMap struct {
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "t"),
		key.WithHelp("space/t", "toggle physics"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type pollMsg struct{}

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type toggledMsg struct {
	err error
}

// model is the bubbletea model behind `winvelocity watch`.
type model struct {
	source   StatusSource
	colors   config.ColorsConfig
	interval time.Duration
	help     help.Model

	status    *ipc.StatusData
	connected bool
	lastError string
	toggles   int

	width  int
	height int
}

func newModel(source StatusSource, colors config.ColorsConfig, interval time.Duration) model {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return model{
		source:   source,
		colors:   colors,
		interval: interval,
		help:     help.New(),
	}
}

// Run starts the watch view. It needs stdin and stdout to be terminals.
func Run(source StatusSource, colors config.ColorsConfig, interval time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	_, err := tea.NewProgram(newModel(source, colors, interval), tea.WithAltScreen()).Run()
	return err
}

func (m model) fetch() tea.Cmd {
	return func() tea.Msg {
		status, err := m.source.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

func (m model) toggle() tea.Cmd {
	return func() tea.Msg {
		_, err := m.source.Toggle()
		return toggledMsg{err: err}
	}
}

func (m model) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.fetch()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			if !m.connected {
				return m, nil
			}
			return m, m.toggle()
		case key.Matches(msg, keys.Refresh):
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case pollMsg:
		return m, m.fetch()

	case statusMsg:
		if msg.err != nil {
			m.connected = false
			m.lastError = msg.err.Error()
		} else {
			m.connected = true
			m.lastError = ""
			m.status = msg.status
		}
		return m, m.schedule()

	case toggledMsg:
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.toggles++
		return m, m.fetch()
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width == 0 {
		width = 60
	}

	sections := []string{renderStatusBar(m.connected, m.modeName(), width)}
	if m.connected && m.status != nil {
		sections = append(sections, m.renderBody(width))
	} else {
		sections = append(sections, bodyStyle.Render("waiting for winvelocity..."))
	}
	if m.lastError != "" {
		sections = append(sections, errorStyle.Render(m.lastError))
	}
	sections = append(sections, helpBarStyle.Render(m.help.View(keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) modeName() string {
	if m.status == nil {
		return ""
	}
	return m.status.Snapshot.Mode
}

func (m model) renderBody(width int) string {
	snap := m.status.Snapshot

	swatch := renderSwatch(m.backgroundFor(snap.Mode), strings.ToUpper(snap.Mode))

	lines := []string{
		row("body", fmt.Sprintf("%s  (%.3f, %.3f) m", bodyKind(snap.Dynamic), snap.Position.X, snap.Position.Y)),
		row("velocity", fmt.Sprintf("(%.3f, %.3f) m/s", snap.Velocity.X, snap.Velocity.Y)),
		row("window", fmt.Sprintf("(%.0f, %.0f) px", snap.WindowPosition.X, snap.WindowPosition.Y)),
	}
	if snap.Origin != nil {
		lines = append(lines, row("drag origin", fmt.Sprintf("(%.0f, %.0f) px", snap.Origin.X, snap.Origin.Y)))
	}
	lines = append(lines,
		row("decorations", fmt.Sprintf("%d", snap.Decorations)),
		row("ticks", fmt.Sprintf("%d", snap.Ticks)),
		row("uptime", (time.Duration(m.status.UptimeSeconds)*time.Second).String()),
	)

	return bodyStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		swatch,
		"",
		strings.Join(lines, "\n"),
	))
}

func (m model) backgroundFor(mode string) string {
	switch mode {
	case "dragging":
		return m.colors.Dragging
	case "bouncing":
		return m.colors.Bouncing
	default:
		return m.colors.Static
	}
}

func bodyKind(dynamic bool) string {
	if dynamic {
		return "dynamic"
	}
	return "kinematic"
}
