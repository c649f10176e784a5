// Package diaglog provides a read-only scrolling view over a diagnostics log.
package diaglog

import (
	"github.com/alkime/passthru/internal/diag"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines the scroll bindings.
type KeyMap struct {
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default scroll bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll log up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll log down"),
		),
	}
}

// Model renders a diag.Log. The log only grows; each append scrolls the
// view to the newest line.
type Model struct {
	keys     KeyMap
	log      *diag.Log
	viewport viewport.Model
}

// New creates a view over log with the given size.
func New(log *diag.Log, width, height int) Model {
	if log == nil {
		log = &diag.Log{}
	}

	vp := viewport.New(max(width, 0), max(height, 0))
	vp.KeyMap = viewport.KeyMap{
		PageUp:   DefaultKeyMap().PageUp,
		PageDown: DefaultKeyMap().PageDown,
	}

	m := Model{
		keys:     DefaultKeyMap(),
		log:      log,
		viewport: vp,
	}
	m.refresh()

	return m
}

// Append adds lines to the log and scrolls to the bottom.
func (m *Model) Append(lines ...string) {
	m.log.Append(lines...)
	m.refresh()
	m.viewport.GotoBottom()
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.viewport.Width = max(width, 0)
	m.viewport.Height = max(height, 0)
	m.refresh()
}

// Log returns the backing log.
func (m Model) Log() *diag.Log {
	return m.log
}

// AtBottom reports whether the newest line is visible.
func (m Model) AtBottom() bool {
	return m.viewport.AtBottom()
}

// Init implements tea.Model-style components.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles scroll keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View renders the visible part of the log.
func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) refresh() {
	text := m.log.String()
	if m.viewport.Width > 0 {
		text = lipgloss.NewStyle().Width(m.viewport.Width).Render(text)
	}

	m.viewport.SetContent(text)
}
