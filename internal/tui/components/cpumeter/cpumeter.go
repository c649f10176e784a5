// Package cpumeter provides a TUI component showing audio CPU usage.
package cpumeter

import (
	"time"

	"github.com/alkime/passthru/internal/diag"
	"github.com/alkime/passthru/internal/tui/style"
	"github.com/alkime/passthru/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultInterval is how often the load is sampled.
const DefaultInterval = 50 * time.Millisecond

// Label is the static text left of the value.
const Label = "CPU Usage"

// TickMsg triggers a fresh read of the load dial.
type TickMsg struct{}

// Model shows a fixed label and the latest load reading, replaced on every
// tick. No history is kept.
type Model struct {
	load       uictl.Dial[float64]
	interval   time.Duration
	text       string
	labelWidth int
	textWidth  int
}

// New creates a meter polling load every interval. A non-positive interval
// uses DefaultInterval.
func New(load uictl.Dial[float64], interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return Model{
		load:     load,
		interval: interval,
		text:     diag.FormatCPU(0),
	}
}

// SetWidths sizes the label and value cells.
func (m *Model) SetWidths(label, text int) {
	m.labelWidth = max(label, 0)
	m.textWidth = max(text, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update refreshes the text on each tick and schedules the next one.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		if m.load != nil {
			m.text = diag.FormatCPU(m.load.Read())
		}

		return m, m.tick()
	}

	return m, nil
}

// Text returns the current value string.
func (m Model) Text() string {
	return m.text
}

// View renders the label left-aligned and the value right-aligned.
func (m Model) View() string {
	label := style.Label.Render(Label)
	value := style.Subtitle.Render(m.text)

	if m.labelWidth > 0 {
		label = lipgloss.NewStyle().Width(m.labelWidth).MaxWidth(m.labelWidth).Render(label)
	}
	if m.textWidth > 0 {
		value = lipgloss.NewStyle().Width(m.textWidth).MaxWidth(m.textWidth).Align(lipgloss.Right).Render(value)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, label, value)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}
