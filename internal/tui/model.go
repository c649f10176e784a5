// Package tui implements the passthrough terminal UI.
package tui

import (
	"log/slog"
	"strings"

	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/diag"
	"github.com/alkime/passthru/internal/tui/components/cpumeter"
	"github.com/alkime/passthru/internal/tui/components/diaglog"
	"github.com/alkime/passthru/internal/tui/components/selector"
	"github.com/alkime/passthru/internal/tui/layout"
	"github.com/alkime/passthru/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// DeviceChangedMsg carries a snapshot from the device change channel.
type DeviceChangedMsg struct {
	Snapshot audio.Snapshot
}

// changesClosedMsg is sent once the change channel closes.
type changesClosedMsg struct{}

// AppliedMsg reports the outcome of an ApplyMsg.
type AppliedMsg struct {
	Setup audio.Setup
	Err   error
}

type model struct {
	config   Config
	controls Controls
	keys     KeyMap

	selector selector.Model
	log      diaglog.Model
	cpu      cpumeter.Model

	layout layout.Layout
}

// New creates the root TUI model. log receives the diagnostics dump and may
// already hold lines.
func New(config Config, controls Controls, log *diag.Log) tea.Model {
	m := &model{
		config:   config,
		controls: controls,
		keys:     DefaultKeyMap(),
		selector: selector.New(config.Options, config.Setup, controls.Audio),
		log:      diaglog.New(log, 0, 0),
		cpu:      cpumeter.New(controls.CPU, config.PollInterval),
	}
	m.resize(defaultWidth, defaultHeight)

	return m
}

// Init starts the CPU poller and the change listener.
func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.cpu.Init(),
		m.selector.Init(),
		m.log.Init(),
		m.waitForChange(),
	)
}

// Update handles all messages.
func (m *model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) || key.Matches(msg, m.keys.Quit) {
			if m.config.Cancel != nil {
				m.config.Cancel()
			}

			return m, tea.Quit
		}

		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.selector, cmd = m.selector.Update(msg)
		cmds = append(cmds, cmd)
		m.log, cmd = m.log.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)

	case cpumeter.TickMsg:
		var cmd tea.Cmd
		m.cpu, cmd = m.cpu.Update(msg)

		return m, cmd

	case DeviceChangedMsg:
		m.log.Append(diag.DeviceLines(msg.Snapshot)...)
		if dev := msg.Snapshot.Device; dev != nil {
			setup := m.selector.Setup()
			setup.InputChannels = dev.ActiveInputs
			setup.OutputChannels = dev.ActiveOutputs
			m.selector.SetSetup(setup)
		}

		return m, m.waitForChange()

	case changesClosedMsg:
		return m, nil

	case selector.ApplyMsg:
		return m, m.apply(msg.Setup)

	case AppliedMsg:
		if msg.Err != nil {
			slog.Error("failed to apply audio setup", "error", msg.Err)
			m.log.Append("Error: " + msg.Err.Error())
		}

		return m, nil
	}

	return m, nil
}

// View paints the window black, the diagnostics column grey, then draws
// each component in its region.
func (m *model) View() string {
	l := m.layout
	if l.Window.W == 0 || l.Window.H == 0 {
		return ""
	}

	left := style.Window.
		Width(l.Selector.W).Height(l.Selector.H).
		MaxWidth(l.Selector.W).MaxHeight(l.Selector.H).
		Render(m.selector.View())

	var inner strings.Builder
	inner.WriteString(m.cpu.View())
	inner.WriteString(strings.Repeat("\n", max(l.Log.Y-l.CPULabel.Bottom(), 0)+1))
	inner.WriteString(m.log.View())

	right := style.Diagnostics.
		Width(l.Diagnostics.W).Height(l.Diagnostics.H).
		MaxWidth(l.Diagnostics.W).MaxHeight(l.Diagnostics.H).
		PaddingLeft(max(l.CPULabel.X-l.Diagnostics.X, 0)).
		PaddingTop(max(l.CPULabel.Y-l.Diagnostics.Y, 0)).
		Render(inner.String())

	return style.Window.
		Width(l.Window.W).Height(l.Window.H).
		MaxWidth(l.Window.W).MaxHeight(l.Window.H).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}

func (m *model) resize(width, height int) {
	m.layout = layout.Partition(width, height, layout.CellMetrics)

	m.selector.SetSize(m.layout.Selector.W, m.layout.Selector.H)
	m.cpu.SetWidths(m.layout.CPULabel.W, m.layout.CPUText.W)
	m.log.SetSize(m.layout.Log.W, m.layout.Log.H)
}

// waitForChange blocks on the change channel. It is re-armed after every
// DeviceChangedMsg.
func (m *model) waitForChange() tea.Cmd {
	changes := m.controls.Changes
	if changes == nil {
		return nil
	}

	return func() tea.Msg {
		snap, ok := <-changes
		if !ok {
			return changesClosedMsg{}
		}

		return DeviceChangedMsg{Snapshot: snap}
	}
}

func (m *model) apply(setup audio.Setup) tea.Cmd {
	apply := m.controls.Apply
	if apply == nil {
		return nil
	}

	return func() tea.Msg {
		return AppliedMsg{Setup: setup, Err: apply(setup)}
	}
}
