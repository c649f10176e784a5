// Package selector provides the audio device setup panel.
package selector

import (
	"slices"
	"strconv"
	"strings"

	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/tui/style"
	"github.com/alkime/passthru/pkg/uictl"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultDeviceLabel is shown for the system default endpoint.
const DefaultDeviceLabel = "<default>"

// Common choices offered when none are configured.
var (
	DefaultSampleRates = []int{44100, 48000, 88200, 96000}
	DefaultBufferSizes = []int{64, 128, 256, 512, 1024, 2048}
)

// ApplyMsg asks the owner to reopen the device with Setup.
type ApplyMsg struct {
	Setup audio.Setup
}

// Options lists what the panel lets the user pick from.
type Options struct {
	Outputs     []string
	Inputs      []string
	SampleRates []int
	BufferSizes []int
	MaxInputs   int
	MaxOutputs  int
}

type row int

const (
	rowOutput row = iota
	rowInput
	rowSampleRate
	rowBufferSize
	rowActiveInputs
	rowActiveOutputs
	rowCount
)

var rowLabels = [rowCount]string{
	rowOutput:        "Output",
	rowInput:         "Input",
	rowSampleRate:    "Sample rate",
	rowBufferSize:    "Buffer size",
	rowActiveInputs:  "Active inputs",
	rowActiveOutputs: "Active outputs",
}

// Model is the device setup panel. Edits stay local until Apply.
type Model struct {
	keys   KeyMap
	help   help.Model
	opts   Options
	setup  audio.Setup
	focus  row
	audio  uictl.Knob
	width  int
	height int
}

// New creates a panel showing setup. running reports and toggles whether
// audio is flowing.
func New(opts Options, setup audio.Setup, running uictl.Knob) Model {
	opts.Outputs = withDefault(opts.Outputs)
	opts.Inputs = withDefault(opts.Inputs)

	if len(opts.SampleRates) == 0 {
		opts.SampleRates = DefaultSampleRates
	}
	if len(opts.BufferSizes) == 0 {
		opts.BufferSizes = DefaultBufferSizes
	}

	opts.SampleRates = withValue(opts.SampleRates, setup.SampleRate)
	opts.BufferSizes = withValue(opts.BufferSizes, setup.BufferSize)
	opts.MaxInputs = clampChannels(max(opts.MaxInputs, setup.InputChannels.HighestBit()+1))
	opts.MaxOutputs = clampChannels(max(opts.MaxOutputs, setup.OutputChannels.HighestBit()+1, 1))

	return Model{
		keys:  DefaultKeyMap(),
		help:  help.New(),
		opts:  opts,
		setup: setup,
		audio: running,
	}
}

// Setup returns the setup currently shown, including unapplied edits.
func (m Model) Setup() audio.Setup {
	return m.setup
}

// SetSetup replaces the shown setup, e.g. after the device fell back to
// fewer channels.
func (m *Model) SetSetup(setup audio.Setup) {
	m.setup = setup
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.help.Width = m.width
}

// Init implements tea.Model-style components.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles navigation, value changes, apply and audio toggle keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Up):
		m.focus = (m.focus + rowCount - 1) % rowCount
	case key.Matches(km, m.keys.Down):
		m.focus = (m.focus + 1) % rowCount
	case key.Matches(km, m.keys.Prev):
		m.step(-1)
	case key.Matches(km, m.keys.Next):
		m.step(1)
	case key.Matches(km, m.keys.Apply):
		setup := m.setup
		return m, func() tea.Msg { return ApplyMsg{Setup: setup} }
	case key.Matches(km, m.keys.Toggle):
		if m.audio != nil {
			m.audio.Toggle()
		}
	}

	return m, nil
}

// View renders the panel.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Audio Device Setup"))
	sb.WriteString("\n\n")

	for r := range rowCount {
		cursor := "  "
		label := style.Label.Render(rowLabels[r] + ":")
		if r == m.focus {
			cursor = style.Selected.Render("> ")
			label = style.Selected.Render(rowLabels[r] + ":")
		}

		sb.WriteString(cursor)
		sb.WriteString(label)
		sb.WriteString(" ")
		sb.WriteString(m.valueText(r))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.statusText())
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))

	out := sb.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(out)
	}
	if m.height > 0 {
		out = lipgloss.NewStyle().Height(m.height).MaxHeight(m.height).Render(out)
	}

	return out
}

func (m Model) statusText() string {
	if m.audio != nil && m.audio.Read() {
		return style.Label.Render("Audio: ") + style.Success.Render("running")
	}

	return style.Label.Render("Audio: ") + style.Warning.Render("stopped")
}

func (m Model) valueText(r row) string {
	switch r {
	case rowOutput:
		return deviceLabel(m.setup.OutputDevice)
	case rowInput:
		return deviceLabel(m.setup.InputDevice)
	case rowSampleRate:
		return strconv.Itoa(m.setup.SampleRate) + " Hz"
	case rowBufferSize:
		return strconv.Itoa(m.setup.BufferSize) + " samples"
	case rowActiveInputs:
		return maskLabel(m.setup.InputChannels)
	case rowActiveOutputs:
		return maskLabel(m.setup.OutputChannels)
	default:
		return ""
	}
}

func (m *Model) step(dir int) {
	switch m.focus {
	case rowOutput:
		m.setup.OutputDevice = cycle(m.opts.Outputs, fromLabel(m.setup.OutputDevice), dir)
	case rowInput:
		m.setup.InputDevice = cycle(m.opts.Inputs, fromLabel(m.setup.InputDevice), dir)
	case rowSampleRate:
		m.setup.SampleRate = cycle(m.opts.SampleRates, m.setup.SampleRate, dir)
	case rowBufferSize:
		m.setup.BufferSize = cycle(m.opts.BufferSizes, m.setup.BufferSize, dir)
	case rowActiveInputs:
		m.setup.InputChannels = stepMask(m.setup.InputChannels, m.opts.MaxInputs, dir, true)
	case rowActiveOutputs:
		m.setup.OutputChannels = stepMask(m.setup.OutputChannels, m.opts.MaxOutputs, dir, false)
	case rowCount:
	}
}

// cycle moves dir steps from current within opts, wrapping around.
// An unknown current starts from the first option.
func cycle[T comparable](opts []T, current T, dir int) T {
	if len(opts) == 0 {
		return current
	}

	i := slices.Index(opts, current)
	if i < 0 {
		return opts[0]
	}

	return opts[((i+dir)%len(opts)+len(opts))%len(opts)]
}

// stepMask walks every mask over maxChannels channels in numeric order.
// The empty mask is skipped unless allowEmpty.
func stepMask(mask audio.ChannelMask, maxChannels, dir int, allowEmpty bool) audio.ChannelMask {
	total := 1 << uint(maxChannels)
	if total <= 1 {
		return 0
	}

	v := int(mask) % total
	for {
		v = ((v+dir)%total + total) % total
		if v != 0 || allowEmpty {
			return audio.ChannelMask(v)
		}
	}
}

func maskLabel(mask audio.ChannelMask) string {
	if mask == 0 {
		return style.Muted.Render("none")
	}

	idx := mask.Bits()
	parts := make([]string, len(idx))
	for i, b := range idx {
		parts[i] = strconv.Itoa(b + 1)
	}

	return strings.Join(parts, " + ")
}

func deviceLabel(name string) string {
	if name == "" {
		return DefaultDeviceLabel
	}

	return name
}

func fromLabel(name string) string {
	if name == DefaultDeviceLabel {
		return ""
	}

	return name
}

// withDefault puts the default endpoint ("") first.
func withDefault(names []string) []string {
	out := []string{""}
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}

	return out
}

// withValue ensures v is one of opts, keeping them sorted.
func withValue(opts []int, v int) []int {
	out := slices.Clone(opts)
	if v > 0 && !slices.Contains(out, v) {
		out = append(out, v)
		slices.Sort(out)
	}

	return out
}

func clampChannels(n int) int {
	return max(0, min(n, 8))
}
