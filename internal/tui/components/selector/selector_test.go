package selector_test

import (
	"testing"

	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/tui/components/selector"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type mockKnob struct {
	on      bool
	toggles int
}

func (k *mockKnob) Read() bool { return k.on }
func (k *mockKnob) On()        { k.on = true }
func (k *mockKnob) Off()       { k.on = false }
func (k *mockKnob) Toggle() {
	k.toggles++
	k.on = !k.on
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func testSetup() audio.Setup {
	return audio.Setup{
		SampleRate:     48000,
		BufferSize:     256,
		InputChannels:  audio.FirstN(2),
		OutputChannels: audio.FirstN(2),
	}
}

func testOptions() selector.Options {
	return selector.Options{
		Outputs:     []string{"Speakers", "Headphones"},
		Inputs:      []string{"Mic"},
		SampleRates: []int{44100, 48000},
		BufferSizes: []int{128, 256},
		MaxInputs:   2,
		MaxOutputs:  2,
	}
}

func press(m selector.Model, msgs ...tea.Msg) (selector.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}

	return m, cmd
}

func TestSelector_CyclesOutputDevice(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), &mockKnob{})

	m, _ = press(m, keyRight)
	assert.Equal(t, "Speakers", m.Setup().OutputDevice)

	m, _ = press(m, keyRight)
	assert.Equal(t, "Headphones", m.Setup().OutputDevice)

	m, _ = press(m, keyRight)
	assert.Empty(t, m.Setup().OutputDevice, "wraps back to the default endpoint")

	m, _ = press(m, keyLeft)
	assert.Equal(t, "Headphones", m.Setup().OutputDevice)
}

func TestSelector_NavigationWraps(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), &mockKnob{})

	// Up from the first row lands on active outputs.
	m, _ = press(m, keyUp, keyLeft)
	assert.Equal(t, audio.MaskOf(1), m.Setup().OutputChannels)
	assert.Equal(t, audio.FirstN(2), m.Setup().InputChannels)
}

func TestSelector_SampleRateAndBufferSize(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), &mockKnob{})

	m, _ = press(m, keyDown, keyDown, keyRight)
	assert.Equal(t, 44100, m.Setup().SampleRate)

	m, _ = press(m, keyDown, keyLeft)
	assert.Equal(t, 128, m.Setup().BufferSize)
}

func TestSelector_CurrentValueAlwaysOffered(t *testing.T) {
	t.Parallel()

	setup := testSetup()
	setup.SampleRate = 22050

	m := selector.New(testOptions(), setup, &mockKnob{})
	m, _ = press(m, keyDown, keyDown, keyRight)
	assert.Equal(t, 44100, m.Setup().SampleRate)

	m, _ = press(m, keyLeft)
	assert.Equal(t, 22050, m.Setup().SampleRate)
}

func TestSelector_InputMaskIncludesNone(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), &mockKnob{})

	// 0b11 -> 0b00 wraps through the empty mask.
	m, _ = press(m, keyDown, keyDown, keyDown, keyDown, keyRight)
	assert.Equal(t, audio.ChannelMask(0), m.Setup().InputChannels)
	assert.Contains(t, m.View(), "none")

	m, _ = press(m, keyRight)
	assert.Equal(t, audio.MaskOf(0), m.Setup().InputChannels)
}

func TestSelector_OutputMaskSkipsNone(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), &mockKnob{})

	m, _ = press(m, keyUp, keyRight)
	assert.Equal(t, audio.MaskOf(0), m.Setup().OutputChannels)
}

func TestSelector_EnterEmitsApply(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), &mockKnob{})

	m, _ = press(m, keyRight)
	_, cmd := press(m, keyEnter)
	require.NotNil(t, cmd)

	msg, ok := cmd().(selector.ApplyMsg)
	require.True(t, ok)
	assert.Equal(t, "Speakers", msg.Setup.OutputDevice)
	assert.Equal(t, 48000, msg.Setup.SampleRate)
}

func TestSelector_SpaceTogglesAudio(t *testing.T) {
	t.Parallel()

	knob := &mockKnob{on: true}
	m := selector.New(testOptions(), testSetup(), knob)
	assert.Contains(t, m.View(), "running")

	m, cmd := press(m, keySpace)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, knob.toggles)
	assert.Contains(t, m.View(), "stopped")
}

func TestSelector_View(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), nil)
	view := m.View()

	assert.Contains(t, view, "Audio Device Setup")
	assert.Contains(t, view, "> Output: "+selector.DefaultDeviceLabel)
	assert.Contains(t, view, "48000 Hz")
	assert.Contains(t, view, "256 samples")
	assert.Contains(t, view, "1 + 2")
	assert.Contains(t, view, "stopped")
}

func TestSelector_SetSetup(t *testing.T) {
	t.Parallel()

	m := selector.New(testOptions(), testSetup(), nil)

	s := testSetup()
	s.InputChannels = 0
	m.SetSetup(s)
	assert.Equal(t, audio.ChannelMask(0), m.Setup().InputChannels)
}
