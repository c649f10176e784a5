package audio

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gen2brain/malgo"
)

// DefaultTypeName is reported as the device type when no backend is forced
// and miniaudio picks one from its default order.
const DefaultTypeName = "miniaudio"

var (
	// ErrNoDevice is returned by operations that need an open device.
	ErrNoDevice = errors.New("no audio device open")
	// ErrDeviceNotFound is returned when a Setup names an unknown device.
	ErrDeviceNotFound = errors.New("audio device not found")
	// ErrUnknownBackend is returned for unrecognised backend names.
	ErrUnknownBackend = errors.New("unknown audio backend")
)

// DeviceConfig holds session-wide settings that do not change when the
// device is reopened.
type DeviceConfig struct {
	// Backend forces a miniaudio backend ("alsa", "pulseaudio", ...).
	// Empty lets miniaudio choose.
	Backend string
}

// Setup is the user-selectable device configuration.
type Setup struct {
	OutputDevice   string // empty selects the system default
	InputDevice    string // empty selects the system default
	SampleRate     int
	BufferSize     int
	InputChannels  ChannelMask
	OutputChannels ChannelMask
}

// captureChannelCount is the number of capture channels to open so that
// every active input index is addressable.
func (s Setup) captureChannelCount() int {
	return s.InputChannels.HighestBit() + 1
}

// playbackChannelCount is the number of playback channels to open.
func (s Setup) playbackChannelCount() int {
	return s.OutputChannels.HighestBit() + 1
}

var backendNames = map[string]malgo.Backend{
	"wasapi":     malgo.BackendWasapi,
	"dsound":     malgo.BackendDsound,
	"winmm":      malgo.BackendWinmm,
	"coreaudio":  malgo.BackendCoreaudio,
	"sndio":      malgo.BackendSndio,
	"audio4":     malgo.BackendAudio4,
	"oss":        malgo.BackendOss,
	"pulseaudio": malgo.BackendPulseaudio,
	"alsa":       malgo.BackendAlsa,
	"jack":       malgo.BackendJack,
	"aaudio":     malgo.BackendAaudio,
	"opensl":     malgo.BackendOpensl,
	"webaudio":   malgo.BackendWebaudio,
	"null":       malgo.BackendNull,
}

// BackendNames lists the names ParseBackend accepts.
func BackendNames() []string {
	return slices.Sorted(maps.Keys(backendNames))
}

// ParseBackend maps a backend name to the malgo backend list passed to
// InitContext. An empty name yields nil (miniaudio default order).
func ParseBackend(name string) ([]malgo.Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}

	b, ok := backendNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}

	return []malgo.Backend{b}, nil
}

// TypeName returns the device type label for the configured backend.
func (c DeviceConfig) TypeName() string {
	name := strings.ToLower(strings.TrimSpace(c.Backend))
	if name == "" {
		return DefaultTypeName
	}

	return name
}
