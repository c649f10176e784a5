package audio

import (
	"fmt"

	"github.com/alkime/passthru/pkg/collections"
	"github.com/gen2brain/malgo"
)

// Info describes the currently open device.
type Info struct {
	TypeName           string
	Name               string
	SampleRate         float64
	BufferSize         int
	BitDepth           int
	InputChannelNames  []string
	OutputChannelNames []string
	ActiveInputs       ChannelMask
	ActiveOutputs      ChannelMask
}

// Snapshot is what device-change listeners receive. Device is nil when no
// device is open.
type Snapshot struct {
	TypeName string
	Device   *Info
}

// Descriptor is an enumerated playback or capture endpoint.
type Descriptor struct {
	Name        string
	IsDefault   bool
	MaxChannels int
	Formats     []string

	id malgo.DeviceID
}

func malgoDeviceInfoToDescriptor(mdi malgo.DeviceInfo) Descriptor {
	count := min(int(mdi.FormatCount), len(mdi.Formats))
	native := mdi.Formats[:count]

	formats := make([]string, len(native))
	maxChannels := 0
	for i, mf := range native {
		formats[i] = fmt.Sprintf("(SampleSizeBytes: %d, Channels: %d, SampleRate: %d)",
			malgo.SampleSizeInBytes(mf.Format),
			mf.Channels, mf.SampleRate)
		maxChannels = max(maxChannels, int(mf.Channels))
	}

	return Descriptor{
		Name:        mdi.Name(),
		IsDefault:   mdi.IsDefault != 0,
		MaxChannels: maxChannels,
		Formats:     formats,
		id:          mdi.ID,
	}
}

func malgoDeviceInfosToDescriptors(infos []malgo.DeviceInfo) []Descriptor {
	return collections.Apply(infos, malgoDeviceInfoToDescriptor)
}

// ChannelNames returns "<prefix> 1".."<prefix> n".
func ChannelNames(prefix string, n int) []string {
	names := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		names = append(names, fmt.Sprintf("%s %d", prefix, i))
	}

	return names
}

// BitDepth returns the sample width in bits for a malgo format.
func BitDepth(format malgo.FormatType) int {
	return malgo.SampleSizeInBytes(format) * 8
}

// findDescriptor looks a device up by name. An empty name returns the
// default endpoint if one is flagged, and ok=false otherwise so the caller
// can leave the malgo device ID unset.
func findDescriptor(descs []Descriptor, name string) (Descriptor, bool, error) {
	for _, d := range descs {
		if name == "" && d.IsDefault {
			return d, true, nil
		}
		if name != "" && d.Name == name {
			return d, true, nil
		}
	}

	if name == "" {
		return Descriptor{}, false, nil
	}

	return Descriptor{}, false, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
}
