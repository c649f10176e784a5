// Package diag renders device diagnostics as plain text lines.
package diag

import (
	"strconv"
	"strings"

	"github.com/alkime/passthru/internal/audio"
)

// Separator opens every device dump.
const Separator = "--------------------------------------"

// NoTypeName stands in for the device type when none is known.
const NoTypeName = "<none>"

// DeviceLines describes snap in a fixed order, one field per line.
func DeviceLines(snap audio.Snapshot) []string {
	typeName := snap.TypeName
	if typeName == "" {
		typeName = NoTypeName
	}

	lines := []string{
		Separator,
		"Current audio device type: " + typeName,
	}

	dev := snap.Device
	if dev == nil {
		return append(lines, "No audio device open")
	}

	return append(lines,
		`Current audio device: "`+dev.Name+`"`,
		"Sample Rate: "+strconv.FormatFloat(dev.SampleRate, 'f', -1, 64)+" Hz",
		"Block size: "+strconv.Itoa(dev.BufferSize)+" samples",
		"Bit depth: "+strconv.Itoa(dev.BitDepth),
		"Input channel names: "+strings.Join(dev.InputChannelNames, ", "),
		"Active input channels: "+ActiveBits(dev.ActiveInputs),
		"Output channel names: "+strings.Join(dev.OutputChannelNames, ", "),
		"Active output channels: "+ActiveBits(dev.ActiveOutputs),
	)
}

// ActiveBits lists the set channels ascending, comma-space joined.
// An empty mask yields "".
func ActiveBits(mask audio.ChannelMask) string {
	return mask.String()
}

// FormatCPU renders a load fraction as a percentage with six decimals,
// e.g. 0.123456789 -> "12.345679 %".
func FormatCPU(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 6, 64) + " %"
}
