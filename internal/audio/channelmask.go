package audio

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxChannels is the highest channel count a ChannelMask can describe.
const MaxChannels = 64

// ChannelMask is the set of channel indices enabled on a device.
type ChannelMask uint64

// MaskOf builds a mask with the given channel indices set.
// Indices outside [0, MaxChannels) are ignored.
func MaskOf(indices ...int) ChannelMask {
	var m ChannelMask
	for _, i := range indices {
		m = m.With(i)
	}

	return m
}

// FirstN returns a mask with channels 0..n-1 set.
func FirstN(n int) ChannelMask {
	switch {
	case n <= 0:
		return 0
	case n >= MaxChannels:
		return ^ChannelMask(0)
	default:
		return ChannelMask(1)<<uint(n) - 1
	}
}

// Has reports whether channel i is set.
func (m ChannelMask) Has(i int) bool {
	if i < 0 || i >= MaxChannels {
		return false
	}

	return m&(1<<uint(i)) != 0
}

// With returns a copy of m with channel i set.
func (m ChannelMask) With(i int) ChannelMask {
	if i < 0 || i >= MaxChannels {
		return m
	}

	return m | 1<<uint(i)
}

// Count returns the number of set channels.
func (m ChannelMask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// HighestBit returns the highest set channel index, or -1 for an empty mask.
func (m ChannelMask) HighestBit() int {
	return bits.Len64(uint64(m)) - 1
}

// Bits returns the set channel indices in ascending order.
func (m ChannelMask) Bits() []int {
	out := make([]int, 0, m.Count())
	for i := 0; i <= m.HighestBit(); i++ {
		if m.Has(i) {
			out = append(out, i)
		}
	}

	return out
}

// String renders the set indices comma-space joined, e.g. "0, 1".
func (m ChannelMask) String() string {
	idx := m.Bits()
	parts := make([]string, len(idx))
	for i, b := range idx {
		parts[i] = strconv.Itoa(b)
	}

	return strings.Join(parts, ", ")
}
