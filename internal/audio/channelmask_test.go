package audio_test

import (
	"testing"

	"github.com/alkime/passthru/internal/audio"
	"github.com/stretchr/testify/assert"
)

func TestChannelMask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mask    audio.ChannelMask
		count   int
		highest int
		bits    []int
		str     string
	}{
		{name: "empty", mask: 0, count: 0, highest: -1, bits: []int{}, str: ""},
		{name: "first only", mask: audio.MaskOf(0), count: 1, highest: 0, bits: []int{0}, str: "0"},
		{name: "stereo", mask: audio.FirstN(2), count: 2, highest: 1, bits: []int{0, 1}, str: "0, 1"},
		{name: "sparse", mask: audio.MaskOf(5, 1, 3), count: 3, highest: 5, bits: []int{1, 3, 5}, str: "1, 3, 5"},
		{name: "top channel", mask: audio.MaskOf(63), count: 1, highest: 63, bits: []int{63}, str: "63"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.count, tt.mask.Count())
			assert.Equal(t, tt.highest, tt.mask.HighestBit())
			assert.Equal(t, tt.bits, tt.mask.Bits())
			assert.Equal(t, tt.str, tt.mask.String())
		})
	}
}

func TestChannelMask_Bounds(t *testing.T) {
	t.Parallel()

	m := audio.MaskOf(-1, 64, 2)
	assert.Equal(t, audio.MaskOf(2), m)
	assert.False(t, m.Has(-1))
	assert.False(t, m.Has(64))

	assert.Equal(t, audio.ChannelMask(0), audio.FirstN(-3))
	assert.Equal(t, 64, audio.FirstN(100).Count())

	m = m.With(0).With(64)
	assert.Equal(t, []int{0, 2}, m.Bits())
}
