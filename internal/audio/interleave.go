package audio

import (
	"encoding/binary"
	"math"
)

// bytesPerSample is the width of a malgo FormatF32 sample.
const bytesPerSample = 4

// Deinterleave splits interleaved little-endian f32 frames from data into
// planes, writing frames [0, frames) of each plane. Missing data is zeroed.
func Deinterleave(data []byte, planes [][]float32, frames int) {
	channels := len(planes)
	if channels == 0 {
		return
	}

	for f := 0; f < frames; f++ {
		for c, plane := range planes {
			if f >= len(plane) {
				continue
			}

			off := (f*channels + c) * bytesPerSample
			if off+bytesPerSample > len(data) {
				plane[f] = 0
				continue
			}

			plane[f] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
}

// Interleave writes frames [0, frames) of planes into data as interleaved
// little-endian f32. Frames that do not fit in data are dropped.
func Interleave(planes [][]float32, data []byte, frames int) {
	channels := len(planes)
	if channels == 0 {
		return
	}

	for f := 0; f < frames; f++ {
		for c, plane := range planes {
			off := (f*channels + c) * bytesPerSample
			if off+bytesPerSample > len(data) {
				return
			}

			var v float32
			if f < len(plane) {
				v = plane[f]
			}

			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
		}
	}
}
