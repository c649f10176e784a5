package audio_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/alkime/passthru/internal/audio"
	"github.com/stretchr/testify/assert"
)

func f32Bytes(vals ...float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}

	return out
}

func TestDeinterleave(t *testing.T) {
	t.Parallel()

	data := f32Bytes(0.1, -0.1, 0.2, -0.2, 0.3, -0.3)
	dst := [][]float32{make([]float32, 3), make([]float32, 3)}

	audio.Deinterleave(data, dst, 3)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, dst[0])
	assert.Equal(t, []float32{-0.1, -0.2, -0.3}, dst[1])
}

func TestDeinterleave_ShortDataIsZeroed(t *testing.T) {
	t.Parallel()

	dst := [][]float32{{9, 9, 9}}
	audio.Deinterleave(f32Bytes(0.5), dst, 3)

	assert.Equal(t, []float32{0.5, 0, 0}, dst[0])
}

func TestInterleave_RoundTrip(t *testing.T) {
	t.Parallel()

	src := [][]float32{{1, 2}, {3, 4}, {5, 6}}
	data := make([]byte, 4*6)

	audio.Interleave(src, data, 2)
	assert.Equal(t, f32Bytes(1, 3, 5, 2, 4, 6), data)

	back := [][]float32{make([]float32, 2), make([]float32, 2), make([]float32, 2)}
	audio.Deinterleave(data, back, 2)
	assert.Equal(t, src, back)
}

func TestInterleave_StopsAtBufferEnd(t *testing.T) {
	t.Parallel()

	data := make([]byte, 4*3)
	audio.Interleave([][]float32{{1, 2}, {3, 4}}, data, 2)

	assert.Equal(t, f32Bytes(1, 3, 2), data)
}
