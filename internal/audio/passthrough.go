package audio

import (
	"math/rand/v2"
	"time"
)

// Attenuation is the fixed gain applied on top of the random multiplier.
const Attenuation float32 = 0.25

// Block describes one buffer request from the audio device.
// Input and Output are per-channel sample planes; only the range
// [StartSample, StartSample+NumSamples) of each plane is touched.
type Block struct {
	Input         [][]float32
	Output        [][]float32
	StartSample   int
	NumSamples    int
	ActiveInputs  ChannelMask
	ActiveOutputs ChannelMask
}

// BlockProcessor produces the next block of output audio.
// Implementations run on the real-time audio thread: they must not block,
// allocate or log.
type BlockProcessor interface {
	ProcessBlock(b *Block)
}

// RandomSource yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float32() float32
}

// Passthrough copies input to output, scaling every sample by a fresh
// random value and Attenuation.
type Passthrough struct {
	rnd RandomSource
}

// NewPassthrough creates a processor drawing from rnd.
// A nil rnd gets a PCG source seeded from the clock.
func NewPassthrough(rnd RandomSource) *Passthrough {
	if rnd == nil {
		rnd = NewRandomSource(0)
	}

	return &Passthrough{rnd: rnd}
}

// NewRandomSource returns a PCG-backed source. A zero seed picks one from
// the clock. The result is not safe for concurrent use; it belongs to the
// audio thread.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // not security sensitive
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // noise, not crypto
}

// ProcessBlock implements BlockProcessor.
func (p *Passthrough) ProcessBlock(b *Block) {
	numInputs := b.ActiveInputs.Count()

	for c := range b.Output {
		out := samplesIn(b.Output[c], b.StartSample, b.NumSamples)
		if out == nil {
			continue
		}

		if !b.ActiveOutputs.Has(c) || numInputs == 0 {
			clear(out)
			continue
		}

		mapped := c % numInputs
		if !b.ActiveInputs.Has(mapped) || mapped >= len(b.Input) {
			clear(out)
			continue
		}

		in := samplesIn(b.Input[mapped], b.StartSample, b.NumSamples)
		if len(in) < len(out) {
			clear(out)
			continue
		}

		for s := range out {
			out[s] = in[s] * p.rnd.Float32() * Attenuation
		}
	}
}

// samplesIn returns plane[start:start+n] clipped to the plane's length.
func samplesIn(plane []float32, start, n int) []float32 {
	if start < 0 || n <= 0 || start >= len(plane) {
		return nil
	}

	end := min(start+n, len(plane))

	return plane[start:end]
}
