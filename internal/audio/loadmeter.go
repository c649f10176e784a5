package audio

import (
	"math"
	"sync/atomic"
	"time"
)

// loadSmoothing is the weight given to each new measurement.
const loadSmoothing = 0.1

// LoadMeter tracks how much of each buffer period the audio callback spends
// working. Record runs on the audio thread, Load on any other goroutine.
type LoadMeter struct {
	bits atomic.Uint64
}

// Record folds one callback measurement into the running load.
func (l *LoadMeter) Record(elapsed time.Duration, frames int, sampleRate int) {
	if frames <= 0 || sampleRate <= 0 {
		return
	}

	period := float64(frames) / float64(sampleRate)
	sample := elapsed.Seconds() / period

	for {
		oldBits := l.bits.Load()
		prev := math.Float64frombits(oldBits)
		next := prev + loadSmoothing*(sample-prev)

		if l.bits.CompareAndSwap(oldBits, math.Float64bits(next)) {
			return
		}
	}
}

// Load returns the smoothed load fraction clamped to [0, 1].
func (l *LoadMeter) Load() float64 {
	v := math.Float64frombits(l.bits.Load())

	return math.Max(0, math.Min(1, v))
}

// Reset zeroes the meter.
func (l *LoadMeter) Reset() {
	l.bits.Store(0)
}
