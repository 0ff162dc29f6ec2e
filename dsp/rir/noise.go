package rir

import (
	"math/rand"

	"github.com/cwbudde/algo-rir/dsp/core"
	"github.com/cwbudde/algo-rir/dsp/signal"
)

// noiseAmplitude bounds the raw noise. After the 10/EDT scaling of the
// envelope stage it becomes the dB spread around the decay curve.
const noiseAmplitude = 5.0

// NumSamples returns the buffer length for a response of the given RT60:
// round(rt60Ms/1000 * sampleRate).
func NumSamples(rt60Ms, sampleRate float64) int {
	return core.MillisToSamples(rt60Ms, sampleRate)
}

// Noise returns a fresh buffer of NumSamples(rt60Ms, sampleRate) values
// drawn independently and uniformly from [-5, 5].
func Noise(rt60Ms, sampleRate float64, rng *rand.Rand) ([]float64, error) {
	if rng == nil {
		return nil, ErrNilRand
	}
	buf := make([]float64, NumSamples(rt60Ms, sampleRate))
	if err := signal.FillUniform(buf, rng, noiseAmplitude); err != nil {
		return nil, err
	}
	return buf, nil
}
