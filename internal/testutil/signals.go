package testutil

import (
	"math"
	"math/rand"
)

// ln(10^3): an envelope exp(-decayLn60*t/rt60) is 60 dB down at rt60.
const decayLn60 = 6.907755278982137

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// ExponentialDecay generates an amplitude envelope exp(-6.908*t/rt60),
// which falls by 60 dB after rt60 seconds.
func ExponentialDecay(sampleRate, rt60, durationSec float64) []float64 {
	n := int(sampleRate * durationSec)
	out := make([]float64, n)
	rate := decayLn60 / rt60
	for i := range out {
		out[i] = math.Exp(-rate * float64(i) / sampleRate)
	}
	return out
}

// EnergyDecay generates the energy-domain counterpart of ExponentialDecay:
// the squared amplitude envelope.
func EnergyDecay(sampleRate, rt60, durationSec float64) []float64 {
	out := ExponentialDecay(sampleRate, rt60, durationSec)
	for i, v := range out {
		out[i] = v * v
	}
	return out
}
