// Package time computes time-domain statistics of signals and kernels.
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rir/dsp/core"
)

// Stats holds time-domain statistics of a signal.
//
//nolint:revive
type Stats struct {
	Length         int
	Duration       float64 // seconds, 0 without a sample rate
	Peak           float64 // max |x|
	PeakPos        int     // earliest index of Peak
	Peak_dB        float64
	RMS            float64
	RMS_dB         float64
	CrestFactor_dB float64
	Energy         float64 // sum of squares
	NonZero        int     // samples that are not exactly zero
	Density        float64 // NonZero / Length
}

func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes the statistics of signal. A positive sampleRate fills
// in Duration.
func Calculate(signal []float64, sampleRate float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			Peak_dB: math.Inf(-1),
			RMS_dB:  math.Inf(-1),
		}
	}

	s := Stats{
		Length: n,
		Energy: Energy(signal),
	}

	for i, x := range signal {
		if x == 0 {
			continue
		}

		s.NonZero++

		if a := math.Abs(x); a > s.Peak {
			s.Peak = a
			s.PeakPos = i
		}
	}

	s.RMS = math.Sqrt(s.Energy / float64(n))
	s.Peak_dB = ampTodB(s.Peak)
	s.RMS_dB = ampTodB(s.RMS)
	s.Density = float64(s.NonZero) / float64(n)

	if s.RMS > 0 {
		s.CrestFactor_dB = s.Peak_dB - s.RMS_dB
	}

	if sampleRate > 0 {
		s.Duration = float64(n) / sampleRate
	}

	return s
}

// Energy returns the sum of squares of signal.
func Energy(signal []float64) float64 {
	return vecmath.DotProduct(signal, signal)
}

// RMS returns the root-mean-square of signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of signal.
func Peak(signal []float64) float64 {
	return vecmath.MaxAbs(signal)
}

// Density returns the share of non-zero samples in signal.
func Density(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return float64(core.CountNonZero(signal)) / float64(len(signal))
}
