package rir

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rir/dsp/core"
)

// convergenceEpsilon is the smallest DRR change, in dB, that counts as
// progress between two thinning passes (float32 machine epsilon).
const convergenceEpsilon = 1.1920929e-07

// ThinStats summarizes one thinning run.
type ThinStats struct {
	GapSamples int     // samples zeroed for the initial time delay gap
	Iterations int     // thinning passes performed
	Removed    int     // reflections zeroed by the thinning passes
	InitialDRR float64 // DRR after the gap, before thinning [dB]
	FinalDRR   float64 // DRR after thinning [dB]
	InBand     bool    // FinalDRR lies within the target band
	Undefined  bool    // reverberant energy vanished; the DRR fields hold the last finite value
}

// Thinner removes reverberant energy from a shaped buffer in place.
type Thinner interface {
	Thin(buf []float64, win Window, spec Spec, sampleRate float64, rng *rand.Rand) ThinStats
}

// StochasticThinner zeroes random reflections from the early and late zones
// until the DRR reaches the target band. It only ever removes energy: a
// response that already exceeds the band is left as is.
type StochasticThinner struct {
	EarlyRate float64 // fraction of non-zero early reflections removed per pass
	TailRate  float64 // fraction of non-zero tail reflections removed per pass
	Tolerance float64 // half-width of the DRR target band [dB]
}

// DefaultStochasticThinner returns the standard rates: 1/8 of the early
// reflections and 1/10 of the tail per pass, with a ±0.5 dB band.
func DefaultStochasticThinner() StochasticThinner {
	return StochasticThinner{
		EarlyRate: 1.0 / 8.0,
		TailRate:  1.0 / 10.0,
		Tolerance: 0.5,
	}
}

// Thin applies the initial time delay gap and then thins reflections.
func (t StochasticThinner) Thin(buf []float64, win Window, spec Spec, sampleRate float64, rng *rand.Rand) (stats ThinStats) {
	n := len(buf)
	if n == 0 {
		return stats
	}

	stats.GapSamples = InitialTimeDelayGap(buf, win.Direct, core.MillisToSamples(spec.itdgMs, sampleRate))

	current, ok := DRR(buf, win.Direct)
	if !ok {
		stats.Undefined = true
		return stats
	}
	stats.InitialDRR = current
	stats.FinalDRR = current

	low := spec.drrDB - t.Tolerance
	high := spec.drrDB + t.Tolerance
	defer func() {
		stats.InBand = !stats.Undefined && stats.FinalDRR >= low && stats.FinalDRR <= high
	}()

	if current > high {
		return stats
	}

	for current < low {
		removed := ThinOutReflections(buf, win.EarlyStart, win.EarlyEnd, t.EarlyRate, rng)
		removed += ThinOutReflections(buf, win.EarlyEnd, n-1, t.TailRate, rng)
		stats.Iterations++
		stats.Removed += removed

		previous := current
		current, ok = DRR(buf, win.Direct)
		if !ok {
			stats.Undefined = true
			break
		}
		stats.FinalDRR = current

		// No measurable change: the remaining reflections cannot be thinned
		// any further at these rates.
		if math.Abs(previous-current) < convergenceEpsilon {
			break
		}
	}

	return stats
}

// InitialTimeDelayGap zeroes the samples in (direct, direct+1+gapSamples],
// clamped to the end of buf, and returns how many samples were zeroed.
func InitialTimeDelayGap(buf []float64, direct, gapSamples int) int {
	n := len(buf)
	if n == 0 || direct < 0 || direct >= n-1 || gapSamples < 0 {
		return 0
	}
	start := direct + 1
	end := core.ClampIndex(direct+1+gapSamples, n)
	core.ZeroRange(buf, start, end)
	return end - start + 1
}

// DRR returns the direct-to-reverberant energy ratio of an energy buffer in
// dB: the energy up to and including direct over the energy after it.
// ok is false when the ratio is undefined, i.e. either part holds no energy
// or direct is out of range.
func DRR(energy []float64, direct int) (drr float64, ok bool) {
	if direct < 0 || direct >= len(energy) {
		return 0, false
	}
	d := vecmath.Sum(energy[:direct+1])
	r := vecmath.Sum(energy[direct+1:])
	if r <= 0 || d <= 0 {
		return 0, false
	}
	return core.LinearPowerToDB(d / r), true
}

// ThinOutReflections zeroes round(rate * k) of the k non-zero samples in
// buf[start..end] (inclusive), chosen uniformly at random without
// replacement. It returns the number of samples zeroed. The range is
// clamped to buf; an empty range removes nothing.
func ThinOutReflections(buf []float64, start, end int, rate float64, rng *rand.Rand) int {
	if len(buf) == 0 || rng == nil || !(rate > 0) {
		return 0
	}
	start = max(start, 0)
	end = min(end, len(buf)-1)
	if start > end {
		return 0
	}

	rays := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		if buf[i] != 0 {
			rays = append(rays, i)
		}
	}

	remove := int(math.Round(float64(len(rays)) * rate))
	remove = min(remove, len(rays))
	if remove < 1 {
		return 0
	}

	// Partial Fisher-Yates: the first remove entries become a uniform sample.
	for k := 0; k < remove; k++ {
		j := k + rng.Intn(len(rays)-k)
		rays[k], rays[j] = rays[j], rays[k]
		buf[rays[k]] = 0
	}

	return remove
}
