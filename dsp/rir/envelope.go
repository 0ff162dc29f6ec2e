package rir

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rir/dsp/core"
)

// Slope constants of the two-segment envelope. The EDT segment drops
// edtSlopeDB over the EDT window; the RT60 segment adds rt60SlopeDB more by
// RT60, for -60 dB in total.
const (
	edtSlopeDB  = 10.0
	rt60SlopeDB = 50.0
)

// Window locates the direct sound and the early reflection zone inside a
// shaped buffer. All indices are valid for the buffer they were computed
// from.
type Window struct {
	Direct     int // index of the global energy maximum
	EarlyStart int // first sample of the early reflection zone
	EarlyEnd   int // last sample of the early reflection zone (inclusive)
}

// Shaper imposes a decay envelope on a noise buffer in place and returns
// the resulting window. Implementations must leave non-negative energy
// values in buf.
type Shaper interface {
	Shape(buf []float64, spec Spec, sampleRate float64) Window
}

// TwoSlopeShaper is the default Shaper: a linear dB ramp of -10 dB over the
// EDT followed by a second ramp reaching -60 dB at RT60.
type TwoSlopeShaper struct{}

// Shape applies the envelope to buf and converts it to energy. buf is
// expected to hold NumSamples(spec.RT60(), sampleRate) noise values.
func (TwoSlopeShaper) Shape(buf []float64, spec Spec, sampleRate float64) Window {
	n := len(buf)
	if n == 0 {
		return Window{}
	}

	edt := max(core.MillisToSamples(spec.edtMs, sampleRate), 1)
	rt60 := core.MillisToSamples(spec.rt60Ms, sampleRate)
	er := core.MillisToSamples(spec.erDurationMs, sampleRate)

	// EDT slope: ramp down until the knee, hold the knee level afterwards.
	knee := min(edt-1, n)
	for i := 0; i < knee; i++ {
		buf[i] -= float64(i)
	}
	for i := knee; i < n; i++ {
		buf[i] -= float64(edt - 1)
	}
	vecmath.ScaleBlockInPlace(buf, edtSlopeDB/float64(edt))

	// RT60 slope continues from the EDT endpoint.
	end := min(rt60, n)
	for i := edt; i < end; i++ {
		buf[i] -= float64(i-(edt+1)) * rt60SlopeDB / float64(rt60)
	}

	// 0 dB at the peak, then dB -> gain -> energy.
	_, peak := core.ArgMax(buf)
	for i, v := range buf {
		g := core.DBToLinear(v - peak)
		buf[i] = g * g
	}

	return windowFor(buf, er)
}

// windowFor finds the direct sound in an energy buffer and places the early
// reflection zone right after it. Indices that would run past the buffer
// collapse onto the last sample.
func windowFor(energy []float64, erSamples int) Window {
	n := len(energy)
	direct, _ := core.ArgMax(energy)
	start := core.ClampIndex(direct+1, n)
	end := core.ClampIndex(start+erSamples, n)

	return Window{
		Direct:     direct,
		EarlyStart: start,
		EarlyEnd:   end,
	}
}
