package signal

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

// ErrNilRand is returned when a noise function is called without a
// random source.
var ErrNilRand = errors.New("signal: random source is nil")

// FillUniform fills dst with independent values drawn uniformly from
// [-amplitude, amplitude) using rng. The caller owns rng; it is advanced by
// exactly len(dst) draws.
func FillUniform(dst []float64, rng *rand.Rand, amplitude float64) error {
	if rng == nil {
		return ErrNilRand
	}
	for i := range dst {
		dst[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	out := make([]float64, len(data))
	maxAbs := vecmath.MaxAbs(data)
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/maxAbs)
	return out, nil
}
