package conv

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rir/dsp/core"
)

// Reverb auralizes dry signals with a room impulse response.
type Reverb struct {
	oa  *OverlapAdd
	mix float64
}

// NewReverb creates a convolution reverb for kernel. mix is the wet share
// of the output: 0 passes the dry signal, 1 returns only the convolution.
// The processor block size sets the overlap-add block length.
func NewReverb(kernel []float64, mix float64, opts ...core.ProcessorOption) (*Reverb, error) {
	if !(mix >= 0 && mix <= 1) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidMix, mix)
	}

	cfg := core.ApplyProcessorOptions(opts...)

	oa, err := NewOverlapAdd(kernel, cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	return &Reverb{oa: oa, mix: mix}, nil
}

// Mix returns the wet share.
func (r *Reverb) Mix() float64 { return r.mix }

// Apply returns (1-mix)*dry + mix*(dry*kernel). The result keeps the
// reverberant tail and is len(dry)+len(kernel)-1 samples long.
func (r *Reverb) Apply(dry []float64) ([]float64, error) {
	out, err := r.oa.Process(dry)
	if err != nil {
		return nil, err
	}

	vecmath.ScaleBlockInPlace(out, r.mix)

	if r.mix < 1 {
		direct := make([]float64, len(dry))
		vecmath.ScaleBlock(direct, dry, 1-r.mix)
		vecmath.AddBlockInPlace(out[:len(dry)], direct)
	}

	return out, nil
}
