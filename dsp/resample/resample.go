package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects the anti-aliasing filter.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

// Profile holds the filter parameters of a quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64 // fraction of the Nyquist limit of the lower rate
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures a Converter.
type Option func(*config)

// WithQuality selects a quality mode. The default is QualityBalanced.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps the denominator used when approximating a rate
// ratio. The default is 4096.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Converter resamples whole buffers by the rational factor up/down.
// It holds no stream state and is safe for concurrent use.
type Converter struct {
	up, down int
	quality  Quality
	taps     []float64 // prototype lowpass at the upsampled rate, gain up
	delay    int       // group delay of taps in upsampled samples
}

// NewRational creates a converter for the ratio up/down.
func NewRational(up, down int, opts ...Option) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := applyOptions(opts)

	taps, err := designLowpass(up, down, QualityProfile(cfg.quality))
	if err != nil {
		return nil, err
	}

	return &Converter{
		up:      up,
		down:    down,
		quality: cfg.quality,
		taps:    taps,
		delay:   len(taps) / 2,
	}, nil
}

// NewForRates creates a converter from inRate to outRate, approximating
// the rate ratio by a fraction.
func NewForRates(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, ErrInvalidRate
	}

	cfg := applyOptions(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// Convert resamples input from inRate to outRate. Equal rates return a
// copy of input.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if inRate == outRate && inRate > 0 {
		out := make([]float64, len(input))
		copy(out, input)

		return out, nil
	}

	c, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return c.Process(input), nil
}

// Ratio returns the reduced up/down factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// Quality returns the configured quality mode.
func (c *Converter) Quality() Quality {
	return c.quality
}

// OutputLen returns the number of samples Process produces for inputLen
// input samples: ceil(inputLen * up / down).
func (c *Converter) OutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	return (inputLen*c.up + c.down - 1) / c.down
}

// Process resamples input. Output sample m sits at input time m*down/up,
// so features keep their position in seconds.
func (c *Converter) Process(input []float64) []float64 {
	n := c.OutputLen(len(input))
	if n == 0 {
		return nil
	}

	out := make([]float64, n)
	last := len(input) - 1
	nTaps := len(c.taps)

	for m := range out {
		// Position in the zero-stuffed signal, shifted by the filter delay.
		t := m*c.down + c.delay

		// Input samples j contribute through tap t - j*up.
		jHi := min(t/c.up, last)
		jLo := max(0, ceilDiv(t-nTaps+1, c.up))

		var y float64
		for j := jLo; j <= jHi; j++ {
			y += c.taps[t-j*c.up] * input[j]
		}

		out[m] = y
	}

	return out
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return -((-a) / b)
	}

	return (a + b - 1) / b
}
