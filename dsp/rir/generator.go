package rir

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-rir/dsp/core"
)

// Generator renders impulse responses at a fixed sample rate with a
// configurable shaping and thinning strategy. A Generator is immutable
// after construction and safe for concurrent use.
type Generator struct {
	cfg     core.ProcessorConfig
	shaper  Shaper
	thinner Thinner
}

// Option configures a Generator.
type Option func(*Generator)

// WithShaper replaces the envelope strategy.
func WithShaper(s Shaper) Option {
	return func(g *Generator) {
		if s != nil {
			g.shaper = s
		}
	}
}

// WithThinner replaces the reflection thinning strategy.
func WithThinner(t Thinner) Option {
	return func(g *Generator) {
		if t != nil {
			g.thinner = t
		}
	}
}

// Result is a generated impulse response together with the diagnostics of
// the call that produced it.
type Result struct {
	Samples []float64 // response from the direct sound on (energy domain)
	Window  Window    // indices relative to the full, untrimmed buffer
	Length  int       // length of the untrimmed buffer
	Stats   ThinStats
}

// NewGenerator creates a generator using the two-slope envelope and the
// default stochastic thinner.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:     core.ApplyProcessorOptions(coreOpts...),
		shaper:  TwoSlopeShaper{},
		thinner: DefaultStochasticThinner(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SampleRate returns the rendering sample rate in Hz.
func (g *Generator) SampleRate() float64 {
	return g.cfg.SampleRate
}

// Generate renders one impulse response for spec, drawing all randomness
// from rng. The result starts at the direct sound; samples before it are
// discarded.
func (g *Generator) Generate(spec Spec, rng *rand.Rand) ([]float64, error) {
	res, err := g.GenerateDetailed(spec, rng)
	if err != nil {
		return nil, err
	}
	return res.Samples, nil
}

// GenerateDetailed is like Generate but also returns the window and
// thinning statistics.
func (g *Generator) GenerateDetailed(spec Spec, rng *rand.Rand) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}
	if rng == nil {
		return Result{}, ErrNilRand
	}

	sampleRate := g.cfg.SampleRate
	if NumSamples(spec.rt60Ms, sampleRate) < 1 {
		return Result{}, fmt.Errorf("%w: rt60 of %g ms is shorter than one sample at %g Hz",
			ErrConfiguration, spec.rt60Ms, sampleRate)
	}

	buf, err := Noise(spec.rt60Ms, sampleRate, rng)
	if err != nil {
		return Result{}, err
	}

	win := g.shaper.Shape(buf, spec, sampleRate)
	stats := g.thinner.Thin(buf, win, spec, sampleRate, rng)

	out := make([]float64, len(buf)-win.Direct)
	copy(out, buf[win.Direct:])

	return Result{
		Samples: out,
		Window:  win,
		Length:  len(buf),
		Stats:   stats,
	}, nil
}

// Generate renders one impulse response at sampleRate with the default
// strategies.
func Generate(spec Spec, sampleRate float64, rng *rand.Rand) ([]float64, error) {
	if !(sampleRate > 0) {
		return nil, ErrInvalidSampleRate
	}
	return NewGenerator([]core.ProcessorOption{core.WithSampleRate(sampleRate)}).Generate(spec, rng)
}

// RandomDRR draws a DRR target in [-rt60Ms/100, 0) dB, the default range
// for batch generation when no explicit DRR is requested. Longer rooms get
// lower (more reverberant) targets.
func RandomDRR(rt60Ms float64, rng *rand.Rand) float64 {
	span := rt60Ms / 100
	return -span + rng.Float64()*span
}
