package ir

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-rir/dsp/core"
	"github.com/cwbudde/algo-rir/dsp/rir"
	"github.com/cwbudde/algo-rir/internal/testutil"
)

func TestSchroederIntegral(t *testing.T) {
	a := NewAnalyzer(48000)

	t.Run("impulse", func(t *testing.T) {
		ir := testutil.Impulse(100, 0)

		s, err := a.SchroederIntegral(ir)
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(s[0]) > 1e-10 {
			t.Errorf("S[0] = %g, want 0 dB", s[0])
		}

		for i := 1; i < len(s); i++ {
			if s[i] != -200 {
				t.Errorf("S[%d] = %g, want -200 dB floor", i, s[i])
				break
			}
		}
	})

	t.Run("monotonic", func(t *testing.T) {
		ir := testutil.ExponentialDecay(48000, 0.5, 1.0)

		s, err := a.SchroederIntegral(ir)
		if err != nil {
			t.Fatal(err)
		}

		for i := 1; i < len(s); i++ {
			if s[i] > s[i-1]+1e-10 {
				t.Fatalf("S[%d] = %g > S[%d] = %g", i, s[i], i-1, s[i-1])
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := a.SchroederIntegral(nil); !errors.Is(err, ErrEmptyIR) {
			t.Errorf("err = %v, want ErrEmptyIR", err)
		}
	})
}

func TestRT60(t *testing.T) {
	tests := []struct {
		name   string
		rt60   float64
		domain []Option
		decay  func(sr, rt60, dur float64) []float64
	}{
		{"amplitude_0.5s", 0.5, nil, testutil.ExponentialDecay},
		{"amplitude_1.2s", 1.2, nil, testutil.ExponentialDecay},
		{"energy_0.5s", 0.5, []Option{WithEnergyDomain()}, testutil.EnergyDecay},
		{"energy_2s", 2.0, []Option{WithEnergyDomain()}, testutil.EnergyDecay},
	}

	const sampleRate = 48000

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(sampleRate, tt.domain...)
			ir := tt.decay(sampleRate, tt.rt60, 2*tt.rt60)

			got, err := a.RT60(ir)
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(got-tt.rt60)/tt.rt60 > 0.02 {
				t.Errorf("RT60 = %.4f s, want %.4f s", got, tt.rt60)
			}

			edt, err := a.EDT(ir)
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(edt-tt.rt60)/tt.rt60 > 0.02 {
				t.Errorf("EDT = %.4f s, want %.4f s", edt, tt.rt60)
			}
		})
	}
}

func TestRT60NoDecay(t *testing.T) {
	a := NewAnalyzer(48000)

	if _, err := a.RT60(testutil.Impulse(64, 0)); !errors.Is(err, ErrNoDecay) {
		t.Errorf("RT60 err = %v, want ErrNoDecay", err)
	}

	if _, err := a.EDT(make([]float64, 64)); !errors.Is(err, ErrNoDecay) {
		t.Errorf("EDT err = %v, want ErrNoDecay", err)
	}
}

func TestDRR(t *testing.T) {
	t.Run("energy_domain", func(t *testing.T) {
		a := NewAnalyzer(1000, WithEnergyDomain())

		got, err := a.DRR([]float64{0, 1, 0.25, 0.25, 0.5})
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(got) > 1e-12 {
			t.Errorf("DRR = %g dB, want 0 dB", got)
		}
	})

	t.Run("amplitude_domain", func(t *testing.T) {
		a := NewAnalyzer(1000)

		got, err := a.DRR([]float64{1, -0.5, 0.5})
		if err != nil {
			t.Fatal(err)
		}

		want := 10 * math.Log10(1/0.5)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("DRR = %g dB, want %g dB", got, want)
		}
	})

	t.Run("direct_window", func(t *testing.T) {
		a := NewAnalyzer(1000, WithEnergyDomain(), WithDirectWindow(1))

		got, err := a.DRR([]float64{1, 1, 1, 1})
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(got) > 1e-12 {
			t.Errorf("DRR = %g dB, want 0 dB", got)
		}
	})

	t.Run("no_reverb", func(t *testing.T) {
		a := NewAnalyzer(1000, WithEnergyDomain())

		if _, err := a.DRR([]float64{0, 1, 0, 0}); !errors.Is(err, ErrNoReverb) {
			t.Errorf("err = %v, want ErrNoReverb", err)
		}

		if _, err := a.DRR([]float64{0, 0, 1}); !errors.Is(err, ErrNoReverb) {
			t.Errorf("err = %v, want ErrNoReverb for peak at the end", err)
		}
	})
}

func TestClarityDefinition(t *testing.T) {
	const sampleRate = 48000

	a := NewAnalyzer(sampleRate)
	ir := testutil.ExponentialDecay(sampleRate, 1.0, 2.0)

	d50, err := a.Definition(ir, 50)
	if err != nil {
		t.Fatal(err)
	}

	c50, err := a.Clarity(ir, 50)
	if err != nil {
		t.Fatal(err)
	}

	// C = 10*log10(D / (1-D))
	want := 10 * math.Log10(d50/(1-d50))
	if math.Abs(c50-want) > 1e-9 {
		t.Errorf("C50 = %g dB, want %g dB from D50 = %g", c50, want, d50)
	}

	d80, err := a.Definition(ir, 80)
	if err != nil {
		t.Fatal(err)
	}

	if d80 <= d50 || d80 >= 1 {
		t.Errorf("D80 = %g, want in (D50 = %g, 1)", d80, d50)
	}

	// Analytic energy fraction: 1 - exp(-13.8155*t/rt60) for an infinite tail.
	analytic := 1 - math.Exp(-2*6.907755279*0.05)
	if math.Abs(d50-analytic) > 0.01 {
		t.Errorf("D50 = %g, want about %g", d50, analytic)
	}
}

func TestClarityEdges(t *testing.T) {
	a := NewAnalyzer(1000)
	ir := testutil.Impulse(10, 0)

	c, err := a.Clarity(ir, 5)
	if err != nil {
		t.Fatal(err)
	}

	if !math.IsInf(c, 1) {
		t.Errorf("C5 of impulse = %g, want +Inf", c)
	}

	d, err := a.Definition(ir, 100)
	if err != nil {
		t.Fatal(err)
	}

	if d != 1 {
		t.Errorf("D100 beyond IR = %g, want 1", d)
	}
}

func TestCenterTime(t *testing.T) {
	a := NewAnalyzer(1000, WithEnergyDomain())

	got, err := a.CenterTime([]float64{1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(got-0.001) > 1e-12 {
		t.Errorf("center time = %g s, want 0.001 s", got)
	}
}

func TestAnalyzeExponential(t *testing.T) {
	const (
		sampleRate = 48000
		rt60       = 0.8
	)

	ir := append(make([]float64, 100), testutil.ExponentialDecay(sampleRate, rt60, 1.6)...)

	m, err := NewAnalyzer(sampleRate).Analyze(ir)
	if err != nil {
		t.Fatal(err)
	}

	if m.PeakIndex != 100 {
		t.Errorf("PeakIndex = %d, want 100", m.PeakIndex)
	}

	if math.Abs(m.RT60-rt60)/rt60 > 0.02 {
		t.Errorf("RT60 = %g, want %g", m.RT60, rt60)
	}

	if m.RT60 != m.T30 {
		t.Errorf("RT60 = %g, want T30 = %g", m.RT60, m.T30)
	}

	if m.CenterTime <= 0 || m.D50 <= 0 || m.D50 >= 1 {
		t.Errorf("implausible metrics: %+v", m)
	}
}

func TestAnalyzeGeneratedKernel(t *testing.T) {
	const sampleRate = 16000

	g := rir.NewGenerator([]core.ProcessorOption{core.WithSampleRate(sampleRate)})
	spec := rir.MustSpec(600, 60, 4, 60, -3)

	res, err := g.GenerateDetailed(spec, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.Undefined {
		t.Skip("thinning left the DRR undefined for this seed")
	}

	m, err := NewAnalyzer(sampleRate, WithEnergyDomain()).Analyze(res.Samples)
	if err != nil {
		t.Fatal(err)
	}

	if m.PeakIndex != 0 {
		t.Errorf("PeakIndex = %d, want 0 (kernel starts at the direct sound)", m.PeakIndex)
	}

	// The kernel drops the onset before the direct sound, so its direct
	// energy can only be lower than what the thinner measured.
	if m.DRR > res.Stats.FinalDRR+1e-9 {
		t.Errorf("analyzed DRR = %g dB, above generator DRR %g dB", m.DRR, res.Stats.FinalDRR)
	}

	if !(m.RT60 > 0) || math.IsInf(m.RT60, 0) {
		t.Errorf("RT60 = %g, want a finite positive decay time", m.RT60)
	}
}

func TestAnalyzerErrors(t *testing.T) {
	if _, err := NewAnalyzer(48000).Analyze(nil); !errors.Is(err, ErrEmptyIR) {
		t.Errorf("err = %v, want ErrEmptyIR", err)
	}

	if _, err := NewAnalyzer(0).Analyze([]float64{1}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("err = %v, want ErrInvalidSampleRate", err)
	}

	if _, err := NewAnalyzer(48000).Clarity([]float64{1}, 0); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("err = %v, want ErrInvalidTime", err)
	}

	if _, err := NewAnalyzer(48000).Definition([]float64{1}, -5); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("err = %v, want ErrInvalidTime", err)
	}
}

func TestWithDirectWindowIgnoresNegative(t *testing.T) {
	a := NewAnalyzer(48000, WithDirectWindow(2), WithDirectWindow(-1), nil)
	if a.DirectWindowMs != 2 {
		t.Errorf("DirectWindowMs = %g, want 2", a.DirectWindowMs)
	}
}
