package conv

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-rir/dsp/core"
	"github.com/cwbudde/algo-rir/dsp/rir"
	"github.com/cwbudde/algo-rir/internal/testutil"
)

func TestDirect(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{"simple 3x3", []float64{1, 2, 3}, []float64{1, 1, 1}, []float64{1, 3, 6, 5, 3}},
		{"impulse", []float64{1, 2, 3, 4, 5}, []float64{1}, []float64{1, 2, 3, 4, 5}},
		{"delayed impulse", []float64{1, 2, 3, 4, 5}, []float64{0, 0, 1}, []float64{0, 0, 1, 2, 3, 4, 5}},
		{"symmetric", []float64{1, 2, 1}, []float64{1, 2, 1}, []float64{1, 4, 6, 4, 1}},
		{"zeros in input", []float64{0, 1, 0}, []float64{2, 3}, []float64{0, 2, 3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Direct(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, result, tt.expected, 1e-12)
		})
	}
}

func TestDirectErrors(t *testing.T) {
	if _, err := Direct(nil, []float64{1, 2}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}

	if _, err := Direct([]float64{1, 2}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}

func TestOverlapAddMatchesDirect(t *testing.T) {
	tests := []struct {
		name      string
		signalLen int
		kernelLen int
		blockSize int
	}{
		{"short kernel", 1000, 3, 0},
		{"long kernel", 3000, 700, 0},
		{"kernel longer than block", 500, 300, 64},
		{"single block", 50, 20, 0},
		{"kernel longer than signal", 40, 400, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := testutil.DeterministicNoise(1, 1, tt.signalLen)
			kernel := testutil.DeterministicNoise(2, 0.5, tt.kernelLen)

			want, err := Direct(signal, kernel)
			if err != nil {
				t.Fatal(err)
			}

			oa, err := NewOverlapAdd(kernel, tt.blockSize)
			if err != nil {
				t.Fatal(err)
			}

			got, err := oa.Process(signal)
			if err != nil {
				t.Fatal(err)
			}

			testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)

			// A second pass must not see state from the first.
			again, err := oa.Process(signal)
			if err != nil {
				t.Fatal(err)
			}

			testutil.RequireSliceNearlyEqual(t, again, want, 1e-9)
		})
	}
}

func TestOverlapAddSizes(t *testing.T) {
	oa, err := NewOverlapAdd(make([]float64, 100), 0)
	if err != nil {
		t.Fatal(err)
	}

	if oa.BlockSize() != 256 {
		t.Errorf("BlockSize = %d, want 256", oa.BlockSize())
	}

	if oa.FFTSize() != 512 {
		t.Errorf("FFTSize = %d, want 512", oa.FFTSize())
	}

	if oa.KernelLen() != 100 {
		t.Errorf("KernelLen = %d, want 100", oa.KernelLen())
	}

	if _, err := NewOverlapAdd(nil, 0); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}

	if _, err := oa.Process(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestOverlapAddProcessTo(t *testing.T) {
	kernel := []float64{0.5, 0.25, 0.125}
	signal := []float64{1, 2, 3, 4}

	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		t.Fatal(err)
	}

	out := []float64{9, 9, 9, 9, 9, 9}
	if err := oa.ProcessTo(out, signal); err != nil {
		t.Fatal(err)
	}

	want, _ := Direct(signal, kernel)
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-12)

	if err := oa.ProcessTo(make([]float64, 5), signal); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestConvolveCommutative(t *testing.T) {
	a := testutil.DeterministicNoise(3, 1, 200)
	b := testutil.DeterministicNoise(4, 1, 90)

	ab, err := Convolve(a, b)
	if err != nil {
		t.Fatal(err)
	}

	ba, err := Convolve(b, a)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, ab, ba, 1e-9)
}

func TestConvolveMode(t *testing.T) {
	signal := []float64{1, 2, 3, 4, 5}
	kernel := []float64{1, 0.5}

	full, err := ConvolveMode(signal, kernel, ModeFull)
	if err != nil {
		t.Fatal(err)
	}

	if len(full) != 6 {
		t.Errorf("full length = %d, want 6", len(full))
	}

	same, err := ConvolveMode(signal, kernel, ModeSame)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, same, []float64{1, 2.5, 4, 5.5, 7}, 1e-12)

	if _, err := ConvolveMode(nil, kernel, ModeSame); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestReverb(t *testing.T) {
	kernel := []float64{1, 0, 0.5}
	dry := []float64{1, 1}

	t.Run("wet", func(t *testing.T) {
		r, err := NewReverb(kernel, 1)
		if err != nil {
			t.Fatal(err)
		}

		got, err := r.Apply(dry)
		if err != nil {
			t.Fatal(err)
		}

		testutil.RequireSliceNearlyEqual(t, got, []float64{1, 1, 0.5, 0.5}, 1e-12)
	})

	t.Run("half", func(t *testing.T) {
		r, err := NewReverb(kernel, 0.5)
		if err != nil {
			t.Fatal(err)
		}

		got, err := r.Apply(dry)
		if err != nil {
			t.Fatal(err)
		}

		testutil.RequireSliceNearlyEqual(t, got, []float64{1, 1, 0.25, 0.25}, 1e-12)
	})

	t.Run("dry", func(t *testing.T) {
		r, err := NewReverb(kernel, 0)
		if err != nil {
			t.Fatal(err)
		}

		got, err := r.Apply(dry)
		if err != nil {
			t.Fatal(err)
		}

		testutil.RequireSliceNearlyEqual(t, got, []float64{1, 1, 0, 0}, 1e-12)
	})

	t.Run("invalid mix", func(t *testing.T) {
		for _, mix := range []float64{-0.1, 1.5, math.NaN()} {
			if _, err := NewReverb(kernel, mix); !errors.Is(err, ErrInvalidMix) {
				t.Errorf("mix %g: expected ErrInvalidMix, got %v", mix, err)
			}
		}
	})
}

func TestReverbWithGeneratedKernel(t *testing.T) {
	g := rir.NewGenerator([]core.ProcessorOption{core.WithSampleRate(8000)})

	kernel, err := g.Generate(rir.MustSpec(250, 25, 2, 30, 0), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewReverb(kernel, 1)
	if err != nil {
		t.Fatal(err)
	}

	// An impulse through the reverb reproduces the kernel.
	got, err := r.Apply(testutil.Impulse(16, 0))
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got[:len(kernel)], kernel, 1e-9)
	testutil.RequireFinite(t, got)
}

func TestReverbBlockSize(t *testing.T) {
	kernel := testutil.DeterministicNoise(5, 1, 300)
	dry := testutil.DeterministicNoise(6, 1, 2000)

	want, err := Direct(dry, kernel)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewReverb(kernel, 1, core.WithBlockSize(128))
	if err != nil {
		t.Fatal(err)
	}

	if r.oa.BlockSize() != 128 {
		t.Errorf("block size = %d, want 128", r.oa.BlockSize())
	}

	if r.Mix() != 1 {
		t.Errorf("Mix() = %g, want 1", r.Mix())
	}

	got, err := r.Apply(dry)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}
