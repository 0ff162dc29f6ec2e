package rir_test

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-rir/dsp/core"
	"github.com/cwbudde/algo-rir/dsp/rir"
)

func ExampleGenerate() {
	spec, err := rir.NewSpec(500, 50, 5, 50, -1)
	if err != nil {
		panic(err)
	}

	kernel, err := rir.Generate(spec, 16000, rand.New(rand.NewSource(42)))
	if err != nil {
		panic(err)
	}

	fmt.Println(spec)
	fmt.Printf("direct=%.0f\n", kernel[0])

	// Output:
	// rt60=500ms edt=50ms itdg=5ms er=50ms drr=-1.00dB
	// direct=1
}

func ExampleNewSpec() {
	_, err := rir.NewSpec(50, 80, 0, 0, 0)
	fmt.Println(err)

	// Output:
	// rir: invalid configuration: reverb time rt60 (50 ms) must exceed early decay time edt (80 ms)
}

func ExampleGenerator_GenerateDetailed() {
	g := rir.NewGenerator([]core.ProcessorOption{core.WithSampleRate(16000)})
	spec := rir.MustSpec(500, 50, 5, 50, -100)

	res, err := g.GenerateDetailed(spec, rand.New(rand.NewSource(7)))
	if err != nil {
		panic(err)
	}

	// The target lies far below the natural DRR, so nothing is thinned.
	fmt.Println(res.Length, res.Stats.Iterations, res.Stats.GapSamples)

	// Output:
	// 8000 0 81
}
