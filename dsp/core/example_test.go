package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-rir/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(16000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=16000 blockSize=256
}

func ExampleMillisToSamples() {
	fmt.Println(core.MillisToSamples(500, 16000), core.MillisToSamples(50, 44100))

	// Output:
	// 8000 2205
}
