// Package pcm reads and writes PCM WAV files.
package pcm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	// BitDepth is the sample resolution written by Encode.
	BitDepth = 16

	fullScale = math.MaxInt16
	wavFormat = 1 // integer PCM
)

// Errors returned by the encoder and decoder.
var (
	ErrInvalidSampleRate = errors.New("pcm: sample rate must be positive")
	ErrInvalidFile       = errors.New("pcm: not a valid WAV file")
	ErrUnsupportedFormat = errors.New("pcm: unsupported sample format")
)

// Quantize converts a sample to a signed 16-bit value as round(x*32767),
// saturating outside [-1, 1]. NaN maps to 0.
func Quantize(x float64) int {
	if math.IsNaN(x) {
		return 0
	}

	v := math.Round(x * fullScale)
	switch {
	case v > fullScale:
		return fullScale
	case v < math.MinInt16:
		return math.MinInt16
	}

	return int(v)
}

// Encode writes samples as a mono 16-bit PCM WAV stream. The writer must
// be seekable so the header sizes can be patched on close.
func Encode(w io.WriteSeeker, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	data := make([]int, len(samples))
	for i, x := range samples {
		data[i] = Quantize(x)
	}

	enc := wav.NewEncoder(w, sampleRate, BitDepth, 1, wavFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("pcm: write samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("pcm: finalize header: %w", err)
	}

	return nil
}

// WriteFile creates path and encodes samples into it.
func WriteFile(path string, samples []float64, sampleRate int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Encode(f, samples, sampleRate)
}

// Decode reads an integer PCM WAV stream and returns its samples scaled
// to [-1, 1) together with the sample rate. Multichannel input is
// downmixed by averaging the channels.
func Decode(r io.ReadSeeker) ([]float64, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidFile
	}

	if dec.WavAudioFormat != wavFormat {
		return nil, 0, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, 0, fmt.Errorf("%w: %d bits", ErrUnsupportedFormat, bitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("pcm: decode samples: %w", err)
	}

	channels := max(int(dec.NumChans), 1)
	scale := float64(int64(1) << (bitDepth - 1))

	// 8-bit WAV is unsigned with its midpoint at 128.
	offset := 0.0
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels
	out := make([]float64, frames)

	for i := range out {
		var sum float64
		for c := range channels {
			sum += float64(buf.Data[i*channels+c]) - offset
		}

		out[i] = sum / float64(channels) / scale
	}

	return out, int(dec.SampleRate), nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return Decode(f)
}
