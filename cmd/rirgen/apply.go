package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rir/dsp/conv"
	"github.com/cwbudde/algo-rir/dsp/core"
	"github.com/cwbudde/algo-rir/dsp/resample"
	"github.com/cwbudde/algo-rir/dsp/signal"
	"github.com/cwbudde/algo-rir/internal/pcm"
	timestats "github.com/cwbudde/algo-rir/stats/time"
)

// ApplyCmd auralizes a dry recording with an impulse response.
type ApplyCmd struct {
	IR        string  `name:"ir" required:"" type:"existingfile" help:"Impulse response WAV file."`
	Mix       float64 `default:"1" help:"Wet share of the output, 0 (dry) to 1 (wet)."`
	PeakDB    float64 `name:"peak" default:"-1" placeholder:"dbfs" help:"Output peak level in dBFS."`
	BlockSize int     `default:"4096" placeholder:"n" help:"Overlap-add block length in samples."`
	Dry       string  `arg:"" type:"existingfile" help:"Dry input WAV file."`
	Output    string  `arg:"" type:"path" help:"Output WAV file."`
}

// Run convolves the dry signal with the impulse response, normalizes the
// result and writes it. An impulse response at another sample rate is
// resampled to the rate of the dry signal first.
func (c *ApplyCmd) Run(e *env) error {
	kernel, irRate, err := pcm.ReadFile(c.IR)
	if err != nil {
		return fmt.Errorf("read impulse response: %w", err)
	}

	dry, dryRate, err := pcm.ReadFile(c.Dry)
	if err != nil {
		return fmt.Errorf("read dry signal: %w", err)
	}

	if irRate != dryRate {
		e.log.WithFields(logrus.Fields{
			"ir_rate":  irRate,
			"dry_rate": dryRate,
		}).Info("Resampling impulse response")

		kernel, err = resample.Convert(kernel, float64(irRate), float64(dryRate), resample.WithQuality(resample.QualityBest))
		if err != nil {
			return fmt.Errorf("resample impulse response: %w", err)
		}
	}

	reverb, err := conv.NewReverb(kernel, c.Mix, core.WithBlockSize(c.BlockSize))
	if err != nil {
		return err
	}

	wet, err := reverb.Apply(dry)
	if err != nil {
		return err
	}

	wet, err = signal.Normalize(wet, core.DBToLinear(c.PeakDB))
	if err != nil {
		return err
	}

	if err := pcm.WriteFile(c.Output, wet, dryRate); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"ir":       c.IR,
		"dry":      c.Dry,
		"output":   c.Output,
		"mix":      c.Mix,
		"samples":  len(wet),
		"rms_dbfs": fmt.Sprintf("%.2f", timestats.Calculate(wet, float64(dryRate)).RMS_dB),
	}).Info("Wrote auralized signal")

	return nil
}
