package main

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rir/internal/cli"
	"github.com/cwbudde/algo-rir/internal/pcm"
	"github.com/cwbudde/algo-rir/measure/ir"
	timestats "github.com/cwbudde/algo-rir/stats/time"
)

var errAnalyzeFailed = errors.New("some files could not be analyzed")

// AnalyzeCmd measures impulse responses stored as WAV files.
type AnalyzeCmd struct {
	Files     []string `arg:"" type:"existingfile" help:"WAV impulse responses."`
	Amplitude bool     `help:"Treat samples as pressure amplitudes instead of energies."`
	Direct    float64  `default:"0" placeholder:"ms" help:"Direct sound window after the peak for DRR, in ms."`
}

// Run analyzes every file, skipping those that cannot be read.
func (c *AnalyzeCmd) Run(e *env) error {
	failed := 0

	for _, path := range c.Files {
		if err := c.analyze(e, path); err != nil {
			failed++

			e.log.WithFields(logrus.Fields{
				"file":  path,
				"error": err,
			}).Error("Skipping file")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errAnalyzeFailed, failed, len(c.Files))
	}

	return nil
}

func (c *AnalyzeCmd) analyze(e *env, path string) error {
	samples, sampleRate, err := pcm.ReadFile(path)
	if err != nil {
		return err
	}

	opts := []ir.Option{ir.WithDirectWindow(c.Direct)}
	if !c.Amplitude {
		opts = append(opts, ir.WithEnergyDomain())
	}

	m, err := ir.NewAnalyzer(float64(sampleRate), opts...).Analyze(samples)
	if err != nil {
		return err
	}

	s := timestats.Calculate(samples, float64(sampleRate))

	fmt.Fprintln(e.stdout, cli.TitleStyle.Render(filepath.Base(path)))
	cli.PrintField(e.stdout, "Sample rate:", fmt.Sprintf("%d Hz", sampleRate))
	cli.PrintField(e.stdout, "Duration:", fmt.Sprintf("%.3f s", s.Duration))
	cli.PrintField(e.stdout, "Peak:", formatDB(s.Peak_dB)+" dBFS")
	cli.PrintField(e.stdout, "RMS:", formatDB(s.RMS_dB)+" dBFS")
	cli.PrintField(e.stdout, "Density:", fmt.Sprintf("%.1f %%", 100*s.Density))
	printMetrics(e, m)

	return nil
}

func printMetrics(e *env, m ir.Metrics) {
	cli.PrintField(e.stdout, "EDT:", formatSeconds(m.EDT))
	cli.PrintField(e.stdout, "RT60:", formatSeconds(m.RT60))
	cli.PrintField(e.stdout, "DRR:", formatDB(m.DRR)+" dB")
	cli.PrintField(e.stdout, "C50:", formatDB(m.C50)+" dB")
	cli.PrintField(e.stdout, "C80:", formatDB(m.C80)+" dB")
	cli.PrintField(e.stdout, "D50:", fmt.Sprintf("%.2f", m.D50))
	cli.PrintField(e.stdout, "Center time:", fmt.Sprintf("%.1f ms", 1000*m.CenterTime))
	fmt.Fprintln(e.stdout)
}

func formatSeconds(v float64) string {
	if v <= 0 {
		return "n/a"
	}

	return fmt.Sprintf("%.3f s", v)
}

func formatDB(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "n/a"
	}

	return fmt.Sprintf("%.2f", v)
}
