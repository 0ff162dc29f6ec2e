package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rir/dsp/core"
	"github.com/cwbudde/algo-rir/dsp/rir"
	"github.com/cwbudde/algo-rir/dsp/signal"
	"github.com/cwbudde/algo-rir/internal/cli"
	"github.com/cwbudde/algo-rir/internal/pcm"
	"github.com/cwbudde/algo-rir/internal/ui"
	"github.com/cwbudde/algo-rir/measure/ir"
)

// normalizePeakDB is the peak level used by --normalize.
const normalizePeakDB = -1

var (
	errBatchFailed = errors.New("some files could not be written")
	errInvalidArgs = errors.New("invalid arguments")
	errCancelled   = errors.New("cancelled")
)

// GenerateCmd writes a batch of kernels that share one room description.
type GenerateCmd struct {
	SampleRate int      `default:"44100" placeholder:"hz" help:"Sample rate in Hz."`
	Folder     string   `short:"f" required:"" type:"path" help:"Output folder, created when missing."`
	Count      int      `short:"n" default:"5" help:"Number of kernels to generate."`
	RT60       float64  `name:"rt60" default:"500" placeholder:"ms" help:"Reverb time in ms."`
	EDT        float64  `name:"edt" default:"50" placeholder:"ms" help:"Early decay time in ms."`
	ITDG       float64  `name:"itdg" default:"3" placeholder:"ms" help:"Initial time delay gap in ms."`
	ERDuration float64  `name:"er-duration" default:"80" placeholder:"ms" help:"Early reflection duration in ms."`
	DRR        *float64 `name:"drr" placeholder:"db" help:"Target direct-to-reverberant ratio in dB. Drawn from [-rt60/100, 0) when omitted."`
	Seed       *int64   `placeholder:"n" help:"Random seed. Derived from the clock when omitted."`
	Normalize  bool     `help:"Scale each kernel to a -1 dBFS peak before encoding."`
	Report     bool     `help:"Print measured acoustic parameters of each kernel."`
	Progress   bool     `help:"Show an interactive progress view."`
}

// job is one planned output file.
type job struct {
	index int
	path  string
}

// outcome is the result of one job.
type outcome struct {
	samples int
	stats   rir.ThinStats
	metrics *ir.Metrics
	err     error
}

// Run validates the configuration, then generates and writes every file.
// A failing file is logged and skipped; the batch reports an error at the
// end when any file failed.
func (c *GenerateCmd) Run(e *env) error {
	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	spec, err := c.spec(seed)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Folder, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	jobs := make([]job, c.Count)
	for i := range jobs {
		jobs[i] = job{index: i + 1, path: filepath.Join(c.Folder, fileName(spec, i+1))}
	}

	e.log.WithFields(logrus.Fields{
		"folder":      c.Folder,
		"count":       c.Count,
		"sample_rate": c.SampleRate,
		"seed":        seed,
		"spec":        spec.String(),
	}).Info("Generating room impulse responses")

	gen := rir.NewGenerator([]core.ProcessorOption{core.WithSampleRate(float64(c.SampleRate))})

	var results []*outcome
	if c.Progress {
		results, err = c.runWithProgress(e, gen, spec, seed, jobs)
		if err != nil {
			return err
		}
	} else {
		results = c.runJobs(e, gen, spec, seed, jobs, nil, nil)
	}

	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			continue
		}

		if c.Report {
			printReport(e, jobs[i].path, *res)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBatchFailed, failed, len(jobs))
	}

	return nil
}

// spec validates the flags and builds the room description. When no DRR
// is given it is drawn once for the batch from the seed.
func (c *GenerateCmd) spec(seed int64) (rir.Spec, error) {
	if c.SampleRate <= 0 {
		return rir.Spec{}, fmt.Errorf("%w: sample rate must be positive, got %d", errInvalidArgs, c.SampleRate)
	}

	if c.Count < 1 {
		return rir.Spec{}, fmt.Errorf("%w: count must be at least 1, got %d", errInvalidArgs, c.Count)
	}

	var drr float64
	if c.DRR != nil {
		drr = *c.DRR
	} else {
		drr = rir.RandomDRR(c.RT60, rand.New(rand.NewSource(seed)))
	}

	return rir.NewSpec(c.RT60, c.EDT, c.ITDG, c.ERDuration, drr)
}

// generate renders and writes one file with its own seeded random source,
// so any file can be reproduced on its own.
func (c *GenerateCmd) generate(gen *rir.Generator, spec rir.Spec, seed int64, j job) outcome {
	rng := rand.New(rand.NewSource(seed + int64(j.index)))

	res, err := gen.GenerateDetailed(spec, rng)
	if err != nil {
		return outcome{err: err}
	}

	out := outcome{samples: len(res.Samples), stats: res.Stats}

	if c.Report {
		m, err := ir.NewAnalyzer(float64(c.SampleRate), ir.WithEnergyDomain()).Analyze(res.Samples)
		if err == nil {
			out.metrics = &m
		}
	}

	samples := res.Samples
	if c.Normalize {
		samples, err = signal.Normalize(samples, core.DBToLinear(normalizePeakDB))
		if err != nil {
			out.err = err
			return out
		}
	}

	out.err = pcm.WriteFile(j.path, samples, c.SampleRate)

	return out
}

func (c *GenerateCmd) logOutcome(e *env, j job, res outcome) {
	fields := logrus.Fields{
		"index": j.index,
		"file":  j.path,
	}

	if res.err != nil {
		fields["error"] = res.err
		e.log.WithFields(fields).Error("Skipping file")

		return
	}

	fields["samples"] = res.samples
	fields["iterations"] = res.stats.Iterations
	fields["drr"] = fmt.Sprintf("%.2f", res.stats.FinalDRR)
	e.log.WithFields(fields).Info("Wrote impulse response")

	if !res.stats.InBand {
		e.log.WithFields(logrus.Fields{
			"index":        j.index,
			"initial_drr":  res.stats.InitialDRR,
			"final_drr":    res.stats.FinalDRR,
			"undefined":    res.stats.Undefined,
			"removed_rays": res.stats.Removed,
		}).Warn("DRR outside the target band")
	}
}

// runJobs generates the jobs in order and returns one outcome per job.
// When stop is set the remaining jobs are skipped and their outcomes stay
// nil. send, when non-nil, receives the progress messages of each job.
func (c *GenerateCmd) runJobs(e *env, gen *rir.Generator, spec rir.Spec, seed int64, jobs []job, stop *atomic.Bool, send func(tea.Msg)) []*outcome {
	results := make([]*outcome, 0, len(jobs))

	for i, j := range jobs {
		if stop != nil && stop.Load() {
			break
		}

		if send != nil {
			send(ui.FileStartMsg{Index: i})
		}

		res := c.generate(gen, spec, seed, j)
		c.logOutcome(e, j, res)
		results = append(results, &res)

		if send != nil {
			send(ui.FileCompleteMsg{
				Index:   i,
				Samples: res.samples,
				DRR:     res.stats.FinalDRR,
				InBand:  res.stats.InBand,
				Err:     res.err,
			})
		}
	}

	return results
}

// runWithProgress runs the batch in the background while a Bubbletea
// program renders it. Log output is held back until the view closes.
// Quitting the view stops the batch after the file in flight.
func (c *GenerateCmd) runWithProgress(e *env, gen *rir.Generator, spec rir.Spec, seed int64, jobs []job) ([]*outcome, error) {
	paths := make([]string, len(jobs))
	for i, j := range jobs {
		paths[i] = j.path
	}

	model := ui.NewModel(paths, fmt.Sprintf("%.2f dB", spec.DRR()))
	p := tea.NewProgram(model, tea.WithInput(e.stdin), tea.WithOutput(e.stdout))

	var logs bytes.Buffer

	logOut := e.log.Out
	e.log.SetOutput(&logs)

	var stop atomic.Bool

	done := make(chan []*outcome, 1)

	go func() {
		done <- c.runJobs(e, gen, spec, seed, jobs, &stop, p.Send)
		p.Send(ui.AllCompleteMsg{})
	}()

	final, err := p.Run()
	stop.Store(true)
	results := <-done

	e.log.SetOutput(logOut)
	_, _ = logs.WriteTo(logOut)

	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}

	if m, ok := final.(ui.Model); ok && m.Cancelled {
		return nil, fmt.Errorf("%w after %d of %d files", errCancelled, len(results), len(jobs))
	}

	return results, nil
}

// fileName names a kernel after its parameters and 1-based batch index.
func fileName(spec rir.Spec, index int) string {
	return fmt.Sprintf("rir_rt60-%g_edt-%g_itdg-%g_er-%g_drr-%.2f_%d.wav",
		spec.RT60(), spec.EDT(), spec.ITDG(), spec.ERDuration(), spec.DRR(), index)
}

func printReport(e *env, path string, res outcome) {
	fmt.Fprintln(e.stdout, cli.TitleStyle.Render(filepath.Base(path)))

	cli.PrintField(e.stdout, "Samples:", fmt.Sprintf("%d", res.samples))
	cli.PrintField(e.stdout, "Target DRR met:", fmt.Sprintf("%t", res.stats.InBand))

	if res.metrics == nil {
		cli.PrintWarning(e.stdout, "metrics unavailable")
		return
	}

	printMetrics(e, *res.metrics)
}
