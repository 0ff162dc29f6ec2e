package ir

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rir/dsp/core"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidTime       = errors.New("ir: time must be positive")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
	ErrNoReverb          = errors.New("ir: no reverberant energy after the direct sound")
)

// Domain tells the analyzer how to read IR samples.
type Domain int

const (
	// DomainAmplitude treats samples as pressure amplitudes (squared to energy).
	DomainAmplitude Domain = iota
	// DomainEnergy treats samples as energies (used as-is).
	DomainEnergy
)

// Metrics holds impulse response analysis results.
type Metrics struct {
	RT60       float64 // reverberation time in seconds (T30, or T20 as fallback)
	EDT        float64 // early decay time in seconds (0 to -10 dB)
	T20        float64 // RT from -5 to -25 dB slope
	T30        float64 // RT from -5 to -35 dB slope
	DRR        float64 // direct-to-reverberant ratio in dB (+Inf without reverb)
	C50        float64 // clarity at 50ms in dB
	C80        float64 // clarity at 80ms in dB
	D50        float64 // definition at 50ms (ratio 0-1)
	D80        float64 // definition at 80ms (ratio 0-1)
	CenterTime float64 // energy centroid in seconds
	PeakIndex  int     // sample index of the energy maximum
}

// Analyzer computes IR metrics from impulse response data.
type Analyzer struct {
	SampleRate float64
	Domain     Domain

	// DirectWindowMs extends the direct sound past the peak sample when
	// computing DRR. 0 counts only the peak and everything before it.
	DirectWindowMs float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEnergyDomain makes the analyzer treat samples as energies.
func WithEnergyDomain() Option {
	return func(a *Analyzer) {
		a.Domain = DomainEnergy
	}
}

// WithDirectWindow sets the direct sound window used by DRR in ms.
func WithDirectWindow(ms float64) Option {
	return func(a *Analyzer) {
		if ms >= 0 {
			a.DirectWindowMs = ms
		}
	}
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64, opts ...Option) *Analyzer {
	a := &Analyzer{SampleRate: sampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Analyze computes all IR metrics from an impulse response.
// Time-based metrics are measured from the energy peak onwards.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.check(ir); err != nil {
		return Metrics{}, err
	}

	energy := a.energy(ir)
	peakIdx, _ := core.ArgMax(energy)
	fromPeak := energy[peakIdx:]
	schroeder := schroederIntegral(fromPeak)

	m := Metrics{
		PeakIndex:  peakIdx,
		DRR:        a.drr(energy, peakIdx),
		CenterTime: a.centerTime(fromPeak),
		D50:        a.definition(fromPeak, 50),
		D80:        a.definition(fromPeak, 80),
		C50:        a.clarity(fromPeak, 50),
		C80:        a.clarity(fromPeak, 80),
		EDT:        a.reverbTime(schroeder, 0, -10),
		T20:        a.reverbTime(schroeder, -5, -25),
		T30:        a.reverbTime(schroeder, -5, -35),
	}

	// T30 is more robust; use T20 when the decay range is too short.
	if m.T30 > 0 {
		m.RT60 = m.T30
	} else {
		m.RT60 = m.T20
	}

	return m, nil
}

// SchroederIntegral computes the Schroeder backward integration of the IR
// energy, returned in dB relative to the total energy:
//
//	S(t) = 10*log10( ∫_t^∞ e(τ) dτ / ∫_0^∞ e(τ) dτ )
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return schroederIntegral(a.energy(ir)), nil
}

// RT60 computes the reverberation time in seconds from T30, falling back
// to T20.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	schroeder := schroederIntegral(a.energy(ir))

	if rt := a.reverbTime(schroeder, -5, -35); rt > 0 {
		return rt, nil
	}

	if rt := a.reverbTime(schroeder, -5, -25); rt > 0 {
		return rt, nil
	}

	return 0, ErrNoDecay
}

// EDT computes the early decay time in seconds.
func (a *Analyzer) EDT(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	edt := a.reverbTime(schroederIntegral(a.energy(ir)), 0, -10)
	if edt <= 0 {
		return 0, ErrNoDecay
	}

	return edt, nil
}

// DRR computes the direct-to-reverberant energy ratio in dB. The direct
// part is everything up to the energy peak plus DirectWindowMs.
func (a *Analyzer) DRR(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	energy := a.energy(ir)
	peakIdx, _ := core.ArgMax(energy)

	drr := a.drr(energy, peakIdx)
	if math.IsInf(drr, 1) {
		return 0, ErrNoReverb
	}

	return drr, nil
}

// Definition computes D(t) at a time boundary in ms, a ratio in [0, 1]:
//
//	D(t) = ∫₀ᵗ e(τ)dτ / ∫₀^∞ e(τ)dτ
func (a *Analyzer) Definition(ir []float64, timeMs float64) (float64, error) {
	if err := a.checkTime(ir, timeMs); err != nil {
		return 0, err
	}

	return a.definition(a.energy(ir), timeMs), nil
}

// Clarity computes C(t) at a time boundary in ms, in dB:
//
//	C(t) = 10*log10( ∫₀ᵗ e(τ)dτ / ∫ₜ^∞ e(τ)dτ )
func (a *Analyzer) Clarity(ir []float64, timeMs float64) (float64, error) {
	if err := a.checkTime(ir, timeMs); err != nil {
		return 0, err
	}

	return a.clarity(a.energy(ir), timeMs), nil
}

// CenterTime computes the temporal energy centroid in seconds.
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	return a.centerTime(a.energy(ir)), nil
}

func (a *Analyzer) check(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	return nil
}

func (a *Analyzer) checkTime(ir []float64, timeMs float64) error {
	if err := a.check(ir); err != nil {
		return err
	}

	if timeMs <= 0 {
		return ErrInvalidTime
	}

	return nil
}

// energy returns the per-sample energy of ir according to the domain.
// Energy-domain input is returned without copying.
func (a *Analyzer) energy(ir []float64) []float64 {
	if a.Domain == DomainEnergy {
		return ir
	}

	out := make([]float64, len(ir))
	vecmath.MulBlock(out, ir, ir)
	return out
}

// schroederIntegral computes the normalized backward integral in dB,
// floored at -200 dB.
func schroederIntegral(energy []float64) []float64 {
	n := len(energy)
	result := make([]float64, n)

	var cumSum float64
	for i := n - 1; i >= 0; i-- {
		cumSum += energy[i]
		result[i] = cumSum
	}

	if n == 0 || result[0] <= 0 {
		return result
	}

	total := result[0]
	for i := range result {
		ratio := result[i] / total
		if ratio <= 0 {
			result[i] = -200
		} else {
			result[i] = core.LinearPowerToDB(ratio)
		}
	}

	return result
}

// reverbTime fits a line to the Schroeder curve between startDB and endDB
// and extrapolates it to -60 dB. Returns 0 when the curve does not cover
// the range or does not decay.
func (a *Analyzer) reverbTime(schroeder []float64, startDB, endDB float64) float64 {
	startIdx, endIdx := -1, -1

	for i, v := range schroeder {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}

		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}

	if startIdx < 0 || endIdx <= startIdx {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64

	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := schroeder[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	nf := float64(endIdx - startIdx + 1)

	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	// dB per sample
	slope := (nf*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	return -60.0 / (slope * a.SampleRate)
}

// drr computes the DRR around peakIdx, +Inf when nothing follows the
// direct window.
func (a *Analyzer) drr(energy []float64, peakIdx int) float64 {
	split := peakIdx + 1 + core.MillisToSamples(a.DirectWindowMs, a.SampleRate)
	if split >= len(energy) {
		return math.Inf(1)
	}

	direct := vecmath.Sum(energy[:split])
	reverb := vecmath.Sum(energy[split:])

	if reverb <= 0 {
		return math.Inf(1)
	}

	if direct <= 0 {
		return math.Inf(-1)
	}

	return core.LinearPowerToDB(direct / reverb)
}

func (a *Analyzer) boundary(timeMs float64) int {
	return int(math.Round(timeMs * 0.001 * a.SampleRate))
}

func (a *Analyzer) definition(energy []float64, timeMs float64) float64 {
	b := a.boundary(timeMs)
	if b <= 0 {
		return 0
	}

	if b >= len(energy) {
		return 1
	}

	total := vecmath.Sum(energy)
	if total <= 0 {
		return 0
	}

	return vecmath.Sum(energy[:b]) / total
}

func (a *Analyzer) clarity(energy []float64, timeMs float64) float64 {
	b := a.boundary(timeMs)
	if b <= 0 {
		return math.Inf(-1)
	}

	if b >= len(energy) {
		return math.Inf(1)
	}

	early := vecmath.Sum(energy[:b])
	late := vecmath.Sum(energy[b:])

	if late <= 0 {
		return math.Inf(1)
	}

	if early <= 0 {
		return math.Inf(-1)
	}

	return core.LinearPowerToDB(early / late)
}

func (a *Analyzer) centerTime(energy []float64) float64 {
	var numerator, denominator float64

	for i, e := range energy {
		numerator += float64(i) / a.SampleRate * e
		denominator += e
	}

	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}
