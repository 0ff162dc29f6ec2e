// Package ir measures room acoustic parameters of impulse responses.
//
// The metrics follow ISO 3382 and are derived from the Schroeder backward
// integration of the IR energy:
//
//   - EDT: Early Decay Time (extrapolated from 0 to -10 dB)
//   - T20, T30: reverberation time from -5 to -25 dB and -5 to -35 dB
//   - RT60: T30, falling back to T20
//   - DRR: direct-to-reverberant energy ratio around the peak
//   - C50, C80: clarity (early-to-late energy ratio at 50ms and 80ms)
//   - D50, D80: definition (early energy fraction at 50ms and 80ms)
//   - Center Time: temporal energy centroid
//
// Recorded responses are amplitudes and are squared before integration.
// Kernels produced by the rir package already hold energies; analyze them
// with WithEnergyDomain so they are not squared a second time.
//
// # Usage
//
//	analyzer := ir.NewAnalyzer(48000, ir.WithEnergyDomain())
//	metrics, err := analyzer.Analyze(kernel)
//	fmt.Printf("RT60 = %.2f s, DRR = %.1f dB\n", metrics.RT60, metrics.DRR)
package ir
