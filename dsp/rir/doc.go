// Package rir synthesizes stochastic room impulse responses from five
// perceptual parameters instead of a room geometry:
//
//   - RT60: reverberation time (60 dB energy decay) [ms]
//   - EDT: early decay time (first 10 dB of decay) [ms]
//   - ITDG: initial time delay gap between direct sound and first reflection [ms]
//   - ER duration: length of the early reflection zone [ms]
//   - DRR: direct-to-reverberant energy ratio [dB]
//
// Generation runs three stages on one buffer owned by the call:
//
//  1. Noise: uniform white noise in [-5, 5] sized to RT60.
//  2. Envelope: a two-slope decay imposed in the dB domain (-10 dB over the
//     EDT, continuing toward -60 dB at RT60), then converted to energy. The
//     global maximum becomes the direct sound.
//  3. Thinning: silence for the ITDG, then random removal of discrete
//     reflections from the early and late zones until the measured DRR
//     lands within ±0.5 dB of the target.
//
// The returned kernel starts at the direct sound and holds energy-domain
// values. They are not normalized and may exceed 1; scale before integer
// PCM encoding.
//
// # Usage
//
//	spec, err := rir.NewSpec(500, 50, 5, 50, -1)
//	if err != nil {
//		return err
//	}
//	rng := rand.New(rand.NewSource(42))
//	kernel, err := rir.Generate(spec, 16000, rng)
//
// Randomness always comes from the caller's *rand.Rand. A Generator and a
// Spec are read-only and may be shared between goroutines as long as each
// call gets its own random source.
package rir
