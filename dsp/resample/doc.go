// Package resample converts finished buffers such as impulse responses
// between sample rates with a windowed-sinc polyphase FIR.
//
// Conversion is one-shot and compensates the filter delay, so the onset
// of an impulse response stays at sample 0.
//
// Quality modes:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
