// Package conv convolves signals with impulse responses.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain convolution, best for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels such as
//     synthesized room impulse responses
//
// Convolve picks between them by kernel length. Reverb wraps an overlap-add
// convolver with a dry/wet mix for auralizing a dry recording.
//
// # Usage
//
//	wet, err := conv.Convolve(dry, kernel)
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	oa, err := conv.NewOverlapAdd(kernel, 0)
//	wet, err := oa.Process(dry)
package conv
