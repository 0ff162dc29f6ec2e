// Package core holds the small numeric and configuration helpers shared by
// the generator, analysis and convolution packages: processor options,
// decibel conversions, millisecond-to-sample rounding and buffer utilities.
package core
