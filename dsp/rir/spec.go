package rir

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by the generator.
var (
	ErrConfiguration     = errors.New("rir: invalid configuration")
	ErrInvalidSampleRate = errors.New("rir: sample rate must be positive")
	ErrNilRand           = errors.New("rir: random source is nil")
)

// Spec is an immutable set of perceptual room parameters.
// Construct it with NewSpec; the zero value is not a valid Spec.
type Spec struct {
	rt60Ms       float64
	edtMs        float64
	itdgMs       float64
	erDurationMs float64
	drrDB        float64
}

// NewSpec validates and returns a Spec. It fails with ErrConfiguration if
// rt60Ms does not exceed edtMs, if rt60Ms is not positive, or if any
// parameter is NaN or infinite.
func NewSpec(rt60Ms, edtMs, itdgMs, erDurationMs, drrDB float64) (Spec, error) {
	s := Spec{
		rt60Ms:       rt60Ms,
		edtMs:        edtMs,
		itdgMs:       itdgMs,
		erDurationMs: erDurationMs,
		drrDB:        drrDB,
	}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// MustSpec is like NewSpec but panics on error. Intended for tests and
// package-level presets.
func MustSpec(rt60Ms, edtMs, itdgMs, erDurationMs, drrDB float64) Spec {
	s, err := NewSpec(rt60Ms, edtMs, itdgMs, erDurationMs, drrDB)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate reports whether s satisfies the Spec invariants.
func (s Spec) Validate() error {
	params := []struct {
		name string
		v    float64
	}{
		{"rt60", s.rt60Ms},
		{"edt", s.edtMs},
		{"itdg", s.itdgMs},
		{"er_duration", s.erDurationMs},
		{"drr", s.drrDB},
	}
	for _, p := range params {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrConfiguration, p.name, p.v)
		}
	}

	if s.rt60Ms <= 0 {
		return fmt.Errorf("%w: rt60 must be positive, got %g ms", ErrConfiguration, s.rt60Ms)
	}

	if s.rt60Ms <= s.edtMs {
		return fmt.Errorf("%w: reverb time rt60 (%g ms) must exceed early decay time edt (%g ms)",
			ErrConfiguration, s.rt60Ms, s.edtMs)
	}

	return nil
}

// RT60 returns the reverberation time in milliseconds.
func (s Spec) RT60() float64 { return s.rt60Ms }

// EDT returns the early decay time in milliseconds.
func (s Spec) EDT() float64 { return s.edtMs }

// ITDG returns the initial time delay gap in milliseconds.
func (s Spec) ITDG() float64 { return s.itdgMs }

// ERDuration returns the early reflection zone duration in milliseconds.
func (s Spec) ERDuration() float64 { return s.erDurationMs }

// DRR returns the target direct-to-reverberant ratio in dB.
func (s Spec) DRR() float64 { return s.drrDB }

// WithDRR returns a copy of s with a different DRR target.
func (s Spec) WithDRR(drrDB float64) (Spec, error) {
	return NewSpec(s.rt60Ms, s.edtMs, s.itdgMs, s.erDurationMs, drrDB)
}

// String formats the spec for logs and reports.
func (s Spec) String() string {
	return fmt.Sprintf("rt60=%gms edt=%gms itdg=%gms er=%gms drr=%.2fdB",
		s.rt60Ms, s.edtMs, s.itdgMs, s.erDurationMs, s.drrDB)
}
