// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package eogfilter removes high-frequency noise (EMG artifact, power-line
// hum) from the raw EOG channels while preserving the DC baseline the
// detectors threshold against (C3): a 4th-order Butterworth low-pass,
// realized as two cascaded second-order sections (SOS) for numerical
// stability, one instance per channel.
package eogfilter

// section holds one biquad's coefficients (a0 is always 1, so it is
// omitted) and its running state in transposed direct-form II.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (s *section) step(x float64) float64 {
	y := s.b0*x + s.z1
	s.z1 = s.b1*x - s.a1*y + s.z2
	s.z2 = s.b2*x - s.a2*y
	return y
}

// sectionCoeffs are the SOS coefficients for a 4th-order Butterworth
// low-pass at cutoff=30Hz, fs=200Hz, derived via the standard analog
// prototype + bilinear transform (the same design scipy.signal.butter
// performs internally); a Butterworth design has no free parameters once
// order/cutoff/fs are fixed, so these are constants rather than something
// recomputed per instance.
var sectionCoeffs = [2][5]float64{
	{0.01856301062689717, 0.03712602125379434, 0.01856301062689717, -0.8976579400366446, 0.5271869046315972},
	{1.0, 2.0, 1.0, -0.6727409111915273, 0.14453519983312102},
}

// ziTemplate is the steady-state filter state for a unit (1.0) constant
// input, per section. Scaling this by the first real sample and using it
// as the initial state (instead of starting from zero) eliminates the
// filter's startup transient.
var ziTemplate = [2][2]float64{
	{0.09938556153350125, -0.04361793203605986},
	{0.8820514278396017, -0.026586627672722605},
}

// Filter is a per-channel 4th-order Butterworth low-pass. Build it with
// New: the zero value has no coefficients and outputs 0. The first call
// to Step seeds internal state from the first sample to avoid a startup
// transient.
type Filter struct {
	sections [2]section
	seeded   bool
}

// New constructs a filter with its sections' coefficients set; state is
// seeded lazily on the first Step call.
func New() *Filter {
	f := &Filter{}
	for i := range f.sections {
		c := sectionCoeffs[i]
		f.sections[i] = section{b0: c[0], b1: c[1], b2: c[2], a1: c[3], a2: c[4]}
	}
	return f
}

// Step filters one sample and returns the filtered value, maintaining
// internal state across calls.
func (f *Filter) Step(x float64) float64 {
	if !f.seeded {
		for i := range f.sections {
			f.sections[i].z1 = ziTemplate[i][0] * x
			f.sections[i].z2 = ziTemplate[i][1] * x
		}
		f.seeded = true
	}

	v := x
	for i := range f.sections {
		v = f.sections[i].step(v)
	}
	return v
}

// Reset clears internal state; the next Step call reseeds from that
// sample as if the filter were newly constructed.
func (f *Filter) Reset() {
	for i := range f.sections {
		f.sections[i].z1 = 0
		f.sections[i].z2 = 0
	}
	f.seeded = false
}
