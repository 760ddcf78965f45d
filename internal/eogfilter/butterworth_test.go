// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package eogfilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterSeededConstantInputHasNoTransient(t *testing.T) {
	f := New()
	for i := 0; i < 10; i++ {
		out := f.Step(2500.0)
		require.InDelta(t, 2500.0, out, 1e-6)
	}
}

func TestFilterConvergesWithinOneSecond(t *testing.T) {
	f := New()
	var out float64
	for i := 0; i < 200; i++ {
		out = f.Step(3000.0)
	}
	require.InDelta(t, 3000.0, out, 30.0)
}

func TestFilterResetReseeds(t *testing.T) {
	f := New()
	for i := 0; i < 10; i++ {
		f.Step(1000.0)
	}
	f.Reset()
	out := f.Step(500.0)
	require.InDelta(t, 500.0, out, 1e-6)
}

func TestFilterAttenuatesHighFrequencyNoise(t *testing.T) {
	f := New()
	var sum float64
	const n = 400
	for i := 0; i < n; i++ {
		var x float64
		if i%2 == 0 {
			x = 2000
		} else {
			x = 2100
		}
		sum += f.Step(x)
	}
	avg := sum / n
	require.InDelta(t, 2050.0, avg, 5.0)
}
