// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerticalGazeRequiresSustainedHold(t *testing.T) {
	d := NewVerticalGazeDetector(2800, 1200, 0.1, 3000)

	require.Equal(t, GazeNone, d.Update(2900, 0.00)) // direction change, starts timer
	require.Equal(t, GazeNone, d.Update(2900, 0.05)) // held only 50ms
	require.Equal(t, LookUp, d.Update(2900, 0.10))   // held 100ms, sustained
	require.Equal(t, LookUp, d.Update(2900, 0.20))   // keeps emitting while held
}

func TestVerticalGazeIgnoresBlinkScaleSignal(t *testing.T) {
	d := NewVerticalGazeDetector(2800, 1200, 0.1, 3000)
	require.Equal(t, GazeNone, d.Update(3500, 0.0)) // above blink cutoff, not gaze
}

func TestVerticalGazeLookDown(t *testing.T) {
	d := NewVerticalGazeDetector(2800, 1200, 0.1, 3000)
	d.Update(1000, 0.00)
	require.Equal(t, LookDown, d.Update(1000, 0.10))
}

func TestHorizontalGazeDebouncedWithCooldown(t *testing.T) {
	d := NewHorizontalGazeDetector(2800, 1200, 0.15, 1.0)

	d.Update(2900, 0.00)
	require.Equal(t, GazeNone, d.Update(2900, 0.10)) // held 100ms, below 150ms min
	require.Equal(t, LookRight, d.Update(2900, 0.16))
	// still held, but within the 1.0s post-emission cooldown
	require.Equal(t, GazeNone, d.Update(2900, 0.30))
}

func TestHorizontalGazeInstantaneousIgnoresHoldAndCooldown(t *testing.T) {
	d := NewHorizontalGazeDetector(2800, 1200, 0.15, 1.0)
	// instantaneous reads the level on the very first sample, no debounce
	require.Equal(t, LookLeft, d.Instantaneous(1000))
	require.Equal(t, GazeNone, d.Instantaneous(2048))
	require.Equal(t, LookRight, d.Instantaneous(2900))
}
