// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultBlinkParams() BlinkParams {
	return BlinkParams{
		Threshold:       3000,
		MinDuration:     0.05,
		MaxDuration:     0.25,
		DoubleWindow:    0.6,
		DoubleCooldown:  0.8,
		TripleWindow:    0.6,
		TripleCooldown:  1.0,
		LongMinDuration: 0.4,
		LongMaxDuration: 2.5,
		LongCooldown:    1.0,
	}
}

// driveDoubleBlink feeds a minimal-duration double-blink gesture starting
// at t0, returning the detector's final event.
func driveDoubleBlink(d *BlinkDetector, t0 float64) BlinkEvent {
	d.Update(3500, t0+0.00)
	d.Update(500, t0+0.06)
	d.Update(3500, t0+0.12)
	d.Update(500, t0+0.18)
	return d.Update(500, t0+0.80)
}

func TestSingleBlinkIsIgnored(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)   // rises
	d.Update(500, 0.10)   // falls after 100ms: normal blink, waits for second
	ev := d.Update(500, 0.80) // window (0.6s) has elapsed with no second blink

	require.Equal(t, BlinkNone, ev)
}

func TestDoubleBlinkTriggersLeftClick(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.00)
	d.Update(500, 0.10) // first blink ends at t=0.10, WaitSecond
	d.Update(3500, 0.30) // second blink starts within 0.6s window
	d.Update(500, 0.40) // second blink ends, WaitThird
	ev := d.Update(500, 1.10) // triple window (0.6s) elapsed from t=0.40 -> double blink

	require.Equal(t, DoubleBlink, ev)
}

func TestTripleBlinkOverridesDouble(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.00)
	d.Update(500, 0.10)  // first blink ends
	d.Update(3500, 0.30) // second blink starts
	d.Update(500, 0.40)  // second blink ends, WaitThird
	d.Update(3500, 0.50) // third blink starts within window
	ev := d.Update(500, 0.60) // third blink ends after MinDuration

	require.Equal(t, TripleBlink, ev)
}

func TestLongBlinkTriggersRightClick(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)
	ev := d.Update(500, 0.50) // held 0.5s, within [0.4, 2.5]

	require.Equal(t, LongBlink, ev)
}

func TestLongBlinkTooLongIsDiscarded(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)
	ev := d.Update(500, 3.0) // held far past LongMaxDuration

	require.Equal(t, BlinkNone, ev)
}

func TestBlinkBelowMinDurationIsNoise(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)
	ev := d.Update(500, 0.02) // held only 20ms, below MinDuration

	require.Equal(t, BlinkNone, ev)
}

func TestDoubleBlinkCooldownBlocksImmediateRetrigger(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	require.Equal(t, DoubleBlink, driveDoubleBlink(d, 0))
	// second gesture's completion lands exactly at the 0.8s cooldown
	// boundary since the prior trigger: blocked (strictly "greater than").
	require.Equal(t, BlinkNone, driveDoubleBlink(d, 0.80))
}

func TestBlinkExactlyAtMinDurationIsRecognized(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	// first blink held for exactly MinDuration (0.05): "< MinDuration" is
	// the discard test, so the boundary itself must count as a real blink
	// and pair up with the second one into a double blink.
	d.Update(3500, 0.00)
	d.Update(500, 0.05)  // duration == MinDuration exactly
	d.Update(3500, 0.30) // second blink starts within the double window
	d.Update(500, 0.40)  // second blink ends, WaitThird
	ev := d.Update(500, 1.10) // triple window elapsed -> double blink

	require.Equal(t, DoubleBlink, ev)
}

func TestLongBlinkExactlyAtLongMinDurationTriggers(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)
	ev := d.Update(500, 0.40) // duration == LongMinDuration exactly

	require.Equal(t, LongBlink, ev)
}

func TestLongBlinkExactlyAtLongMaxDurationTriggers(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)
	ev := d.Update(500, 2.5) // duration == LongMaxDuration exactly

	require.Equal(t, LongBlink, ev)
}

func TestLongBlinkJustOverLongMaxDurationIsDiscarded(t *testing.T) {
	d := NewBlinkDetector(defaultBlinkParams())

	d.Update(3500, 0.0)
	ev := d.Update(500, 2.51) // duration == LongMaxDuration + epsilon

	require.Equal(t, BlinkNone, ev)
}
