// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package detect implements the gesture recognizers that sit between the
// filtered sensor streams and the fusion dispatcher (C4-C8): blink
// patterns, sustained gaze, head-roll flicks, and double nods. Every
// detector takes its timestamp as an explicit argument rather than
// reading the system clock, so the whole pipeline can be replayed
// deterministically from a recording.
package detect

// BlinkState is one state of the blink pattern state machine.
type BlinkState int

const (
	BlinkIdle BlinkState = iota
	BlinkInBlink
	BlinkWaitSecond
	BlinkWaitThird
)

// BlinkEvent is a pattern recognized by the blink detector.
type BlinkEvent int

const (
	BlinkNone BlinkEvent = iota
	DoubleBlink
	TripleBlink
	LongBlink
)

// BlinkParams configures the blink state machine's thresholds, windows,
// and cooldowns.
type BlinkParams struct {
	Threshold       float64
	MinDuration     float64
	MaxDuration     float64
	DoubleWindow    float64
	DoubleCooldown  float64
	TripleWindow    float64
	TripleCooldown  float64
	LongMinDuration float64
	LongMaxDuration float64
	LongCooldown    float64
}

// BlinkDetector recognizes double blink (left click), triple blink
// (double click), and long blink (right click) patterns on the filtered
// vertical EOG channel.
type BlinkDetector struct {
	params BlinkParams

	state         BlinkState
	blinkStart    float64
	blinkEnd      float64
	blinkCount    int
	lastEventTime float64
}

// NewBlinkDetector creates a detector in the Idle state. lastEventTime
// starts far in the past so the first pattern is never blocked by a
// cooldown.
func NewBlinkDetector(p BlinkParams) *BlinkDetector {
	return &BlinkDetector{params: p, state: BlinkIdle, lastEventTime: -100.0}
}

// Update feeds one filtered eog_v sample and the current time, returning
// any pattern recognized on this call.
func (d *BlinkDetector) Update(eogV float64, now float64) BlinkEvent {
	p := d.params
	isHigh := eogV > p.Threshold

	switch d.state {
	case BlinkIdle:
		if isHigh {
			d.state = BlinkInBlink
			d.blinkStart = now
			d.blinkCount = 1
		}

	case BlinkInBlink:
		if isHigh {
			return BlinkNone
		}
		duration := now - d.blinkStart

		switch {
		case duration < p.MinDuration:
			d.state = BlinkIdle

		case d.blinkCount >= 3:
			d.state = BlinkIdle
			if duration <= p.MaxDuration && now-d.lastEventTime > p.TripleCooldown {
				d.lastEventTime = now
				return TripleBlink
			}

		case d.blinkCount >= 2:
			if duration <= p.MaxDuration {
				d.blinkEnd = now
				d.state = BlinkWaitThird
			} else {
				d.state = BlinkIdle
			}

		case duration >= p.LongMinDuration:
			d.state = BlinkIdle
			if duration <= p.LongMaxDuration && now-d.lastEventTime > p.LongCooldown {
				d.lastEventTime = now
				return LongBlink
			}

		case duration <= p.MaxDuration:
			d.blinkEnd = now
			d.state = BlinkWaitSecond

		default:
			// ambiguous gap between a normal blink and a long blink: discard
			d.state = BlinkIdle
		}

	case BlinkWaitSecond:
		elapsed := now - d.blinkEnd
		if isHigh && elapsed < p.DoubleWindow {
			d.state = BlinkInBlink
			d.blinkStart = now
			d.blinkCount = 2
		} else if elapsed >= p.DoubleWindow {
			d.state = BlinkIdle
		}

	case BlinkWaitThird:
		elapsed := now - d.blinkEnd
		if isHigh && elapsed < p.TripleWindow {
			d.state = BlinkInBlink
			d.blinkStart = now
			d.blinkCount = 3
		} else if elapsed >= p.TripleWindow {
			d.state = BlinkIdle
			if now-d.lastEventTime > p.DoubleCooldown {
				d.lastEventTime = now
				return DoubleBlink
			}
		}
	}

	return BlinkNone
}

// Reset returns the detector to Idle, as at construction.
func (d *BlinkDetector) Reset() {
	d.state = BlinkIdle
	d.blinkCount = 0
	d.lastEventTime = -100.0
}
