// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package detect

// GazeDirection is a sustained gaze direction classified from an EOG
// channel.
type GazeDirection int

const (
	GazeNone GazeDirection = iota
	LookUp
	LookDown
	LookLeft
	LookRight
)

// VerticalGazeDetector distinguishes sustained up/down gaze from
// blink-scale spikes on the vertical EOG channel (C5).
type VerticalGazeDetector struct {
	upThreshold   float64
	downThreshold float64
	minHold       float64
	blinkCutoff   float64

	current   GazeDirection
	startTime float64
}

// NewVerticalGazeDetector builds a detector. blinkCutoff is the threshold
// above which a signal is blink-scale rather than gaze and resets state.
func NewVerticalGazeDetector(upThreshold, downThreshold, minHold, blinkCutoff float64) *VerticalGazeDetector {
	return &VerticalGazeDetector{
		upThreshold:   upThreshold,
		downThreshold: downThreshold,
		minHold:       minHold,
		blinkCutoff:   blinkCutoff,
	}
}

// Update feeds one filtered eog_v sample, returning LookUp/LookDown once
// the direction has been held continuously for minHold seconds.
func (d *VerticalGazeDetector) Update(eogV float64, now float64) GazeDirection {
	if eogV > d.blinkCutoff {
		d.current = GazeNone
		return GazeNone
	}

	var next GazeDirection
	switch {
	case eogV > d.upThreshold:
		next = LookUp
	case eogV < d.downThreshold:
		next = LookDown
	default:
		d.current = GazeNone
		return GazeNone
	}

	if next != d.current {
		d.current = next
		d.startTime = now
		return GazeNone
	}

	if now-d.startTime >= d.minHold {
		return d.current
	}
	return GazeNone
}

// Reset clears the running direction.
func (d *VerticalGazeDetector) Reset() {
	d.current = GazeNone
}

// HorizontalGazeDetector distinguishes sustained left/right gaze on the
// horizontal EOG channel (C6), and additionally exposes an instantaneous
// cursor-frozen signal that gates the roll and nod detectors.
type HorizontalGazeDetector struct {
	rightThreshold float64
	leftThreshold  float64
	minHold        float64
	cooldown       float64

	current       GazeDirection
	startTime     float64
	lastTrigger   float64
}

// NewHorizontalGazeDetector builds a detector.
func NewHorizontalGazeDetector(rightThreshold, leftThreshold, minHold, cooldown float64) *HorizontalGazeDetector {
	return &HorizontalGazeDetector{
		rightThreshold: rightThreshold,
		leftThreshold:  leftThreshold,
		minHold:        minHold,
		cooldown:       cooldown,
		lastTrigger:    -100.0,
	}
}

// Update feeds one filtered eog_h sample, returning LookLeft/LookRight
// once held for minHold seconds and the post-emission cooldown has
// elapsed. This is the debounced, cooldown-gated emission consumed by the
// fusion dispatcher.
func (d *HorizontalGazeDetector) Update(eogH float64, now float64) GazeDirection {
	var next GazeDirection
	switch {
	case eogH > d.rightThreshold:
		next = LookRight
	case eogH < d.leftThreshold:
		next = LookLeft
	default:
		d.current = GazeNone
		return GazeNone
	}

	if next != d.current {
		d.current = next
		d.startTime = now
		return GazeNone
	}

	if now-d.startTime >= d.minHold && now-d.lastTrigger > d.cooldown {
		d.lastTrigger = now
		return d.current
	}
	return GazeNone
}

// Instantaneous reports the raw (un-debounced) direction from the current
// sample alone, with no hold or cooldown gating. This is the value that
// gates C7/C8's cursor_frozen input — those detectors must not wait for
// the debounced emission, since the user holds their gaze, not a pulse.
func (d *HorizontalGazeDetector) Instantaneous(eogH float64) GazeDirection {
	switch {
	case eogH > d.rightThreshold:
		return LookRight
	case eogH < d.leftThreshold:
		return LookLeft
	default:
		return GazeNone
	}
}

// Reset clears the running direction and cooldown.
func (d *HorizontalGazeDetector) Reset() {
	d.current = GazeNone
	d.lastTrigger = -100.0
}
