// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package detect

import "math"

// DoubleNodDetector recognizes two quick forward nods on the bias-corrected
// gyro_x axis (C8), used to center the cursor (or, per config, double
// click). Like HeadRollDetector, it only runs while cursorFrozen is held
// true; otherwise it clears its spike, suppression and first-nod state,
// keeping only the cooldown timestamp.
type DoubleNodDetector struct {
	threshold   float64
	maxDuration float64
	window      float64
	cooldown    float64

	lastTrigger  float64
	spikeStart   float64
	spiking      bool
	suppressed   bool
	firstNodTime float64
	haveFirstNod bool
}

// NewDoubleNodDetector builds a detector.
func NewDoubleNodDetector(threshold, maxDuration, window, cooldown float64) *DoubleNodDetector {
	return &DoubleNodDetector{
		threshold:   threshold,
		maxDuration: maxDuration,
		window:      window,
		cooldown:    cooldown,
		lastTrigger: -100.0,
	}
}

// Update feeds one bias-corrected gyro_x sample, returning true if a
// double nod completed on this call.
func (d *DoubleNodDetector) Update(gx float64, now float64, cursorFrozen bool) bool {
	if !cursorFrozen {
		d.spiking = false
		d.suppressed = false
		d.haveFirstNod = false
		return false
	}

	above := math.Abs(gx) > d.threshold
	triggered := false

	if above {
		switch {
		case d.suppressed:
		case !d.spiking:
			d.spiking = true
			d.spikeStart = now
		case now-d.spikeStart > d.maxDuration:
			d.spiking = false
			d.suppressed = true
		}
	} else {
		if d.suppressed {
			d.suppressed = false
		} else if d.spiking {
			duration := now - d.spikeStart
			d.spiking = false

			if duration <= d.maxDuration {
				if d.haveFirstNod {
					if now-d.firstNodTime <= d.window && now-d.lastTrigger > d.cooldown {
						d.haveFirstNod = false
						d.lastTrigger = now
						triggered = true
					} else {
						// window expired or still in cooldown: this nod
						// becomes the new first of a fresh pair
						d.firstNodTime = now
					}
				} else {
					d.firstNodTime = now
					d.haveFirstNod = true
				}
			}
		}

		if d.haveFirstNod && now-d.firstNodTime > d.window {
			d.haveFirstNod = false
		}
	}

	return triggered
}

// Reset clears all internal state.
func (d *DoubleNodDetector) Reset() {
	d.lastTrigger = -100.0
	d.spiking = false
	d.suppressed = false
	d.haveFirstNod = false
}
