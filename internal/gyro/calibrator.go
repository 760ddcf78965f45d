// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gyro

import "github.com/relabs-tech/eog-cursor/internal/packet"

// Calibrator collects raw gyro samples while the device is held still and
// computes the mean offset per axis, eliminating the static bias that
// would otherwise show up as cursor drift at rest. It discards an initial
// run of samples (gyro output is noisiest right after power-up) before
// averaging.
type Calibrator struct {
	discard, numSamples int

	seen    int
	sumX    int64
	sumY    int64
	sumZ    int64
	kept    int
	biasX   float64
	biasY   float64
	biasZ   float64
	done    bool
}

// NewCalibrator creates a calibrator that discards the first `discard`
// samples and averages the following `numSamples`.
func NewCalibrator(discard, numSamples int) *Calibrator {
	return &Calibrator{discard: discard, numSamples: numSamples}
}

// Add feeds one stationary sample to the calibrator. It returns true once
// enough samples have been collected and Bias() is ready to read.
func (c *Calibrator) Add(p packet.SensorPacket) bool {
	if c.done {
		return true
	}
	c.seen++
	if c.seen <= c.discard {
		return false
	}
	c.sumX += int64(p.GyroX)
	c.sumY += int64(p.GyroY)
	c.sumZ += int64(p.GyroZ)
	c.kept++
	if c.kept >= c.numSamples {
		n := float64(c.kept)
		c.biasX = float64(c.sumX) / n
		c.biasY = float64(c.sumY) / n
		c.biasZ = float64(c.sumZ) / n
		c.done = true
	}
	return c.done
}

// Done reports whether calibration has finished.
func (c *Calibrator) Done() bool { return c.done }

// RequiredSamples is the total number of ticks (discard + average window)
// the caller must feed before Done() returns true.
func (c *Calibrator) RequiredSamples() int { return c.discard + c.numSamples }

// Bias returns the computed per-axis offsets. Valid only after Done().
func (c *Calibrator) Bias() (x, y, z float64) {
	return c.biasX, c.biasY, c.biasZ
}

// Correct subtracts the calibrated bias from a raw reading, rounding to
// the nearest integer.
func (c *Calibrator) Correct(gx, gy, gz int) (int, int, int) {
	return roundInt(float64(gx) - c.biasX), roundInt(float64(gy) - c.biasY), roundInt(float64(gz) - c.biasZ)
}
