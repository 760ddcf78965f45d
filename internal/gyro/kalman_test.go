// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gyro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Constant raw input after a seeded bias should converge: the filter
// should settle near omega=0 with bias tracking the constant offset.
func TestKalmanFilterConvergesOnConstantOffset(t *testing.T) {
	k := NewKalmanFilter(1000.0, 0.001, 500.0)
	k.SetInitialBias(0)

	var omega float64
	for i := 0; i < 2000; i++ {
		omega = k.Update(300)
	}

	require.InDelta(t, 0.0, omega, 30.0)
	require.InDelta(t, 300.0, k.Bias(), 30.0)
}

func TestKalmanFilterTracksStepChangeInAngularVelocity(t *testing.T) {
	k := NewKalmanFilter(1000.0, 0.001, 500.0)

	// settle at rest first
	for i := 0; i < 500; i++ {
		k.Update(0)
	}

	var omega float64
	for i := 0; i < 10; i++ {
		omega = k.Update(2000)
	}

	require.Greater(t, omega, 1000.0)
}

func TestThreeAxisKalmanIndependentAxes(t *testing.T) {
	tk := NewThreeAxisKalman(1000.0, 0.001, 500.0)
	tk.SetInitialBias(10, -20, 5)

	var gx, gy, gz int
	for i := 0; i < 1000; i++ {
		gx, gy, gz = tk.Update(10, -20, 5)
	}

	require.InDelta(t, 0, gx, 5)
	require.InDelta(t, 0, gy, 5)
	require.InDelta(t, 0, gz, 5)
}
