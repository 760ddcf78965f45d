// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build !windows

package actuator

// NewDefault returns the best actuator available on this platform. Host
// input injection (actuator_windows.go) only exists for Windows; every
// other platform falls back to NoopActuator, leaving cmd/eogcursor
// runnable (e.g. against --replay or --simulate) without a display.
func NewDefault() Actuator {
	return NoopActuator{}
}
