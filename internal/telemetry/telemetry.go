// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry provides write-only diagnostic fan-out for the
// control loop: an MQTT publisher for headless logging and a websocket
// hub for live inspection in a browser. Neither ever feeds data back
// into the detection pipeline; a broker or browser outage must never
// affect cursor control.
package telemetry

import "time"

// Sample is one tick's worth of diagnostic state, published to MQTT and
// broadcast to websocket viewers.
type Sample struct {
	Time   string  `json:"time"`
	EOGV   int     `json:"eog_v"`
	EOGH   int     `json:"eog_h"`
	GX     int     `json:"gx"`
	GY     int     `json:"gy"`
	GZ     int     `json:"gz"`
	Action string  `json:"action,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
}

// NewSample stamps a Sample with the current wall-clock time in
// RFC3339 form, matching the timestamp format used throughout the
// reference telemetry payloads.
func NewSample(eogV, eogH, gx, gy, gz int) Sample {
	return Sample{
		Time: time.Now().Format(time.RFC3339Nano),
		EOGV: eogV,
		EOGH: eogH,
		GX:   gx,
		GY:   gy,
		GZ:   gz,
	}
}
