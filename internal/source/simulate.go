// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package source

import (
	"math"
	"time"

	"github.com/relabs-tech/eog-cursor/internal/packet"
)

// SimulateSource is a free-running synthetic packet generator: no serial
// port or file required. It cycles through a fixed script exercising each
// gesture once (idle, blink, double blink, long blink, vertical gaze,
// horizontal gaze, head-roll flick, double nod, head motion) so the full
// pipeline can be driven without hardware.
type SimulateSource struct {
	start    time.Time
	rate     int
	baseline int
	tick     int64
}

// NewSimulateSource creates a simulated source ticking at rate Hz with the
// given EOG baseline (quiescent ADC value for both channels).
func NewSimulateSource(rate, baseline int) *SimulateSource {
	return &SimulateSource{start: time.Now(), rate: rate, baseline: baseline}
}

// script entries: [startSec, endSec) -> generator.
type scriptEntry struct {
	start, end float64
	gen        func(t float64, baseline int) (eogV, eogH, gx, gy, gz int)
}

func idleGen(t float64, baseline int) (int, int, int, int, int) {
	return baseline, baseline, 0, 0, 0
}

// blinkGen produces a single blink pulse lasting ~0.15s near the start of
// its window.
func blinkGen(t float64, baseline int) (int, int, int, int, int) {
	v := baseline
	if t > 0.05 && t < 0.20 {
		v = 3500
	}
	return v, baseline, 0, 0, 0
}

func doubleBlinkGen(t float64, baseline int) (int, int, int, int, int) {
	v := baseline
	if (t > 0.05 && t < 0.18) || (t > 0.40 && t < 0.53) {
		v = 3500
	}
	return v, baseline, 0, 0, 0
}

func longBlinkGen(t float64, baseline int) (int, int, int, int, int) {
	v := baseline
	if t > 0.1 && t < 1.0 {
		v = 3500
	}
	return v, baseline, 0, 0, 0
}

func verticalGazeGen(t float64, baseline int) (int, int, int, int, int) {
	v := baseline
	if t > 0.2 && t < 1.0 {
		v = 2850
	}
	return v, baseline, 0, 0, 0
}

func horizontalGazeGen(t float64, baseline int) (int, int, int, int, int) {
	h := baseline
	if t > 0.2 && t < 1.0 {
		h = 2850
	}
	return baseline, h, 0, 0, 0
}

func headRollGen(t float64, baseline int) (int, int, int, int, int) {
	gz := 0
	if t > 0.1 && t < 0.25 {
		gz = 3500
	}
	return baseline, baseline, 0, 0, gz
}

func doubleNodGen(t float64, baseline int) (int, int, int, int, int) {
	gx := 0
	if (t > 0.1 && t < 0.22) || (t > 0.4 && t < 0.52) {
		gx = 3500
	}
	return baseline, baseline, gx, 0, 0
}

func headMotionGen(t float64, baseline int) (int, int, int, int, int) {
	gy := int(1200 * math.Sin(t*2*math.Pi*0.5))
	gx := int(800 * math.Cos(t*2*math.Pi*0.3))
	return baseline, baseline, gx, gy, 0
}

var script = []scriptEntry{
	{0, 2, idleGen},
	{2, 4, blinkGen},
	{4, 5, idleGen},
	{5, 7, doubleBlinkGen},
	{7, 8, idleGen},
	{8, 11, longBlinkGen},
	{11, 12, idleGen},
	{12, 14, verticalGazeGen},
	{14, 15, idleGen},
	{15, 17, horizontalGazeGen},
	{17, 18, idleGen},
	{18, 19, headRollGen},
	{19, 20, idleGen},
	{20, 21, doubleNodGen},
	{21, 22, idleGen},
	{22, 26, headMotionGen},
}

const scriptPeriod = 26.0

// Next synthesizes the next packet from wall-clock elapsed time, looping
// the script indefinitely.
func (s *SimulateSource) Next() (packet.SensorPacket, error) {
	dt := time.Second / time.Duration(s.rate)
	target := s.start.Add(time.Duration(s.tick) * dt)
	if wait := time.Until(target); wait > 0 {
		time.Sleep(wait)
	}

	elapsed := time.Since(s.start).Seconds()
	cyclePos := math.Mod(elapsed, scriptPeriod)

	gen := idleGen
	localT := cyclePos
	for _, entry := range script {
		if cyclePos >= entry.start && cyclePos < entry.end {
			gen = entry.gen
			localT = cyclePos - entry.start
			break
		}
	}

	v, h, gx, gy, gz := gen(localT, s.baseline)

	p := packet.SensorPacket{
		DeviceMS: int64(elapsed * 1000),
		EOGV:     v,
		EOGH:     h,
		GyroX:    gx,
		GyroY:    gy,
		GyroZ:    gz,
		HostTime: float64(time.Now().UnixNano()) / 1e9,
	}
	s.tick++
	return p, nil
}

// Close is a no-op: SimulateSource holds no OS resources.
func (s *SimulateSource) Close() error { return nil }
