// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cursor turns bias-corrected gyro angular velocity into pixel
// displacement. Two interchangeable strategies satisfy the Integrator
// interface: a direct proportional mapping and a state-space model with
// inertia.
package cursor

import "math"

// Move is a pixel displacement to apply on one tick. Zero-zero means "do
// not move the cursor this tick" (the actuator should skip the call
// rather than issue a no-op move).
type Move struct {
	DX float64
	DY float64
}

// Integrator maps bias-corrected gyro X/Y angular velocity to cursor
// displacement. anyAction suppresses motion: the caller is mid-gesture
// (gaze held, or within the post-roll/post-nod grace window) and cursor
// movement must not compete with that gesture.
type Integrator interface {
	Step(gx, gy float64, anyAction bool) Move
	Reset()
}

// Proportional maps gyro angular velocity directly to pixel displacement
// with no inertia: dx/dy track gx/gy sample-by-sample once each clears
// the deadzone.
type Proportional struct {
	sensitivity float64
	deadzone    float64
}

// NewProportional builds a direct-mapping integrator.
func NewProportional(sensitivity, deadzone float64) *Proportional {
	return &Proportional{sensitivity: sensitivity, deadzone: deadzone}
}

// Step computes one tick's displacement. Head tilt down (gx > 0) moves
// the cursor down; head turn right (gy > 0) moves it right.
func (p *Proportional) Step(gx, gy float64, anyAction bool) Move {
	if anyAction {
		return Move{}
	}

	var m Move
	if math.Abs(gy) > p.deadzone {
		m.DX = gy * p.sensitivity
	}
	if math.Abs(gx) > p.deadzone {
		m.DY = gx * p.sensitivity
	}
	return m
}

// Reset is a no-op: Proportional carries no state across ticks.
func (p *Proportional) Reset() {}

// StateSpace drives cursor motion through a small linear system with
// velocity retention, so the cursor keeps gliding for a moment after
// head motion stops.
//
// State vector: [posX, velX, posY, velY]. Position is flushed to zero
// after every step (only the per-tick delta is reported); velocity is
// retained, decaying geometrically by velocityRetain each tick absent
// new input.
type StateSpace struct {
	velocityRetain float64
	sensitivity    float64
	dt             float64
	deadzone       float64

	posX, velX float64
	posY, velY float64
}

// NewStateSpace builds a state-space integrator. dt is the sample
// period in seconds (1/sampleRateHz).
func NewStateSpace(velocityRetain, sensitivity, dt, deadzone float64) *StateSpace {
	return &StateSpace{
		velocityRetain: velocityRetain,
		sensitivity:    sensitivity,
		dt:             dt,
		deadzone:       deadzone,
	}
}

// Step advances the state-space model by one tick and returns the
// resulting pixel displacement.
func (s *StateSpace) Step(gx, gy float64, anyAction bool) Move {
	var ux, uy float64

	if anyAction {
		// Freeze immediately: zero velocity so residual motion does not
		// bleed into the next gesture.
		s.velX = 0
		s.velY = 0
	} else {
		if math.Abs(gy) > s.deadzone {
			ux = gy
		}
		if math.Abs(gx) > s.deadzone {
			uy = gx
		}
	}

	newPosX := s.posX + s.dt*s.velX
	newVelX := s.velocityRetain*s.velX + s.sensitivity*ux
	newPosY := s.posY + s.dt*s.velY
	newVelY := s.velocityRetain*s.velY + s.sensitivity*uy

	s.velX = newVelX
	s.velY = newVelY

	dx := newPosX
	dy := newPosY

	// Position accumulator is consumed every tick; only velocity
	// persists.
	s.posX = 0
	s.posY = 0

	if math.Abs(dx) <= 0.1 && math.Abs(dy) <= 0.1 {
		return Move{}
	}
	return Move{DX: dx, DY: dy}
}

// Reset clears position and velocity state.
func (s *StateSpace) Reset() {
	s.posX, s.velX = 0, 0
	s.posY, s.velY = 0, 0
}
