// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package fusion owns every per-sample cooldown and the dispatch order
// that turns detector output into actuator calls. It is the single
// place where gaze, blink, roll, and nod events compete for the same
// tick and where cursor movement is suppressed while any of them fires.
package fusion

import (
	"log"
	"math"

	"github.com/relabs-tech/eog-cursor/internal/actuator"
	"github.com/relabs-tech/eog-cursor/internal/config"
	"github.com/relabs-tech/eog-cursor/internal/cursor"
	"github.com/relabs-tech/eog-cursor/internal/detect"
)

// Dispatcher is the per-sample orchestrator. One is built per session;
// it owns the detector state machines, the cursor integrator, and every
// cross-gesture cooldown.
type Dispatcher struct {
	cfg *config.Config
	act actuator.Actuator

	integrator cursor.Integrator

	blink      *detect.BlinkDetector
	vertical   *detect.VerticalGazeDetector
	horizontal *detect.HorizontalGazeDetector
	roll       *detect.HeadRollDetector
	nod        *detect.DoubleNodDetector

	lastScroll     float64
	lastNav        float64
	lastAction     float64 // grace window start: set by head-roll and double-nod actions only; blink, scroll and nav actions do not set it
	verbose        bool
}

// New builds a dispatcher. integrator selects the cursor-motion strategy
// (Proportional for threshold mode, StateSpace for inertial mode).
func New(cfg *config.Config, act actuator.Actuator, integrator cursor.Integrator) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		act:        act,
		integrator: integrator,

		blink: detect.NewBlinkDetector(detect.BlinkParams{
			Threshold:       cfg.BlinkThreshold,
			MinDuration:     cfg.BlinkMinDuration,
			MaxDuration:     cfg.BlinkMaxDuration,
			DoubleWindow:    cfg.DoubleBlinkWindow,
			DoubleCooldown:  cfg.DoubleBlinkCooldown,
			TripleWindow:    cfg.TripleBlinkWindow,
			TripleCooldown:  cfg.TripleBlinkCooldown,
			LongMinDuration: cfg.LongBlinkMinDur,
			LongMaxDuration: cfg.LongBlinkMaxDur,
			LongCooldown:    cfg.LongBlinkCooldown,
		}),
		vertical: detect.NewVerticalGazeDetector(
			cfg.LookUpThreshold, cfg.LookDownThreshold, cfg.VerticalGazeMinHold, cfg.BlinkThreshold,
		),
		horizontal: detect.NewHorizontalGazeDetector(
			cfg.LookRightThreshold, cfg.LookLeftThreshold, cfg.HorizontalGazeMinHold, cfg.HorizontalGazeCooldown,
		),
		roll: detect.NewHeadRollDetector(cfg.HeadRollThreshold, cfg.HeadRollMaxDur, cfg.HeadRollCooldown),
		nod:  detect.NewDoubleNodDetector(cfg.DoubleNodThreshold, cfg.DoubleNodMaxDur, cfg.DoubleNodWindow, cfg.DoubleNodCooldown),

		lastScroll: -100.0,
		lastNav:    -100.0,
		lastAction: -100.0,
	}
}

// SetVerbose enables per-action logging.
func (d *Dispatcher) SetVerbose(v bool) { d.verbose = v }

// Update processes one filtered EOG sample and one bias-corrected,
// Kalman-tracked gyro sample, dispatching at most the actions that
// legitimately co-occur on a single tick.
//
// Dispatch order, each stage independent of the others except through
// the shared cursor_frozen/any_action gates computed up front:
//  1. cursor movement (suppressed during any other action)
//  2. blink events (double → left click, long → right click, triple → double click)
//  3. scroll fusion (vertical gaze + gx)
//  4. window switch (head roll, only while cursor frozen)
//  5. double click / center cursor (double nod, only while cursor frozen)
//  6. browser back/forward (horizontal gaze + gy)
func (d *Dispatcher) Update(eogV, eogH float64, gx, gy, gz float64, now float64, cursorFrozenOverride bool) {
	gazeVertical := eogV > d.cfg.LookUpThreshold || eogV < d.cfg.LookDownThreshold
	gazeHorizontalRaw := eogH > d.cfg.LookRightThreshold || eogH < d.cfg.LookLeftThreshold
	cursorFrozen := gazeHorizontalRaw || cursorFrozenOverride

	anyAction := gazeVertical || cursorFrozen ||
		now-d.lastAction < d.cfg.PostActionGraceDur

	// --- 1. cursor movement ---
	m := d.integrator.Step(gx, gy, anyAction)
	if m.DX != 0 || m.DY != 0 {
		d.act.MoveRelative(m.DX, m.DY)
	}

	// --- 2. blink events ---
	switch d.blink.Update(eogV, now) {
	case detect.DoubleBlink:
		d.act.LeftClick()
		d.logf("double blink -> left click")
	case detect.LongBlink:
		d.act.RightClick()
		d.logf("long blink -> right click")
	case detect.TripleBlink:
		d.act.DoubleClick()
		d.logf("triple blink -> double click")
	}

	// --- 3. scroll: eye gaze + head tilt fusion ---
	switch d.vertical.Update(eogV, now) {
	case detect.LookUp:
		if gx < -d.cfg.GyroDeadzone && now-d.lastScroll > d.cfg.ScrollCooldown {
			amount := int(math.Abs(gx) / d.cfg.GyroDeadzone * d.cfg.ScrollAmount)
			if amount < 1 {
				amount = 1
			}
			d.act.ScrollUp(amount)
			d.lastScroll = now
			d.logf("scroll up %d (eye up + head up)", amount)
		}
	case detect.LookDown:
		if gx > d.cfg.GyroDeadzone && now-d.lastScroll > d.cfg.ScrollCooldown {
			amount := int(math.Abs(gx) / d.cfg.GyroDeadzone * d.cfg.ScrollAmount)
			if amount < 1 {
				amount = 1
			}
			d.act.ScrollDown(amount)
			d.lastScroll = now
			d.logf("scroll down %d (eye down + head down)", amount)
		}
	}

	// --- 4. window switch: head roll flick, only while cursor frozen ---
	if d.roll.Update(gz, now, cursorFrozen) {
		d.lastAction = now
		d.act.SwitchWindow()
		d.logf("head roll -> window switch")
	}

	// --- 5. double nod: cursor center or double click, only while cursor frozen ---
	if d.nod.Update(gx, now, cursorFrozen) {
		d.lastAction = now
		if d.cfg.DoubleNodAction == "double_click" {
			d.act.DoubleClick()
			d.logf("double nod -> double click")
		} else {
			d.act.CenterCursor()
			d.logf("double nod -> center cursor")
		}
	}

	// --- 6. browser back/forward: horizontal gaze + head turn fusion ---
	switch d.horizontal.Update(eogH, now) {
	case detect.LookLeft:
		if gy < -d.cfg.GyroDeadzone && now-d.lastNav > d.cfg.NavCooldown {
			d.act.NavigateBack()
			d.lastNav = now
			d.logf("back (eye left + head left)")
		}
	case detect.LookRight:
		if gy > d.cfg.GyroDeadzone && now-d.lastNav > d.cfg.NavCooldown {
			d.act.NavigateForward()
			d.lastNav = now
			d.logf("forward (eye right + head right)")
		}
	}
}

// UpdateML is the classifier-backed counterpart of Update, used in
// `--mode ml`: cursor movement and the gyro-only gestures (head roll,
// double nod) still run through the same rule-based detectors, since
// the classifier only sees EOG features, but blink/scroll/nav dispatch
// is driven by the label mlsource.Stepper produced for this tick
// ("" when no classification fired). Label values match the classifier
// contract documented on mlsource.Classifier.
func (d *Dispatcher) UpdateML(eogV, eogH float64, gx, gy, gz float64, now float64, label string, cursorFrozenOverride bool) {
	gazeVertical := eogV > d.cfg.LookUpThreshold || eogV < d.cfg.LookDownThreshold
	gazeHorizontalRaw := eogH > d.cfg.LookRightThreshold || eogH < d.cfg.LookLeftThreshold
	cursorFrozen := gazeHorizontalRaw || cursorFrozenOverride

	anyAction := gazeVertical || cursorFrozen ||
		now-d.lastAction < d.cfg.PostActionGraceDur

	// --- 1. cursor movement ---
	m := d.integrator.Step(gx, gy, anyAction)
	if m.DX != 0 || m.DY != 0 {
		d.act.MoveRelative(m.DX, m.DY)
	}

	// --- 2. blink events, from the classifier label ---
	switch label {
	case "double_blink":
		d.act.LeftClick()
		d.logf("classifier: double blink -> left click")
	case "long_blink":
		d.act.RightClick()
		d.logf("classifier: long blink -> right click")
	case "triple_blink":
		d.act.DoubleClick()
		d.logf("classifier: triple blink -> double click")
	}

	// --- 3. scroll: classifier gaze label + head tilt fusion ---
	switch label {
	case "look_up":
		if gx < -d.cfg.GyroDeadzone && now-d.lastScroll > d.cfg.ScrollCooldown {
			amount := int(math.Abs(gx) / d.cfg.GyroDeadzone * d.cfg.ScrollAmount)
			if amount < 1 {
				amount = 1
			}
			d.act.ScrollUp(amount)
			d.lastScroll = now
			d.logf("classifier: scroll up %d (eye up + head up)", amount)
		}
	case "look_down":
		if gx > d.cfg.GyroDeadzone && now-d.lastScroll > d.cfg.ScrollCooldown {
			amount := int(math.Abs(gx) / d.cfg.GyroDeadzone * d.cfg.ScrollAmount)
			if amount < 1 {
				amount = 1
			}
			d.act.ScrollDown(amount)
			d.lastScroll = now
			d.logf("classifier: scroll down %d (eye down + head down)", amount)
		}
	}

	// --- 4. window switch: head roll flick, only while cursor frozen ---
	if d.roll.Update(gz, now, cursorFrozen) {
		d.lastAction = now
		d.act.SwitchWindow()
		d.logf("head roll -> window switch")
	}

	// --- 5. double nod: cursor center or double click, only while cursor frozen ---
	if d.nod.Update(gx, now, cursorFrozen) {
		d.lastAction = now
		if d.cfg.DoubleNodAction == "double_click" {
			d.act.DoubleClick()
			d.logf("double nod -> double click")
		} else {
			d.act.CenterCursor()
			d.logf("double nod -> center cursor")
		}
	}

	// --- 6. browser back/forward: classifier gaze label + head turn fusion ---
	switch label {
	case "look_left":
		if gy < -d.cfg.GyroDeadzone && now-d.lastNav > d.cfg.NavCooldown {
			d.act.NavigateBack()
			d.lastNav = now
			d.logf("classifier: back (eye left + head left)")
		}
	case "look_right":
		if gy > d.cfg.GyroDeadzone && now-d.lastNav > d.cfg.NavCooldown {
			d.act.NavigateForward()
			d.lastNav = now
			d.logf("classifier: forward (eye right + head right)")
		}
	}
}

// Reset clears every detector and cooldown, as if the session had just
// started.
func (d *Dispatcher) Reset() {
	d.blink.Reset()
	d.vertical.Reset()
	d.horizontal.Reset()
	d.roll.Reset()
	d.nod.Reset()
	d.integrator.Reset()
	d.lastScroll = -100.0
	d.lastNav = -100.0
	d.lastAction = -100.0
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.verbose {
		log.Printf(format, args...)
	}
}
