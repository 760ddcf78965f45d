// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package actuator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay tracks cursor position and the most recent action label and
// renders both to a PNG, the headless stand-in for an on-screen cursor
// when no display is attached (debug builds, CI, recorded test runs).
// Grounded on internal/app/display.go's font.Drawer/basicfont.Face7x13
// usage, swapped from a 128x64 1-bit SSD1306 frame to a full-color PNG
// canvas since there is no physical display to target here.
type Overlay struct {
	width, height int
	x, y          float64
	lastAction    string
}

// NewOverlay creates an overlay canvas of the given size, with the
// cursor starting at its center.
func NewOverlay(width, height int) *Overlay {
	return &Overlay{width: width, height: height, x: float64(width) / 2, y: float64(height) / 2}
}

// Move adjusts the tracked cursor position by a relative delta, clamping
// to the canvas bounds the same way a real screen would.
func (o *Overlay) Move(dx, dy float64) {
	o.x = clamp(o.x+dx, 0, float64(o.width-1))
	o.y = clamp(o.y+dy, 0, float64(o.height-1))
}

// Center resets the cursor to the canvas center.
func (o *Overlay) Center() {
	o.x, o.y = float64(o.width)/2, float64(o.height)/2
}

// Note records the most recent action label shown alongside the cursor.
func (o *Overlay) Note(label string) {
	o.lastAction = label
}

// Render draws the current cursor crosshair and last-action label onto a
// fresh RGBA canvas.
func (o *Overlay) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	cx, cy := int(o.x), int(o.y)
	crosshair := color.RGBA{R: 0, G: 255, B: 0, A: 255}
	for d := -6; d <= 6; d++ {
		setPixel(img, cx+d, cy, crosshair)
		setPixel(img, cx, cy+d, crosshair)
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, 13),
	}
	drawer.DrawString(fmt.Sprintf("x=%d y=%d", cx, cy))
	if o.lastAction != "" {
		drawer.Dot = fixed.P(2, 26)
		drawer.DrawString(o.lastAction)
	}

	return img
}

// WritePNG renders the current state and writes it to path.
func (o *Overlay) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay snapshot %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, o.Render())
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= img.Bounds().Dx() || y >= img.Bounds().Dy() {
		return
	}
	img.SetRGBA(x, y, c)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DebugOverlayActuator wraps another Actuator, mirroring every call into
// an Overlay so the session can be visually inspected afterward without
// a display attached. Cursor-state actions update the overlay directly;
// every other action just records its label for the next snapshot.
type DebugOverlayActuator struct {
	inner   Actuator
	Overlay *Overlay
}

// NewDebugOverlayActuator wraps inner with an overlay canvas of the
// given size.
func NewDebugOverlayActuator(inner Actuator, width, height int) *DebugOverlayActuator {
	return &DebugOverlayActuator{inner: inner, Overlay: NewOverlay(width, height)}
}

func (d *DebugOverlayActuator) MoveRelative(dx, dy float64) {
	d.inner.MoveRelative(dx, dy)
	d.Overlay.Move(dx, dy)
}

func (d *DebugOverlayActuator) LeftClick() {
	d.inner.LeftClick()
	d.Overlay.Note("left_click")
}

func (d *DebugOverlayActuator) RightClick() {
	d.inner.RightClick()
	d.Overlay.Note("right_click")
}

func (d *DebugOverlayActuator) DoubleClick() {
	d.inner.DoubleClick()
	d.Overlay.Note("double_click")
}

func (d *DebugOverlayActuator) ScrollUp(lines int) {
	d.inner.ScrollUp(lines)
	d.Overlay.Note(fmt.Sprintf("scroll_up %d", lines))
}

func (d *DebugOverlayActuator) ScrollDown(lines int) {
	d.inner.ScrollDown(lines)
	d.Overlay.Note(fmt.Sprintf("scroll_down %d", lines))
}

func (d *DebugOverlayActuator) SwitchWindow() {
	d.inner.SwitchWindow()
	d.Overlay.Note("switch_window")
}

func (d *DebugOverlayActuator) CenterCursor() {
	d.inner.CenterCursor()
	d.Overlay.Center()
	d.Overlay.Note("center_cursor")
}

func (d *DebugOverlayActuator) NavigateBack() {
	d.inner.NavigateBack()
	d.Overlay.Note("navigate_back")
}

func (d *DebugOverlayActuator) NavigateForward() {
	d.inner.NavigateForward()
	d.Overlay.Note("navigate_forward")
}
