// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

//go:build windows

package actuator

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	mouseeventfMove      = 0x0001
	mouseeventfLeftDown  = 0x0002
	mouseeventfLeftUp    = 0x0004
	mouseeventfRightDown = 0x0008
	mouseeventfRightUp   = 0x0010

	keyeventfKeyUp = 0x0002

	vkMenu  = 0x12 // VK_MENU (Alt)
	vkTab   = 0x09
	vkLeft  = 0x25
	vkRight = 0x27

	smCxScreen = 0
	smCyScreen = 1
)

// WindowsActuator drives the real Win32 input APIs via user32.dll,
// matching the call shape of SetCursorPos/mouse_event/keybd_event used
// throughout the Win32 automation ecosystem.
type WindowsActuator struct {
	user32        *windows.LazyDLL
	mouseEvent    *windows.LazyProc
	setCursorPos  *windows.LazyProc
	getCursorPos  *windows.LazyProc
	keybdEvent    *windows.LazyProc
	getSystemMetrics *windows.LazyProc
}

// NewWindowsActuator binds the user32.dll procs used to inject input.
func NewWindowsActuator() *WindowsActuator {
	user32 := windows.NewLazySystemDLL("user32.dll")
	return &WindowsActuator{
		user32:           user32,
		mouseEvent:       user32.NewProc("mouse_event"),
		setCursorPos:     user32.NewProc("SetCursorPos"),
		getCursorPos:     user32.NewProc("GetCursorPos"),
		keybdEvent:       user32.NewProc("keybd_event"),
		getSystemMetrics: user32.NewProc("GetSystemMetrics"),
	}
}

// NewDefault returns the real host-injection actuator on Windows builds.
func NewDefault() Actuator {
	return NewWindowsActuator()
}

type point struct{ X, Y int32 }

func (a *WindowsActuator) cursorPos() (int32, int32) {
	var p point
	_, _, _ = a.getCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	return p.X, p.Y
}

func (a *WindowsActuator) MoveRelative(dx, dy float64) {
	x, y := a.cursorPos()
	_, _, _ = a.setCursorPos.Call(uintptr(x+int32(dx)), uintptr(y+int32(dy)))
}

func (a *WindowsActuator) LeftClick() {
	_, _, _ = a.mouseEvent.Call(mouseeventfLeftDown, 0, 0, 0, 0)
	_, _, _ = a.mouseEvent.Call(mouseeventfLeftUp, 0, 0, 0, 0)
}

func (a *WindowsActuator) RightClick() {
	_, _, _ = a.mouseEvent.Call(mouseeventfRightDown, 0, 0, 0, 0)
	_, _, _ = a.mouseEvent.Call(mouseeventfRightUp, 0, 0, 0, 0)
}

func (a *WindowsActuator) DoubleClick() {
	a.LeftClick()
	a.LeftClick()
}

func (a *WindowsActuator) ScrollUp(lines int) {
	a.scroll(lines)
}

func (a *WindowsActuator) ScrollDown(lines int) {
	a.scroll(-lines)
}

func (a *WindowsActuator) scroll(amount int) {
	const mouseeventfWheel = 0x0800
	const wheelDelta = 120
	_, _, _ = a.mouseEvent.Call(mouseeventfWheel, 0, 0, uintptr(int32(amount*wheelDelta)), 0)
}

func (a *WindowsActuator) SwitchWindow() {
	a.hotkey(vkMenu, vkTab)
}

func (a *WindowsActuator) CenterCursor() {
	w, _, _ := a.getSystemMetrics.Call(smCxScreen)
	h, _, _ := a.getSystemMetrics.Call(smCyScreen)
	_, _, _ = a.setCursorPos.Call(uintptr(int32(w)/2), uintptr(int32(h)/2))
}

func (a *WindowsActuator) NavigateBack() {
	a.hotkey(vkMenu, vkLeft)
}

func (a *WindowsActuator) NavigateForward() {
	a.hotkey(vkMenu, vkRight)
}

func (a *WindowsActuator) hotkey(vks ...byte) {
	for _, vk := range vks {
		_, _, _ = a.keybdEvent.Call(uintptr(vk), 0, 0, 0)
	}
	for i := len(vks) - 1; i >= 0; i-- {
		_, _, _ = a.keybdEvent.Call(uintptr(vks[i]), 0, keyeventfKeyUp, 0)
	}
}
