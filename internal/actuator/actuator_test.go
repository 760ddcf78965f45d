// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package actuator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopActuatorDiscardsEverything(t *testing.T) {
	var a Actuator = NoopActuator{}
	a.MoveRelative(10, -5)
	a.LeftClick()
	a.RightClick()
	a.DoubleClick()
	a.ScrollUp(3)
	a.ScrollDown(3)
	a.SwitchWindow()
	a.CenterCursor()
	a.NavigateBack()
	a.NavigateForward()
	// nothing to assert: NoopActuator carries no state
}

func TestRecordingActuatorCapturesCallsInOrder(t *testing.T) {
	r := NewRecordingActuator()
	var a Actuator = r

	a.MoveRelative(3.5, -2.0)
	a.LeftClick()
	a.ScrollUp(2)

	require.Len(t, r.Log, 3)
	require.Equal(t, "move", r.Log[0].Kind)
	require.InDelta(t, 3.5, r.Log[0].DX, 1e-9)
	require.InDelta(t, -2.0, r.Log[0].DY, 1e-9)
	require.Equal(t, "left_click", r.Log[1].Kind)
	require.Equal(t, "scroll_up", r.Log[2].Kind)
	require.Equal(t, 2, r.Log[2].Lines)
	require.Equal(t, "scroll_up", r.Last())
}
