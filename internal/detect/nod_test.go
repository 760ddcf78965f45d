// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubleNodRequiresCursorFrozen(t *testing.T) {
	d := NewDoubleNodDetector(3000, 0.3, 0.8, 1.0)
	require.False(t, d.Update(3500, 0.0, false))
}

func TestDoubleNodTriggersOnSecondPulse(t *testing.T) {
	d := NewDoubleNodDetector(3000, 0.3, 0.8, 1.0)

	require.False(t, d.Update(3500, 0.00, true)) // first nod starts
	require.False(t, d.Update(500, 0.10, true))   // first nod ends, recorded
	require.False(t, d.Update(3500, 0.30, true))  // second nod starts
	require.True(t, d.Update(500, 0.40, true))    // second nod ends within window
}

func TestDoubleNodWindowExpiryStartsFreshPair(t *testing.T) {
	d := NewDoubleNodDetector(3000, 0.3, 0.8, 1.0)

	require.False(t, d.Update(3500, 0.00, true))
	require.False(t, d.Update(500, 0.10, true)) // first nod

	require.False(t, d.Update(3500, 1.00, true))
	require.False(t, d.Update(500, 1.10, true)) // second nod arrives after the 0.8s window: becomes new first

	require.False(t, d.Update(3500, 1.30, true))
	require.True(t, d.Update(500, 1.40, true)) // this one pairs with the reset "first"
}

func TestDoubleNodFrozenFalseResetsState(t *testing.T) {
	d := NewDoubleNodDetector(3000, 0.3, 0.8, 1.0)

	require.False(t, d.Update(3500, 0.00, true))
	require.False(t, d.Update(500, 0.10, true)) // first nod recorded

	require.False(t, d.Update(3500, 0.20, false)) // cursor un-freezes: state cleared

	require.False(t, d.Update(3500, 0.30, true))
	require.False(t, d.Update(500, 0.40, true)) // this becomes a fresh first nod, not a pairing second
}
