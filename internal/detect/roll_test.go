// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeadRollRequiresCursorFrozen(t *testing.T) {
	d := NewHeadRollDetector(3000, 0.3, 1.0)

	require.False(t, d.Update(3500, 0.0, false))
	require.False(t, d.Update(500, 0.1, false))
}

func TestHeadRollFlickTriggersWindowSwitch(t *testing.T) {
	d := NewHeadRollDetector(3000, 0.3, 1.0)

	require.False(t, d.Update(3500, 0.00, true)) // spike starts
	require.True(t, d.Update(500, 0.10, true))    // returns below threshold within 0.3s
}

func TestHeadRollHeldTooLongIsSuppressed(t *testing.T) {
	d := NewHeadRollDetector(3000, 0.3, 1.0)

	require.False(t, d.Update(3500, 0.00, true))
	require.False(t, d.Update(3500, 0.40, true)) // held past MaxDuration, suppressed
	require.False(t, d.Update(500, 0.45, true))   // drop while suppressed: no trigger
	// a fresh spike afterward should work normally
	require.False(t, d.Update(3500, 1.50, true))
	require.True(t, d.Update(500, 1.55, true))
}

func TestHeadRollFrozenFalseResetsState(t *testing.T) {
	d := NewHeadRollDetector(3000, 0.3, 1.0)

	require.False(t, d.Update(3500, 0.00, true)) // spike starts while frozen
	require.False(t, d.Update(3500, 0.05, false)) // cursor un-freezes mid-spike: state cleared
	require.False(t, d.Update(500, 0.10, true))   // no stale spike carries over
}
