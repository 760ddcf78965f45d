// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecConstants(t *testing.T) {
	cfg := Default()
	require.Equal(t, 200, cfg.SampleRateHz)
	require.Equal(t, 2048, cfg.EOGBaseline)
	require.Equal(t, 3000.0, cfg.BlinkThreshold)
	require.Equal(t, "center_cursor", cfg.DoubleNodAction)
	require.Equal(t, 100, cfg.MLWindowSize)
	require.Equal(t, 20, cfg.MLWindowStep)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.txt")
	require.NoError(t, os.WriteFile(path, []byte(""+
		"SAMPLE_RATE_HZ=250\n"+
		"# a comment line\n"+
		"\n"+
		"BLINK_THRESHOLD=3500\n"+
		"DOUBLE_NOD_ACTION=double_click\n"+
		"SERIAL_PORT=/dev/ttyUSB0\n"+
		"ML_WINDOW_SIZE=64\n"+
		"ML_WINDOW_STEP=16\n",
	), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 250, cfg.SampleRateHz)
	require.Equal(t, 3500.0, cfg.BlinkThreshold)
	require.Equal(t, "double_click", cfg.DoubleNodAction)
	require.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	require.Equal(t, 64, cfg.MLWindowSize)
	require.Equal(t, 16, cfg.MLWindowStep)
	// untouched fields keep their defaults
	require.Equal(t, 2048, cfg.EOGBaseline)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.txt")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_REAL_KEY=1\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidDoubleNodAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.txt")
	require.NoError(t, os.WriteFile(path, []byte("DOUBLE_NOD_ACTION=fly_to_the_moon\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateCatchesInvertedGazeThresholds(t *testing.T) {
	cfg := Default()
	cfg.LookUpThreshold = 1000
	cfg.LookDownThreshold = 2000

	require.Error(t, cfg.validate())
}

func TestValidateCatchesMLWindowStepLargerThanSize(t *testing.T) {
	cfg := Default()
	cfg.MLWindowSize = 10
	cfg.MLWindowStep = 20

	require.Error(t, cfg.validate())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
