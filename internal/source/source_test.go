// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package source

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLineSixField(t *testing.T) {
	p, ok := parseLine("100,2048,2050,1,2,3\n", 2048)
	require.True(t, ok)
	require.Equal(t, int64(100), p.DeviceMS)
	require.Equal(t, 2048, p.EOGV)
	require.Equal(t, 2050, p.EOGH)
	require.Equal(t, 1, p.GyroX)
	require.Equal(t, 2, p.GyroY)
	require.Equal(t, 3, p.GyroZ)
}

func TestParseLineLegacyFiveField(t *testing.T) {
	p, ok := parseLine("100,2048,1,2,3\n", 2048)
	require.True(t, ok)
	require.Equal(t, 2048, p.EOGH)
}

func TestParseLineMalformed(t *testing.T) {
	_, ok := parseLine("garbage,not,a,packet\n", 2048)
	require.False(t, ok)
}

func TestParseLineOutOfRangeRejected(t *testing.T) {
	_, ok := parseLine("100,9999,2048,0,0,0\n", 2048)
	require.False(t, ok)
}

func TestReplaySourceReadsHeaderAndData(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "replay-*.csv")
	require.NoError(t, err)
	_, err = f.WriteString("device_ms,eog_v,eog_h,gx,gy,gz\n0,2048,2048,0,0,0\n5,2049,2048,1,0,0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	src, err := OpenReplay(f.Name(), ReplayOptions{Fast: true, EOGBaseline: 2048})
	require.NoError(t, err)
	defer src.Close()

	p1, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, 2048, p1.EOGV)

	p2, err := src.Next()
	require.NoError(t, err)
	require.Equal(t, 2049, p2.EOGV)

	_, err = src.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReplaySourceLoops(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "replay-*.csv")
	require.NoError(t, err)
	_, err = f.WriteString("0,2048,2048,0,0,0\n5,2049,2048,0,0,0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	src, err := OpenReplay(f.Name(), ReplayOptions{Fast: true, Loop: true, EOGBaseline: 2048})
	require.NoError(t, err)
	defer src.Close()

	for i := 0; i < 5; i++ {
		_, err := src.Next()
		require.NoError(t, err)
	}
}

func TestReplaySourceRejectsMalformedRow(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "replay-*.csv")
	require.NoError(t, err)
	_, err = f.WriteString("0,2048,2048,0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	src, err := OpenReplay(f.Name(), ReplayOptions{Fast: true, EOGBaseline: 2048})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	require.Error(t, err)
}

func TestSimulateSourceProducesValidPackets(t *testing.T) {
	src := NewSimulateSource(200, 2048)
	for i := 0; i < 20; i++ {
		p, err := src.Next()
		require.NoError(t, err)
		require.NoError(t, p.Validate())
	}
}
