// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/relabs-tech/eog-cursor/internal/packet"
)

// ReplaySource replays a recorded CSV capture (see SerialSource's wire
// format) from disk instead of a live port. Useful for regression-testing
// the detection pipeline against a fixed recording.
type ReplaySource struct {
	f      *os.File
	r      *csv.Reader
	path   string
	fast   bool
	loop   bool
	lineNo int

	eogBaseline int
	startHost   float64
	startDevMS  int64
	haveStart   bool
}

// ReplayOptions controls playback pacing.
type ReplayOptions struct {
	Fast        bool // deliver packets as fast as possible, ignoring device timing
	Loop        bool // restart from the first data row when the file is exhausted
	EOGBaseline int  // fills eog_h on legacy 5-field rows
}

// OpenReplay opens a CSV capture file for replay.
func OpenReplay(path string, opts ReplayOptions) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	s := &ReplaySource{
		f:           f,
		r:           r,
		path:        path,
		fast:        opts.Fast,
		loop:        opts.Loop,
		eogBaseline: opts.EOGBaseline,
	}

	if err := s.skipHeaderIfPresent(); err != nil {
		f.Close()
		return nil, err
	}

	return s, nil
}

// skipHeaderIfPresent peeks the first record; if it doesn't parse as
// numeric fields, it's a header row and is discarded.
func (s *ReplaySource) skipHeaderIfPresent() error {
	pos, err := s.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}

	record, err := s.r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read replay header: %w", err)
	}

	if len(record) > 0 {
		if _, convErr := strconv.ParseInt(record[0], 10, 64); convErr == nil {
			// first row is numeric data, rewind and let Next() read it
			if _, err := s.f.Seek(pos, io.SeekStart); err != nil {
				return err
			}
			s.r = csv.NewReader(s.f)
			s.r.FieldsPerRecord = -1
			s.r.TrimLeadingSpace = true
		}
	}
	return nil
}

// Next returns the next recorded packet. When Fast is false, Next sleeps
// to reproduce the spacing of the original device_ms timestamps. When the
// file is exhausted, Next returns io.EOF unless Loop is set, in which case
// playback restarts from the beginning.
func (s *ReplaySource) Next() (packet.SensorPacket, error) {
	record, err := s.r.Read()
	if err == io.EOF {
		if !s.loop {
			return packet.SensorPacket{}, io.EOF
		}
		if _, seekErr := s.f.Seek(0, io.SeekStart); seekErr != nil {
			return packet.SensorPacket{}, seekErr
		}
		s.r = csv.NewReader(s.f)
		s.r.FieldsPerRecord = -1
		s.r.TrimLeadingSpace = true
		s.haveStart = false
		if hdrErr := s.skipHeaderIfPresent(); hdrErr != nil {
			return packet.SensorPacket{}, hdrErr
		}
		record, err = s.r.Read()
		if err != nil {
			return packet.SensorPacket{}, fmt.Errorf("replay loop restart: %w", err)
		}
	} else if err != nil {
		return packet.SensorPacket{}, fmt.Errorf("read replay record: %w", err)
	}
	s.lineNo++

	var p packet.SensorPacket
	switch len(record) {
	case 6:
		p, err = buildPacket(record[0], record[1], record[2], record[3], record[4], record[5])
	case 5:
		p, err = buildPacket(record[0], record[1], strconv.Itoa(s.eogBaseline), record[2], record[3], record[4])
	default:
		return packet.SensorPacket{}, fmt.Errorf("replay line %d: expected 5 or 6 fields, got %d", s.lineNo, len(record))
	}
	if err != nil {
		return packet.SensorPacket{}, fmt.Errorf("replay line %d: %w", s.lineNo, err)
	}
	if verr := p.Validate(); verr != nil {
		return packet.SensorPacket{}, fmt.Errorf("replay line %d: %w", s.lineNo, verr)
	}

	now := float64(time.Now().UnixNano()) / 1e9
	if !s.haveStart {
		s.startHost = now
		s.startDevMS = p.DeviceMS
		s.haveStart = true
	}

	if !s.fast {
		elapsedDevice := time.Duration(p.DeviceMS-s.startDevMS) * time.Millisecond
		targetHost := s.startHost + elapsedDevice.Seconds()
		if wait := targetHost - (float64(time.Now().UnixNano()) / 1e9); wait > 0 {
			time.Sleep(time.Duration(wait * float64(time.Second)))
		}
	}

	p.HostTime = float64(time.Now().UnixNano()) / 1e9
	return p, nil
}

// Close releases the underlying file handle.
func (s *ReplaySource) Close() error {
	return s.f.Close()
}
