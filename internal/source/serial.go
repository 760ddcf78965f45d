// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package source implements packet.Source over the live serial link, CSV
// replay files, and a free-running synthetic generator (spec.md §4.1, §6).
package source

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/eog-cursor/internal/packet"
)

// SerialSource reads CSV-formatted lines from the microcontroller's UART
// on a background reader goroutine and hands parsed packets to the main
// loop through a bounded channel, the one producer/consumer boundary in
// the pipeline.
type SerialSource struct {
	port io.ReadWriteCloser

	eogBaseline int
	queue       chan packet.SensorPacket
	errc        chan error
	done        chan struct{}

	mu         sync.Mutex
	errorCount int
}

// OpenSerial opens the configured serial port and starts the background
// reader. eogBaseline fills the horizontal channel on legacy 5-field lines.
func OpenSerial(portName string, baudRate int, eogBaseline int) (*SerialSource, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	s := &SerialSource{
		port:        port,
		eogBaseline: eogBaseline,
		queue:       make(chan packet.SensorPacket, 256),
		errc:        make(chan error, 1),
		done:        make(chan struct{}),
	}

	go s.readLoop()

	return s, nil
}

func (s *SerialSource) readLoop() {
	reader := bufio.NewReader(s.port)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			select {
			case s.errc <- fmt.Errorf("serial read error: %w", err):
			default:
			}
			close(s.queue)
			return
		}

		p, ok := parseLine(line, s.eogBaseline)
		if !ok {
			s.mu.Lock()
			s.errorCount++
			count := s.errorCount
			s.mu.Unlock()
			if count%100 == 0 {
				log.Printf("source: dropped malformed line (%d total): %q", count, strings.TrimSpace(line))
			}
			continue
		}

		select {
		case s.queue <- p:
		case <-s.done:
			return
		}
	}
}

// parseLine parses one CSV line: preferred 6-field
// "device_ms,eog_v,eog_h,gx,gy,gz", or legacy 5-field
// "device_ms,eog_v,gx,gy,gz" with eog_h filled from baseline.
func parseLine(line string, eogBaseline int) (packet.SensorPacket, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return packet.SensorPacket{}, false
	}

	parts := strings.Split(line, ",")

	var p packet.SensorPacket
	var err error

	switch len(parts) {
	case 6:
		p, err = buildPacket(parts[0], parts[1], parts[2], parts[3], parts[4], parts[5])
	case 5:
		p, err = buildPacket(parts[0], parts[1], strconv.Itoa(eogBaseline), parts[2], parts[3], parts[4])
	default:
		return packet.SensorPacket{}, false
	}
	if err != nil {
		return packet.SensorPacket{}, false
	}
	p.HostTime = float64(time.Now().UnixNano()) / 1e9
	if p.Validate() != nil {
		return packet.SensorPacket{}, false
	}
	return p, true
}

func buildPacket(deviceMS, eogV, eogH, gx, gy, gz string) (packet.SensorPacket, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(deviceMS), 10, 64)
	if err != nil {
		return packet.SensorPacket{}, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(eogV))
	if err != nil {
		return packet.SensorPacket{}, err
	}
	h, err := strconv.Atoi(strings.TrimSpace(eogH))
	if err != nil {
		return packet.SensorPacket{}, err
	}
	x, err := strconv.Atoi(strings.TrimSpace(gx))
	if err != nil {
		return packet.SensorPacket{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(gy))
	if err != nil {
		return packet.SensorPacket{}, err
	}
	z, err := strconv.Atoi(strings.TrimSpace(gz))
	if err != nil {
		return packet.SensorPacket{}, err
	}
	return packet.SensorPacket{
		DeviceMS: ms,
		EOGV:     v,
		EOGH:     h,
		GyroX:    x,
		GyroY:    y,
		GyroZ:    z,
	}, nil
}

// Next blocks until a packet is available, the transport errors, or the
// source is closed.
func (s *SerialSource) Next() (packet.SensorPacket, error) {
	select {
	case p, ok := <-s.queue:
		if !ok {
			select {
			case err := <-s.errc:
				return packet.SensorPacket{}, err
			default:
				return packet.SensorPacket{}, fmt.Errorf("serial source closed")
			}
		}
		return p, nil
	case err := <-s.errc:
		return packet.SensorPacket{}, err
	}
}

// Close stops the reader goroutine and releases the serial port.
func (s *SerialSource) Close() error {
	close(s.done)
	return s.port.Close()
}
