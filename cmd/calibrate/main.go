// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Command calibrate runs the gyro bias calibration standalone (spec.md
// §4.2 phase 1: stationary-mean offset removal) and writes the result
// as JSON. cmd/eogcursor does not read this file; it runs its own
// calibration phase on every startup.
//
// Run:
//
//	go run ./cmd/calibrate --port /dev/ttyACM0
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/eog-cursor/internal/config"
	"github.com/relabs-tech/eog-cursor/internal/gyro"
	"github.com/relabs-tech/eog-cursor/internal/packet"
	"github.com/relabs-tech/eog-cursor/internal/source"
)

// CalibrationResult is the JSON capture of one calibration run.
type CalibrationResult struct {
	SchemaVersion   int     `json:"schema_version"`
	CalibratedAt    string  `json:"calibrated_at"` // RFC3339
	Samples         int     `json:"samples"`
	DiscardedLeadIn int     `json:"discarded_lead_in"`
	BiasX           float64 `json:"bias_x"`
	BiasY           float64 `json:"bias_y"`
	BiasZ           float64 `json:"bias_z"`
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to KEY=VALUE config file (defaults built in if empty)")
	port := flag.String("port", "", "Serial port overriding the config file")
	baudRate := flag.Int("baudrate", 0, "Serial baud rate overriding the config file")
	replay := flag.String("replay", "", "Calibrate from a recorded CSV capture instead of the live serial port")
	out := flag.String("out", "gyro_calibration.json", "Path to write the calibration result")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	cfg := config.Get()

	if *port != "" {
		cfg.SerialPort = *port
	}
	if *baudRate != 0 {
		cfg.SerialBaudRate = *baudRate
	}

	var src packet.Source
	var err error
	if *replay != "" {
		src, err = source.OpenReplay(*replay, source.ReplayOptions{Fast: true, EOGBaseline: cfg.EOGBaseline})
	} else {
		src, err = source.OpenSerial(cfg.SerialPort, cfg.SerialBaudRate, cfg.EOGBaseline)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "source: %v\n", err)
		return 2
	}
	defer src.Close()

	calib := gyro.NewCalibrator(cfg.GyroCalibrationDiscard, cfg.GyroCalibrationSamples)

	fmt.Println("=== Gyro bias calibration ===")
	fmt.Println("Place the device on a stable surface and do not touch it.")
	waitEnter("Press ENTER to start capture...")
	fmt.Printf("Capturing %d samples (%d discarded for settling)...\n", calib.RequiredSamples(), cfg.GyroCalibrationDiscard)

	for !calib.Done() {
		p, err := src.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "source error during capture: %v\n", err)
			return 2
		}
		calib.Add(p)
	}

	bx, by, bz := calib.Bias()
	res := CalibrationResult{
		SchemaVersion:   1,
		CalibratedAt:    time.Now().Format(time.RFC3339),
		Samples:         calib.RequiredSamples(),
		DiscardedLeadIn: cfg.GyroCalibrationDiscard,
		BiasX:           bx,
		BiasY:           by,
		BiasZ:           bz,
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal result: %v\n", err)
		return 1
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		return 1
	}

	fmt.Printf("Gyro bias: X=%.2f Y=%.2f Z=%.2f\n", bx, by, bz)
	fmt.Printf("Wrote %s\n", *out)
	return 0
}

func waitEnter(prompt string) {
	fmt.Print(prompt)
	in := bufio.NewReader(os.Stdin)
	_, _ = in.ReadString('\n')
}
