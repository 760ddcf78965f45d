// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Command eogcursor runs the full EOG + gyro pipeline: it reads raw
// sensor packets, calibrates and Kalman-tracks the gyro, low-pass
// filters both EOG channels, recognizes gestures, and dispatches the
// resulting HID actions to the host.
package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/eog-cursor/internal/actuator"
	"github.com/relabs-tech/eog-cursor/internal/config"
	"github.com/relabs-tech/eog-cursor/internal/cursor"
	"github.com/relabs-tech/eog-cursor/internal/eogfilter"
	"github.com/relabs-tech/eog-cursor/internal/fusion"
	"github.com/relabs-tech/eog-cursor/internal/gyro"
	"github.com/relabs-tech/eog-cursor/internal/mlsource"
	"github.com/relabs-tech/eog-cursor/internal/packet"
	"github.com/relabs-tech/eog-cursor/internal/source"
	"github.com/relabs-tech/eog-cursor/internal/telemetry"
)

// Exit codes, per spec.md §7: 0 normal shutdown, 1 ML mode selected
// without a usable classifier, 2 source error, 130 SIGINT/SIGTERM.
const (
	exitOK           = 0
	exitMissingModel = 1
	exitSourceError  = 2
	exitInterrupted  = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to KEY=VALUE config file (defaults built in if empty)")
	mode := flag.String("mode", "threshold", "Cursor strategy: threshold, statespace, or ml")
	port := flag.String("port", "", "Serial port overriding the config file")
	baudRate := flag.Int("baudrate", 0, "Serial baud rate overriding the config file")
	simulate := flag.Bool("simulate", false, "Use the free-running synthetic source instead of serial/replay")
	replay := flag.String("replay", "", "Replay a recorded CSV capture instead of the live serial port")
	replayFast := flag.Bool("replay-fast", false, "Replay as fast as possible, ignoring recorded timing")
	replayLoop := flag.Bool("replay-loop", false, "Restart replay from the beginning when the file is exhausted")
	sensitivity := flag.Float64("sensitivity", 0, "Override cursor sensitivity (threshold: CURSOR_SENSITIVITY, statespace: SS_SENSITIVITY)")
	velocityRetain := flag.Float64("velocity-retain", 0, "Override SS_VELOCITY_RETAIN (statespace mode only)")
	deadzone := flag.Float64("deadzone", 0, "Override GYRO_DEADZONE")
	blinkThreshold := flag.Float64("blink-threshold", 0, "Override BLINK_THRESHOLD")
	verbose := flag.Bool("verbose", false, "Log every dispatched action and the gesture that triggered it")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Printf("config: %v", err)
		return exitSourceError
	}
	cfg := config.Get()

	if *port != "" {
		cfg.SerialPort = *port
	}
	if *baudRate != 0 {
		cfg.SerialBaudRate = *baudRate
	}
	if *deadzone != 0 {
		cfg.GyroDeadzone = *deadzone
	}
	if *blinkThreshold != 0 {
		cfg.BlinkThreshold = *blinkThreshold
	}
	if *sensitivity != 0 {
		cfg.CursorSensitivity = *sensitivity
		cfg.SSSensitivity = *sensitivity
	}
	if *velocityRetain != 0 {
		cfg.SSVelocityRetain = *velocityRetain
	}

	var classifier *mlsource.SVMClassifier
	if *mode == "ml" {
		var err error
		classifier, err = mlsource.LoadClassifier(cfg.ClassifierModelPath, cfg.ClassifierScalerPath)
		if err != nil {
			log.Printf("ml mode requires a classifier blob pair: %v", err)
			return exitMissingModel
		}
	}

	src, err := openSource(cfg, *simulate, *replay, *replayFast, *replayLoop)
	if err != nil {
		log.Printf("source: %v", err)
		return exitSourceError
	}
	defer src.Close()

	var integrator cursor.Integrator
	switch *mode {
	case "statespace":
		integrator = cursor.NewStateSpace(cfg.SSVelocityRetain, cfg.SSSensitivity, 1.0/float64(cfg.SampleRateHz), cfg.GyroDeadzone)
	default:
		integrator = cursor.NewProportional(cfg.CursorSensitivity, cfg.GyroDeadzone)
	}

	act := actuator.NewDefault()
	dispatcher := fusion.New(cfg, act, integrator)
	dispatcher.SetVerbose(*verbose)

	var hub *telemetry.Hub
	if cfg.WSListenAddr != "" {
		hub = telemetry.NewHub()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleLive)
		srv := &http.Server{Addr: cfg.WSListenAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("telemetry: websocket server stopped: %v", err)
			}
		}()
	}

	var publisher *telemetry.Publisher
	if cfg.MQTTBroker != "" {
		publisher, err = telemetry.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic)
		if err != nil {
			log.Printf("telemetry: mqtt publisher disabled: %v", err)
		} else {
			defer publisher.Close()
		}
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		<-sigc
		close(stop)
	}()

	calib := gyro.NewCalibrator(cfg.GyroCalibrationDiscard, cfg.GyroCalibrationSamples)
	kalman := gyro.NewThreeAxisKalman(cfg.KalmanQOmega, cfg.KalmanQBias, cfg.KalmanR)
	filterV := eogfilter.New()
	filterH := eogfilter.New()

	var stepper *mlsource.Stepper
	if classifier != nil {
		stepper = mlsource.NewStepper(cfg.MLWindowSize, cfg.MLWindowStep, classifier)
	}

	log.Printf("eogcursor: mode=%s source ready, calibrating gyro (%d samples)...", *mode, calib.RequiredSamples())

	for {
		select {
		case <-stop:
			log.Println("eogcursor: shutting down")
			return exitInterrupted
		default:
		}

		p, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Println("eogcursor: source exhausted")
				return exitOK
			}
			log.Printf("eogcursor: source error: %v", err)
			return exitSourceError
		}

		if !calib.Done() {
			calib.Add(p)
			if calib.Done() {
				bx, by, bz := calib.Bias()
				kalman.SetInitialBias(bx, by, bz)
				log.Printf("eogcursor: gyro calibrated, bias=(%.1f, %.1f, %.1f)", bx, by, bz)
			}
			continue
		}

		gx, gy, gz := kalman.Update(p.GyroX, p.GyroY, p.GyroZ)
		vF := filterV.Step(float64(p.EOGV))
		hF := filterH.Step(float64(p.EOGH))

		if stepper != nil {
			label, ok := stepper.Step(vF, hF)
			if !ok {
				label = ""
			}
			dispatcher.UpdateML(vF, hF, float64(gx), float64(gy), float64(gz), p.HostTime, label, false)
		} else {
			dispatcher.Update(vF, hF, float64(gx), float64(gy), float64(gz), p.HostTime, false)
		}

		if hub != nil {
			hub.Broadcast(telemetry.NewSample(int(vF), int(hF), gx, gy, gz))
		}
		if publisher != nil {
			publisher.Publish(telemetry.NewSample(int(vF), int(hF), gx, gy, gz))
		}
	}
}

func openSource(cfg *config.Config, simulate bool, replay string, replayFast, replayLoop bool) (packet.Source, error) {
	switch {
	case simulate:
		return source.NewSimulateSource(cfg.SampleRateHz, cfg.EOGBaseline), nil
	case replay != "":
		return source.OpenReplay(replay, source.ReplayOptions{
			Fast:        replayFast,
			Loop:        replayLoop,
			EOGBaseline: cfg.EOGBaseline,
		})
	default:
		return source.OpenSerial(cfg.SerialPort, cfg.SerialBaudRate, cfg.EOGBaseline)
	}
}
