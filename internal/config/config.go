// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds every tunable parameter of the signal-to-event pipeline.
// All thresholds are static constants loaded once at startup; nothing here
// is adapted at runtime (spec.md Non-goals: no adaptive per-user learning).
type Config struct {
	// Sampling
	SampleRateHz int // must match the firmware's tick rate (200)

	// EOG signal model
	EOGBaseline int // 12-bit ADC midpoint

	// EOG low-pass filter (C3)
	EOGLowpassCutoffHz float64
	EOGLowpassOrder    int

	// Gyro calibration (C2, phase 1)
	GyroCalibrationDiscard int // samples discarded for sensor settling
	GyroCalibrationSamples int // samples averaged for the bias estimate

	// Gyro Kalman tracker (C2, phase 2)
	KalmanQOmega float64
	KalmanQBias  float64
	KalmanR      float64

	// Cursor deadzone, shared by both integrator variants and fusion
	GyroDeadzone float64

	// Proportional cursor integrator
	CursorSensitivity float64

	// State-space cursor integrator
	SSVelocityRetain float64
	SSSensitivity    float64

	// Blink detector (C4)
	BlinkThreshold      float64
	BlinkMinDuration    float64
	BlinkMaxDuration    float64
	DoubleBlinkWindow   float64
	DoubleBlinkCooldown float64
	TripleBlinkWindow   float64
	TripleBlinkCooldown float64
	LongBlinkMinDur     float64
	LongBlinkMaxDur     float64
	LongBlinkCooldown   float64

	// Vertical gaze detector (C5)
	LookUpThreshold     float64
	LookDownThreshold   float64
	VerticalGazeMinHold float64

	// Horizontal gaze detector (C6)
	LookRightThreshold     float64
	LookLeftThreshold      float64
	HorizontalGazeMinHold  float64
	HorizontalGazeCooldown float64

	// Head-roll flick detector (C7)
	HeadRollThreshold float64
	HeadRollMaxDur    float64
	HeadRollCooldown  float64

	// Double-nod detector (C8)
	DoubleNodThreshold float64
	DoubleNodMaxDur    float64
	DoubleNodWindow    float64
	DoubleNodCooldown  float64
	// DoubleNodAction resolves the spec's open question: "center_cursor" or
	// "double_click". See DESIGN.md.
	DoubleNodAction string

	// Fusion dispatcher (C10)
	ScrollCooldown     float64
	ScrollAmount       float64
	NavCooldown        float64
	PostActionGraceDur float64

	// Serial / replay source (C1)
	SerialPort     string
	SerialBaudRate int
	ReplayPath     string
	ReplayLoop     bool
	ReplayFast     bool

	// Optional classifier mode
	ClassifierModelPath  string
	ClassifierScalerPath string
	MLWindowSize         int // samples per classification window
	MLWindowStep         int // samples between classifications

	// Optional telemetry fan-out (non-core, write-only diagnostics)
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	WSListenAddr string
}

// Default returns the constants from spec.md §4, matching the reference
// implementation's static thresholds exactly.
func Default() *Config {
	return &Config{
		SampleRateHz: 200,

		EOGBaseline: 2048,

		EOGLowpassCutoffHz: 30.0,
		EOGLowpassOrder:    4,

		GyroCalibrationDiscard: 50,
		GyroCalibrationSamples: 400,

		KalmanQOmega: 1000.0,
		KalmanQBias:  0.001,
		KalmanR:      500.0,

		GyroDeadzone: 300,

		CursorSensitivity: 0.01,

		SSVelocityRetain: 0.95,
		SSSensitivity:    0.05,

		BlinkThreshold:      3000,
		BlinkMinDuration:    0.05,
		BlinkMaxDuration:    0.25,
		DoubleBlinkWindow:   0.6,
		DoubleBlinkCooldown: 0.8,
		TripleBlinkWindow:   0.6,
		TripleBlinkCooldown: 1.0,
		LongBlinkMinDur:     0.4,
		LongBlinkMaxDur:     2.5,
		LongBlinkCooldown:   1.0,

		LookUpThreshold:     2800,
		LookDownThreshold:   1200,
		VerticalGazeMinHold: 0.1,

		LookRightThreshold:     2800,
		LookLeftThreshold:      1200,
		HorizontalGazeMinHold:  0.15,
		HorizontalGazeCooldown: 1.0,

		HeadRollThreshold: 3000,
		HeadRollMaxDur:    0.3,
		HeadRollCooldown:  1.0,

		DoubleNodThreshold: 3000,
		DoubleNodMaxDur:    0.3,
		DoubleNodWindow:    0.8,
		DoubleNodCooldown:  1.0,
		DoubleNodAction:    "center_cursor",

		ScrollCooldown:     0.08,
		ScrollAmount:       30,
		NavCooldown:        1.0,
		PostActionGraceDur: 0.3,

		SerialPort:     "/dev/ttyACM0",
		SerialBaudRate: 115200,

		MLWindowSize: 100,
		MLWindowStep: 20,

		MQTTTopic: "eogcursor/action",
	}
}

// Load reads KEY=VALUE overrides from a config file on top of Default().
func Load(configPath string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setValue(key, value string) error {
	switch key {
	case "SAMPLE_RATE_HZ":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_RATE_HZ %q: %w", value, err)
		}
		c.SampleRateHz = v
	case "EOG_BASELINE":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid EOG_BASELINE %q: %w", value, err)
		}
		c.EOGBaseline = v
	case "EOG_LOWPASS_CUTOFF_HZ":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid EOG_LOWPASS_CUTOFF_HZ %q: %w", value, err)
		}
		c.EOGLowpassCutoffHz = v
	case "EOG_LOWPASS_ORDER":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid EOG_LOWPASS_ORDER %q: %w", value, err)
		}
		if v != 4 {
			return fmt.Errorf("EOG_LOWPASS_ORDER must be 4 (only the order-4 SOS cascade is implemented), got %d", v)
		}
		c.EOGLowpassOrder = v
	case "GYRO_CALIBRATION_DISCARD":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GYRO_CALIBRATION_DISCARD %q: %w", value, err)
		}
		c.GyroCalibrationDiscard = v
	case "GYRO_CALIBRATION_SAMPLES":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GYRO_CALIBRATION_SAMPLES %q: %w", value, err)
		}
		c.GyroCalibrationSamples = v
	case "KALMAN_Q_OMEGA":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid KALMAN_Q_OMEGA %q: %w", value, err)
		}
		c.KalmanQOmega = v
	case "KALMAN_Q_BIAS":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid KALMAN_Q_BIAS %q: %w", value, err)
		}
		c.KalmanQBias = v
	case "KALMAN_R":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid KALMAN_R %q: %w", value, err)
		}
		c.KalmanR = v
	case "GYRO_DEADZONE":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid GYRO_DEADZONE %q: %w", value, err)
		}
		c.GyroDeadzone = v
	case "CURSOR_SENSITIVITY":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid CURSOR_SENSITIVITY %q: %w", value, err)
		}
		c.CursorSensitivity = v
	case "SS_VELOCITY_RETAIN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SS_VELOCITY_RETAIN %q: %w", value, err)
		}
		if v <= 0 || v >= 1 {
			return fmt.Errorf("SS_VELOCITY_RETAIN must be in (0,1), got %v", v)
		}
		c.SSVelocityRetain = v
	case "SS_SENSITIVITY":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SS_SENSITIVITY %q: %w", value, err)
		}
		c.SSSensitivity = v
	case "BLINK_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid BLINK_THRESHOLD %q: %w", value, err)
		}
		c.BlinkThreshold = v
	case "BLINK_MIN_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid BLINK_MIN_DURATION %q: %w", value, err)
		}
		c.BlinkMinDuration = v
	case "BLINK_MAX_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid BLINK_MAX_DURATION %q: %w", value, err)
		}
		c.BlinkMaxDuration = v
	case "DOUBLE_BLINK_WINDOW":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DOUBLE_BLINK_WINDOW %q: %w", value, err)
		}
		c.DoubleBlinkWindow = v
	case "DOUBLE_BLINK_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DOUBLE_BLINK_COOLDOWN %q: %w", value, err)
		}
		c.DoubleBlinkCooldown = v
	case "TRIPLE_BLINK_WINDOW":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TRIPLE_BLINK_WINDOW %q: %w", value, err)
		}
		c.TripleBlinkWindow = v
	case "TRIPLE_BLINK_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TRIPLE_BLINK_COOLDOWN %q: %w", value, err)
		}
		c.TripleBlinkCooldown = v
	case "LONG_BLINK_MIN_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LONG_BLINK_MIN_DURATION %q: %w", value, err)
		}
		c.LongBlinkMinDur = v
	case "LONG_BLINK_MAX_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LONG_BLINK_MAX_DURATION %q: %w", value, err)
		}
		c.LongBlinkMaxDur = v
	case "LONG_BLINK_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LONG_BLINK_COOLDOWN %q: %w", value, err)
		}
		c.LongBlinkCooldown = v
	case "LOOK_UP_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LOOK_UP_THRESHOLD %q: %w", value, err)
		}
		c.LookUpThreshold = v
	case "LOOK_DOWN_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LOOK_DOWN_THRESHOLD %q: %w", value, err)
		}
		c.LookDownThreshold = v
	case "LOOK_RIGHT_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LOOK_RIGHT_THRESHOLD %q: %w", value, err)
		}
		c.LookRightThreshold = v
	case "LOOK_LEFT_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid LOOK_LEFT_THRESHOLD %q: %w", value, err)
		}
		c.LookLeftThreshold = v
	case "HORIZONTAL_GAZE_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid HORIZONTAL_GAZE_COOLDOWN %q: %w", value, err)
		}
		c.HorizontalGazeCooldown = v
	case "HEAD_ROLL_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid HEAD_ROLL_THRESHOLD %q: %w", value, err)
		}
		c.HeadRollThreshold = v
	case "HEAD_ROLL_MAX_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid HEAD_ROLL_MAX_DURATION %q: %w", value, err)
		}
		c.HeadRollMaxDur = v
	case "HEAD_ROLL_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid HEAD_ROLL_COOLDOWN %q: %w", value, err)
		}
		c.HeadRollCooldown = v
	case "DOUBLE_NOD_THRESHOLD":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DOUBLE_NOD_THRESHOLD %q: %w", value, err)
		}
		c.DoubleNodThreshold = v
	case "DOUBLE_NOD_MAX_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DOUBLE_NOD_MAX_DURATION %q: %w", value, err)
		}
		c.DoubleNodMaxDur = v
	case "DOUBLE_NOD_WINDOW":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DOUBLE_NOD_WINDOW %q: %w", value, err)
		}
		c.DoubleNodWindow = v
	case "DOUBLE_NOD_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid DOUBLE_NOD_COOLDOWN %q: %w", value, err)
		}
		c.DoubleNodCooldown = v
	case "DOUBLE_NOD_ACTION":
		if value != "center_cursor" && value != "double_click" {
			return fmt.Errorf("DOUBLE_NOD_ACTION must be center_cursor or double_click, got %q", value)
		}
		c.DoubleNodAction = value
	case "SCROLL_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SCROLL_COOLDOWN %q: %w", value, err)
		}
		c.ScrollCooldown = v
	case "SCROLL_AMOUNT":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SCROLL_AMOUNT %q: %w", value, err)
		}
		c.ScrollAmount = v
	case "NAV_COOLDOWN":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid NAV_COOLDOWN %q: %w", value, err)
		}
		c.NavCooldown = v
	case "POST_ACTION_GRACE_DURATION":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid POST_ACTION_GRACE_DURATION %q: %w", value, err)
		}
		c.PostActionGraceDur = v
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = v
	case "REPLAY_PATH":
		c.ReplayPath = value
	case "REPLAY_LOOP":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid REPLAY_LOOP %q: %w", value, err)
		}
		c.ReplayLoop = v
	case "REPLAY_FAST":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid REPLAY_FAST %q: %w", value, err)
		}
		c.ReplayFast = v
	case "CLASSIFIER_MODEL_PATH":
		c.ClassifierModelPath = value
	case "CLASSIFIER_SCALER_PATH":
		c.ClassifierScalerPath = value
	case "ML_WINDOW_SIZE":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ML_WINDOW_SIZE %q: %w", value, err)
		}
		c.MLWindowSize = v
	case "ML_WINDOW_STEP":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid ML_WINDOW_STEP %q: %w", value, err)
		}
		c.MLWindowStep = v
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "MQTT_TOPIC":
		c.MQTTTopic = value
	case "WS_LISTEN_ADDR":
		c.WSListenAddr = value
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks cross-field invariants that Default() alone can't violate
// but a hand-edited config file can.
func (c *Config) validate() error {
	if c.SampleRateHz <= 0 {
		return fmt.Errorf("SAMPLE_RATE_HZ must be positive")
	}
	if c.EOGLowpassCutoffHz <= 0 || c.EOGLowpassCutoffHz >= float64(c.SampleRateHz)/2 {
		return fmt.Errorf("EOG_LOWPASS_CUTOFF_HZ must be in (0, nyquist)")
	}
	if c.BlinkMinDuration >= c.BlinkMaxDuration {
		return fmt.Errorf("BLINK_MIN_DURATION must be < BLINK_MAX_DURATION")
	}
	if c.LongBlinkMinDur >= c.LongBlinkMaxDur {
		return fmt.Errorf("LONG_BLINK_MIN_DURATION must be < LONG_BLINK_MAX_DURATION")
	}
	if c.LookDownThreshold >= c.LookUpThreshold {
		return fmt.Errorf("LOOK_DOWN_THRESHOLD must be < LOOK_UP_THRESHOLD")
	}
	if c.LookLeftThreshold >= c.LookRightThreshold {
		return fmt.Errorf("LOOK_LEFT_THRESHOLD must be < LOOK_RIGHT_THRESHOLD")
	}
	if c.MLWindowStep > c.MLWindowSize {
		return fmt.Errorf("ML_WINDOW_STEP must be <= ML_WINDOW_SIZE")
	}
	return nil
}

// Package-level singleton, mirroring the teacher's InitGlobal/Get pattern:
// the only way external code can set or read the global configuration,
// protected by a RWMutex so readers never block each other.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// InitGlobal initializes the global configuration from file. If configPath
// is empty, the built-in defaults are used without reading a file.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if configPath == "" {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this returns nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
