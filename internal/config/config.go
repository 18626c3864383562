// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/sensehat_controller/internal/colormodel"
)

// Controller modes.
const (
	ModeThreaded = "threaded"
	ModeSync     = "sync"
)

// Config holds all application configuration values.
type Config struct {
	// Sense HAT hardware
	SenseHatI2CBus  string
	SenseHatIMUAddr uint16
	SenseHatLEDAddr uint16

	// Controller timing
	PollIntervalSeconds float64 // background poll sleep
	WarmupSeconds       float64 // pause after the welcome banner
	DriveLoopInterval   int     // milliseconds between controller ticks
	ControllerMode      string  // "threaded" or "sync"

	// Welcome banner
	WelcomeMessage     string
	ScrollSpeedSeconds float64

	// Palette
	ColorCentral color.RGBA
	ColorMax     color.RGBA
	ColorMin     color.RGBA

	// Copy accel x into z on every poll (legacy axis mapping)
	AccelZFromX bool

	// MQTT
	MQTTBroker             string
	MQTTClientIDController string
	MQTTClientIDConsole    string
	MQTTClientIDWeb        string
	MQTTClientIDDisplay    string

	// Topics
	TopicReading string

	// Web Server
	WebServerPort int

	// Status display (SSD1306)
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config populated with the stock values. Load starts
// from these, so a config file only needs the keys it changes.
func Default() *Config {
	return &Config{
		SenseHatIMUAddr:        0x6a,
		SenseHatLEDAddr:        0x46,
		PollIntervalSeconds:    0.01,
		WarmupSeconds:          2.0,
		DriveLoopInterval:      50,
		ControllerMode:         ModeThreaded,
		WelcomeMessage:         "HI!!",
		ScrollSpeedSeconds:     0.05,
		ColorCentral:           colormodel.DefaultCentral,
		ColorMax:               colormodel.DefaultMax,
		ColorMin:               colormodel.DefaultMin,
		MQTTClientIDController: "sensehat-controller",
		MQTTClientIDConsole:    "sensehat-console",
		MQTTClientIDWeb:        "sensehat-web",
		MQTTClientIDDisplay:    "sensehat-display",
		TopicReading:           "sensehat/reading",
		WebServerPort:          8080,
		DisplayUpdateInterval:  200,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
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

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Sense HAT hardware
	case "SENSEHAT_I2C_BUS":
		c.SenseHatI2CBus = value
	case "SENSEHAT_IMU_ADDR":
		return parseAddr(key, value, &c.SenseHatIMUAddr)
	case "SENSEHAT_LED_ADDR":
		return parseAddr(key, value, &c.SenseHatLEDAddr)

	// Controller timing
	case "POLL_INTERVAL_SECONDS":
		return parseSeconds(key, value, &c.PollIntervalSeconds)
	case "WARMUP_SECONDS":
		return parseSeconds(key, value, &c.WarmupSeconds)
	case "DRIVE_LOOP_INTERVAL":
		return parseInterval(key, value, &c.DriveLoopInterval)
	case "CONTROLLER_MODE":
		if value != ModeThreaded && value != ModeSync {
			return fmt.Errorf("CONTROLLER_MODE must be %q or %q, got %q", ModeThreaded, ModeSync, value)
		}
		c.ControllerMode = value

	// Welcome banner
	case "WELCOME_MESSAGE":
		c.WelcomeMessage = value
	case "SCROLL_SPEED_SECONDS":
		return parseSeconds(key, value, &c.ScrollSpeedSeconds)

	// Palette
	case "COLOR_CENTRAL":
		return parseColor(key, value, &c.ColorCentral)
	case "COLOR_MAX":
		return parseColor(key, value, &c.ColorMax)
	case "COLOR_MIN":
		return parseColor(key, value, &c.ColorMin)

	case "ACCEL_Z_FROM_X":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_Z_FROM_X %q: %w", value, err)
		}
		c.AccelZFromX = b

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_CONTROLLER":
		c.MQTTClientIDController = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_READING":
		c.TopicReading = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port

	// Status display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		return parseInterval(key, value, &c.DisplayUpdateInterval)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseAddr(key, value string, dst *uint16) error {
	addr, err := strconv.ParseUint(value, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if addr > 0x7F {
		return fmt.Errorf("%s must be a 7-bit I2C address, got 0x%X", key, addr)
	}
	*dst = uint16(addr)
	return nil
}

func parseSeconds(key, value string, dst *float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative, got %v", key, v)
	}
	*dst = v
	return nil
}

func parseInterval(key, value string, dst *int) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = v
	return nil
}

func parseColor(key, value string, dst *color.RGBA) error {
	c, err := colormodel.ParseRGB(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = c
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicReading == "" {
		return fmt.Errorf("TOPIC_READING is required")
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if c.DriveLoopInterval <= 0 {
		return fmt.Errorf("DRIVE_LOOP_INTERVAL must be positive")
	}
	if c.DisplayUpdateInterval <= 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive")
	}
	return nil
}

// PollInterval returns PollIntervalSeconds as a Duration.
func (c *Config) PollInterval() time.Duration { return seconds(c.PollIntervalSeconds) }

// Warmup returns WarmupSeconds as a Duration.
func (c *Config) Warmup() time.Duration { return seconds(c.WarmupSeconds) }

// ScrollSpeed returns ScrollSpeedSeconds as a Duration.
func (c *Config) ScrollSpeed() time.Duration { return seconds(c.ScrollSpeedSeconds) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
