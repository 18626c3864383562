// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensehat drives the Raspberry Pi Sense HAT: the LSM9DS1
// accelerometer/gyroscope and the 8x8 RGB LED matrix.
package sensehat

import (
	"image/color"
	"time"

	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

// Device is the sensor/LED board as seen by the controller.
type Device interface {
	// ReadAcceleration returns the acceleration in g.
	ReadAcceleration() (imu.Vec3, error)
	// ReadAngularRate returns the angular rate in rad/s.
	ReadAngularRate() (imu.Vec3, error)
	// Clear turns every LED off.
	Clear() error
	// Fill sets every LED to c.
	Fill(c color.RGBA) error
	// ShowMessage scrolls text across the matrix, one column per scrollSpeed,
	// and blocks until the text has left the display.
	ShowMessage(text string, scrollSpeed time.Duration, textColor, backColor color.RGBA) error
	Close() error
}

// Red is the banner text color.
var Red = color.RGBA{255, 0, 0, 255}
