// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensehat

import (
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

// Mock is a Device with no hardware behind it. Acceleration oscillates
// around 1 g on z so the derived color sweeps through the palette, and the
// LED state is kept in memory.
type Mock struct {
	start time.Time

	mu     sync.Mutex
	led    color.RGBA
	fills  int
	clears int
}

// NewMock creates a mock board whose motion starts now.
func NewMock() *Mock {
	return &Mock{start: time.Now()}
}

func (m *Mock) ReadAcceleration() (imu.Vec3, error) {
	t := time.Since(m.start).Seconds()
	return imu.Vec3{
		0.3 * math.Sin(t*0.9),
		0.2 * math.Cos(t*1.3),
		1 + 1.2*math.Sin(t*0.5),
	}, nil
}

func (m *Mock) ReadAngularRate() (imu.Vec3, error) {
	t := time.Since(m.start).Seconds()
	return imu.Vec3{
		0.5 * math.Sin(t),
		0.25 * math.Cos(t*0.7),
		math.Mod(t, 2*math.Pi) - math.Pi,
	}, nil
}

func (m *Mock) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.led = color.RGBA{}
	m.clears++
	return nil
}

func (m *Mock) Fill(c color.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.led = c
	m.fills++
	return nil
}

// ShowMessage leaves the matrix showing the background color; it does not
// block.
func (m *Mock) ShowMessage(_ string, _ time.Duration, _, backColor color.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.led = backColor
	return nil
}

func (m *Mock) Close() error { return nil }

// LED returns the color currently filling the matrix.
func (m *Mock) LED() color.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.led
}

// Counts returns how many times Fill and Clear have been called.
func (m *Mock) Counts() (fills, clears int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fills, m.clears
}
