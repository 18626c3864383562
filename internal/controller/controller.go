// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package controller turns Sense HAT motion into LED color.
//
// Each poll reads acceleration and angular rate, and publishes an immutable
// state record holding the samples, the gyro delta and the quadrature
// acceleration. Rendering maps the quadrature onto the palette and fills the
// LED matrix.
//
// Two call patterns are supported on one Controller, but not at once:
//
//   - synchronous: the caller invokes Run once per control tick (poll, then
//     render);
//   - threaded: Update runs in its own goroutine and owns polling, while the
//     caller invokes RunThreaded to render the latest published state.
package controller

import (
	"context"
	"errors"
	"image/color"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/sensehat_controller/internal/colormodel"
	"github.com/relabs-tech/sensehat_controller/internal/imu"
	"github.com/relabs-tech/sensehat_controller/internal/sensehat"
)

// pingEvery is the number of background iterations between liveness logs.
const pingEvery = 1000

// Options configures a Controller.
type Options struct {
	PollInterval   time.Duration // sleep between background polls
	Warmup         time.Duration // pause after the welcome banner
	WelcomeMessage string        // "" skips the banner
	ScrollSpeed    time.Duration // banner time per column

	// Palette maps quadrature to color; the zero Model selects the default.
	Palette colormodel.Model

	// AccelZFromX copies the x axis into z on every poll. Older vehicle
	// loops were tuned against that axis mapping.
	AccelZFromX bool

	Logger *log.Logger
}

// DefaultOptions returns a 10ms poll interval, a 2s warm-up and the "HI!!"
// banner.
func DefaultOptions() Options {
	return Options{
		PollInterval:   10 * time.Millisecond,
		Warmup:         2 * time.Second,
		WelcomeMessage: "HI!!",
		ScrollSpeed:    50 * time.Millisecond,
		Palette:        colormodel.Default(),
	}
}

// state is one published poll result. It is never mutated once stored.
type state struct {
	accel     imu.Vec3
	prevAccel imu.Vec3
	gyro      imu.Vec3
	prevGyro  imu.Vec3
	gyroDelta imu.Vec3
	quad      float64
}

func (s *state) reading() imu.Reading {
	return imu.Reading{
		Acceleration:     s.accel,
		AngularRate:      s.gyro,
		AngularRateDelta: s.gyroDelta,
	}
}

// Controller owns a Device exclusively.
type Controller struct {
	dev    sensehat.Device
	opts   Options
	logger *log.Logger

	// ioMu serializes all device I/O; Shutdown takes it so an in-flight
	// read finishes before the matrix is cleared.
	ioMu   sync.Mutex
	closed bool

	state atomic.Pointer[state]

	colorMu   sync.Mutex
	dispColor color.RGBA

	on         atomic.Bool
	iterations atomic.Uint64
	stopOnce   sync.Once
	stopCh     chan struct{}
	stopErr    error
}

// OpenFunc acquires the device handle.
type OpenFunc func() (sensehat.Device, error)

// Open acquires a device with open and constructs a Controller on it. Any
// failure is a *DeviceInitError.
func Open(open OpenFunc, opts Options) (*Controller, error) {
	dev, err := open()
	if err != nil {
		return nil, &DeviceInitError{Err: err}
	}
	c, err := New(dev, opts)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return c, nil
}

// New takes ownership of dev, seeds state from one synchronous read, shows
// the welcome banner on the central color and waits opts.Warmup before
// returning.
func New(dev sensehat.Device, opts Options) (*Controller, error) {
	if dev == nil {
		return nil, &DeviceInitError{Err: errors.New("no device")}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if opts.Palette == (colormodel.Model{}) {
		opts.Palette = colormodel.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		dev:       dev,
		opts:      opts,
		logger:    logger,
		dispColor: opts.Palette.Central(),
		stopCh:    make(chan struct{}),
	}

	accel, err := dev.ReadAcceleration()
	if err != nil {
		return nil, &DeviceInitError{Err: err}
	}
	gyro, err := dev.ReadAngularRate()
	if err != nil {
		return nil, &DeviceInitError{Err: err}
	}
	// Before any poll the delta is taken against a zero rate.
	c.state.Store(&state{
		accel:     accel,
		prevAccel: accel,
		gyro:      gyro,
		prevGyro:  gyro,
		gyroDelta: gyro,
		quad:      accel.Norm(),
	})

	if opts.WelcomeMessage != "" {
		if err := dev.ShowMessage(opts.WelcomeMessage, opts.ScrollSpeed, sensehat.Red, c.dispColor); err != nil {
			return nil, &DeviceInitError{Err: err}
		}
	}
	time.Sleep(opts.Warmup)

	c.on.Store(true)
	c.logger.Printf("controller: startup completed (quadrature=%.3f poll=%s)", accel.Norm(), opts.PollInterval)
	return c, nil
}

// Poll reads both sensors and publishes a new state: acceleration replaced,
// gyro delta taken against the previous rate, quadrature recomputed.
func (c *Controller) Poll() error {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()
	if c.closed {
		return ErrClosed
	}

	accel, err := c.dev.ReadAcceleration()
	if err != nil {
		return &TransientReadError{Op: "acceleration", Err: err}
	}
	gyro, err := c.dev.ReadAngularRate()
	if err != nil {
		return &TransientReadError{Op: "angular rate", Err: err}
	}
	if c.opts.AccelZFromX {
		accel[2] = accel[0]
	}

	prev := c.state.Load()
	c.state.Store(&state{
		accel:     accel,
		prevAccel: prev.accel,
		gyro:      gyro,
		prevGyro:  prev.gyro,
		gyroDelta: gyro.Sub(prev.gyro),
		quad:      accel.Norm(),
	})
	return nil
}

// UpdateQuadratureColor derives the display color from the latest state and
// remembers it for SetLEDToQuadColor.
func (c *Controller) UpdateQuadratureColor() color.RGBA {
	return c.setColor(c.state.Load())
}

func (c *Controller) setColor(s *state) color.RGBA {
	col := c.opts.Palette.RGBA(s.quad)
	c.colorMu.Lock()
	c.dispColor = col
	c.colorMu.Unlock()
	return col
}

// SetLEDToQuadColor fills the whole matrix with the current display color.
func (c *Controller) SetLEDToQuadColor() error {
	col := c.DisplayColor()

	c.ioMu.Lock()
	defer c.ioMu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.dev.Fill(col)
}

// Run polls, recolors the matrix and returns the post-poll reading.
func (c *Controller) Run() (imu.Reading, error) {
	if err := c.Poll(); err != nil {
		return imu.Reading{}, err
	}
	return c.render(c.state.Load())
}

// RunThreaded recolors the matrix from whatever state Update last
// published and returns that reading. It never touches the sensors.
func (c *Controller) RunThreaded() (imu.Reading, error) {
	return c.render(c.state.Load())
}

func (c *Controller) render(s *state) (imu.Reading, error) {
	c.setColor(s)
	if err := c.SetLEDToQuadColor(); err != nil {
		return s.reading(), err
	}
	return s.reading(), nil
}

// Update polls every PollInterval until Shutdown or ctx is done. Read errors
// are logged and skipped.
func (c *Controller) Update(ctx context.Context) error {
	c.logger.Printf("controller: threaded update started")

	wait := time.NewTimer(c.opts.PollInterval)
	defer wait.Stop()

	failures := 0
	for c.on.Load() {
		n := c.iterations.Load()
		ping := n%pingEvery == 0
		if ping {
			c.logger.Printf("controller: update loop ping (iteration %d)", n)
		}

		err := c.Poll()
		switch {
		case errors.Is(err, ErrClosed):
			c.logger.Printf("controller: threaded update exiting")
			return nil
		case err != nil:
			failures++
			if failures == 1 || failures%pingEvery == 0 {
				c.logger.Printf("controller: poll failed (%d in a row): %v", failures, err)
			}
		default:
			if failures > 0 {
				c.logger.Printf("controller: poll recovered after %d failures", failures)
				failures = 0
			}
		}

		if ping {
			c.logger.Printf("controller: update loop ping, poll called")
		}
		c.iterations.Add(1)

		wait.Reset(c.opts.PollInterval)
		select {
		case <-ctx.Done():
			c.logger.Printf("controller: threaded update exiting: %v", ctx.Err())
			return ctx.Err()
		case <-c.stopCh:
		case <-wait.C:
		}
	}

	c.logger.Printf("controller: threaded update exiting")
	return nil
}

// Shutdown stops Update, waits for any in-flight device I/O, clears the
// matrix and releases the device. Later calls return the first result.
func (c *Controller) Shutdown() error {
	c.stopOnce.Do(func() {
		c.on.Store(false)
		close(c.stopCh)

		c.ioMu.Lock()
		c.closed = true
		c.stopErr = errors.Join(c.dev.Clear(), c.dev.Close())
		c.ioMu.Unlock()

		c.logger.Printf("controller: shutdown completed")
	})
	return c.stopErr
}

// Running reports whether Shutdown has not yet been called.
func (c *Controller) Running() bool { return c.on.Load() }

// Iterations returns how many background polls Update has made.
func (c *Controller) Iterations() uint64 { return c.iterations.Load() }

// Latest returns the most recently published reading without touching the
// device.
func (c *Controller) Latest() imu.Reading { return c.state.Load().reading() }

// Quadrature returns the L2 norm of the latest acceleration sample.
func (c *Controller) Quadrature() float64 { return c.state.Load().quad }

// DisplayColor returns the color most recently derived.
func (c *Controller) DisplayColor() color.RGBA {
	c.colorMu.Lock()
	defer c.colorMu.Unlock()
	return c.dispColor
}
