// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relabs-tech/sensehat_controller/internal/colormodel"
	"github.com/relabs-tech/sensehat_controller/internal/config"
	"github.com/relabs-tech/sensehat_controller/internal/controller"
	"github.com/relabs-tech/sensehat_controller/internal/imu"
	"github.com/relabs-tech/sensehat_controller/internal/sensehat"
)

// tickLogEvery is the number of drive ticks between summary log lines.
const tickLogEvery = 200

func controllerOptions(cfg *config.Config) controller.Options {
	return controller.Options{
		PollInterval:   cfg.PollInterval(),
		Warmup:         cfg.Warmup(),
		WelcomeMessage: cfg.WelcomeMessage,
		ScrollSpeed:    cfg.ScrollSpeed(),
		Palette:        colormodel.New(cfg.ColorCentral, cfg.ColorMax, cfg.ColorMin),
		AccelZFromX:    cfg.AccelZFromX,
	}
}

func openSenseHat(cfg *config.Config, useMock bool) controller.OpenFunc {
	return func() (sensehat.Device, error) {
		if useMock {
			log.Println("using mock Sense HAT")
			return sensehat.NewMock(), nil
		}
		return sensehat.Open(sensehat.Opts{
			Bus:     cfg.SenseHatI2CBus,
			IMUAddr: cfg.SenseHatIMUAddr,
			LEDAddr: cfg.SenseHatLEDAddr,
		})
	}
}

// RunController drives the Sense HAT and publishes every reading to MQTT
// until SIGINT or SIGTERM.
func RunController(useMock bool) error {
	cfg := config.Get()

	ctl, err := controller.Open(openSenseHat(cfg, useMock), controllerOptions(cfg))
	if err != nil {
		return err
	}

	client, err := ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDController)
	if err != nil {
		ctl.Shutdown()
		return err
	}
	pub := NewMQTTPublisher(client, cfg.TopicReading)
	defer pub.Close()
	log.Printf("controller: connected to MQTT broker at %s, publishing to %s", cfg.MQTTBroker, cfg.TopicReading)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.DriveLoopInterval) * time.Millisecond
	return drive(ctx, ctl, cfg.ControllerMode, interval, pub)
}

// drive runs ctl in the given mode until ctx is done, then shuts it down.
func drive(ctx context.Context, ctl *controller.Controller, mode string, interval time.Duration, pub Publisher) error {
	tick := ctl.Run
	var wg sync.WaitGroup
	if mode == config.ModeThreaded {
		tick = ctl.RunThreaded
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctl.Update(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("controller: update loop: %v", err)
			}
		}()
	}
	log.Printf("controller: %s mode, drive tick every %s", mode, interval)

	err := driveLoop(ctx, tick, pub, interval)

	if serr := ctl.Shutdown(); serr != nil {
		log.Printf("controller: shutdown: %v", serr)
	}
	wg.Wait()
	return err
}

// driveLoop calls tick every interval and publishes the result. Tick errors
// are logged and skipped unless the controller has been shut down.
func driveLoop(ctx context.Context, tick func() (imu.Reading, error), pub Publisher, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		r, err := tick()
		if errors.Is(err, controller.ErrClosed) {
			return err
		}
		if err != nil {
			log.Printf("controller: tick error: %v", err)
			continue
		}

		if err := pub.Publish(r); err != nil {
			log.Printf("controller: %v", err)
			continue
		}

		n++
		if n%tickLogEvery == 1 {
			log.Printf("controller tick %d: accel x=%.3f y=%.3f z=%.3f |a|=%.3f | gyro x=%.3f y=%.3f z=%.3f | dgyro x=%.3f y=%.3f z=%.3f",
				n,
				r.Acceleration[0], r.Acceleration[1], r.Acceleration[2], r.Acceleration.Norm(),
				r.AngularRate[0], r.AngularRate[1], r.AngularRate[2],
				r.AngularRateDelta[0], r.AngularRateDelta[1], r.AngularRateDelta[2],
			)
		}
	}
}
