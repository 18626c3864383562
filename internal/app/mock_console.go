// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/sensehat_controller/internal/config"
	"github.com/relabs-tech/sensehat_controller/internal/controller"
	"github.com/relabs-tech/sensehat_controller/internal/imu"
	"github.com/relabs-tech/sensehat_controller/internal/sensehat"
)

// consolePublisher prints readings along with the LED color the mock board
// is showing.
type consolePublisher struct {
	board *sensehat.Mock
}

func (p consolePublisher) Publish(r imu.Reading) error {
	c := p.board.LED()
	fmt.Printf("%s  led=(%3d,%3d,%3d)\n", formatReading(r), c.R, c.G, c.B)
	return nil
}

// RunMockConsole runs the controller against a mock board and prints each
// tick. No hardware or broker is needed.
func RunMockConsole(mode string) error {
	opts := controller.DefaultOptions()
	opts.Warmup = 0

	board := sensehat.NewMock()
	ctl, err := controller.New(board, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mode == "" {
		mode = config.ModeThreaded
	}
	return drive(ctx, ctl, mode, 100*time.Millisecond, consolePublisher{board: board})
}
