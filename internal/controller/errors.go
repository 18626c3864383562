// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package controller

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by device operations after Shutdown.
var ErrClosed = errors.New("controller: shut down")

// DeviceInitError means the board could not be opened or gave no initial
// reading. It is not retried.
type DeviceInitError struct {
	Err error
}

func (e *DeviceInitError) Error() string {
	return fmt.Sprintf("controller: device init: %v", e.Err)
}

func (e *DeviceInitError) Unwrap() error { return e.Err }

// TransientReadError is a failed sensor read during Poll. The background
// loop logs it and keeps going; Run returns it to the caller.
type TransientReadError struct {
	Op  string // "acceleration" or "angular rate"
	Err error
}

func (e *TransientReadError) Error() string {
	return fmt.Sprintf("controller: read %s: %v", e.Op, e.Err)
}

func (e *TransientReadError) Unwrap() error { return e.Err }
