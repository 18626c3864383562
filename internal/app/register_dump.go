// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"

	"github.com/relabs-tech/sensehat_controller/internal/config"
	"github.com/relabs-tech/sensehat_controller/internal/sensehat"
)

// registerReader reads one IMU register.
type registerReader interface {
	ReadRegister(addr byte) (byte, error)
}

// dumpRegisters writes one line per register: address, name, value and
// description. Read failures are reported in place of the value.
func dumpRegisters(w io.Writer, dev registerReader, regs []sensehat.RegisterInfo) error {
	for _, reg := range regs {
		var value string
		if v, err := dev.ReadRegister(reg.Address); err != nil {
			value = fmt.Sprintf("ERR (%v)", err)
		} else {
			value = fmt.Sprintf("0x%02X", v)
		}
		if _, err := fmt.Fprintf(w, "0x%02X %-13s %-2s %s  %s\n", reg.Address, reg.Name, reg.Access, value, reg.Description); err != nil {
			return err
		}
	}
	return nil
}

// RunRegisterDump prints the LSM9DS1 accel/gyro registers of the Sense HAT.
func RunRegisterDump(w io.Writer) error {
	cfg := config.Get()

	dev, err := sensehat.Open(sensehat.Opts{
		Bus:     cfg.SenseHatI2CBus,
		IMUAddr: cfg.SenseHatIMUAddr,
		LEDAddr: cfg.SenseHatLEDAddr,
	})
	if err != nil {
		return err
	}
	defer dev.Close()

	return dumpRegisters(w, dev, sensehat.IMURegisterMap())
}
