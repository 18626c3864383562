// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensehat

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

// Size is the width and height of the LED matrix.
const Size = 8

const gyroRadScale = gyroScale * math.Pi / 180

// Opts selects the bus and addresses of the HAT.
type Opts struct {
	Bus     string // "" opens the first available I2C bus
	IMUAddr uint16
	LEDAddr uint16
}

// DefaultOpts matches the stock Sense HAT wiring.
var DefaultOpts = Opts{IMUAddr: DefaultIMUAddr, LEDAddr: DefaultLEDAddr}

// Dev is a Sense HAT on an I2C bus.
type Dev struct {
	closer i2c.BusCloser
	imu    i2c.Dev
	led    i2c.Dev

	// Sleep between banner frames; replaced in tests.
	sleep func(time.Duration)
}

// Open initializes periph, opens the I2C bus and brings up the HAT.
func Open(opts Opts) (*Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("sensehat: periph host init: %w", err)
	}

	bus, err := i2creg.Open(opts.Bus)
	if err != nil {
		return nil, fmt.Errorf("sensehat: open I2C bus %q: %w", opts.Bus, err)
	}

	d, err := New(bus, opts)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.closer = bus
	log.Printf("sensehat: opened on bus %q (imu=0x%02X led=0x%02X)", opts.Bus, d.imu.Addr, d.led.Addr)
	return d, nil
}

// New brings up a HAT on an already opened bus. The bus is not closed by
// Close.
func New(bus i2c.Bus, opts Opts) (*Dev, error) {
	if opts.IMUAddr == 0 {
		opts.IMUAddr = DefaultIMUAddr
	}
	if opts.LEDAddr == 0 {
		opts.LEDAddr = DefaultLEDAddr
	}
	d := &Dev{
		imu:   i2c.Dev{Bus: bus, Addr: opts.IMUAddr},
		led:   i2c.Dev{Bus: bus, Addr: opts.LEDAddr},
		sleep: time.Sleep,
	}

	id, err := d.ReadRegister(regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("sensehat: IMU WHO_AM_I: %w", err)
	}
	if id != whoAmIValue {
		return nil, fmt.Errorf("sensehat: IMU WHO_AM_I = 0x%02X, want 0x%02X", id, whoAmIValue)
	}

	for _, w := range [][2]byte{
		{regCtrlReg8, ctrlReg8Init},
		{regCtrlReg1G, ctrlReg1GInit},
		{regCtrlReg6XL, ctrlReg6XLInit},
	} {
		if err := d.imu.Tx(w[:], nil); err != nil {
			return nil, fmt.Errorf("sensehat: IMU write 0x%02X: %w", w[0], err)
		}
	}

	wai := []byte{0}
	if err := d.led.Tx([]byte{regLEDWAI}, wai); err != nil {
		return nil, fmt.Errorf("sensehat: LED WAI: %w", err)
	}
	if wai[0] != ledWAIValue {
		return nil, fmt.Errorf("sensehat: LED WAI = 0x%02X, want 0x%02X", wai[0], ledWAIValue)
	}
	return d, nil
}

// ReadRegister reads one LSM9DS1 accel/gyro register.
func (d *Dev) ReadRegister(addr byte) (byte, error) {
	r := []byte{0}
	if err := d.imu.Tx([]byte{addr}, r); err != nil {
		return 0, err
	}
	return r[0], nil
}

// ReadAcceleration implements Device.
func (d *Dev) ReadAcceleration() (imu.Vec3, error) {
	v, err := d.readVec(regOutXLXL)
	if err != nil {
		return imu.Vec3{}, fmt.Errorf("sensehat: read accel: %w", err)
	}
	return imu.Vec3{v[0] * accelScale, v[1] * accelScale, v[2] * accelScale}, nil
}

// ReadAngularRate implements Device.
func (d *Dev) ReadAngularRate() (imu.Vec3, error) {
	v, err := d.readVec(regOutXLG)
	if err != nil {
		return imu.Vec3{}, fmt.Errorf("sensehat: read gyro: %w", err)
	}
	return imu.Vec3{v[0] * gyroRadScale, v[1] * gyroRadScale, v[2] * gyroRadScale}, nil
}

// readVec reads three little-endian int16 values starting at reg.
func (d *Dev) readVec(reg byte) ([3]float64, error) {
	var buf [6]byte
	if err := d.imu.Tx([]byte{reg}, buf[:]); err != nil {
		return [3]float64{}, err
	}
	return [3]float64{
		float64(int16(binary.LittleEndian.Uint16(buf[0:]))),
		float64(int16(binary.LittleEndian.Uint16(buf[2:]))),
		float64(int16(binary.LittleEndian.Uint16(buf[4:]))),
	}, nil
}

// Clear implements Device.
func (d *Dev) Clear() error {
	return d.Fill(color.RGBA{})
}

// Fill implements Device.
func (d *Dev) Fill(c color.RGBA) error {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	return d.Draw(img, image.Point{})
}

// Draw writes the 8x8 window of img starting at sp to the matrix.
func (d *Dev) Draw(img *image.RGBA, sp image.Point) error {
	if err := d.led.Tx(frame(img, sp), nil); err != nil {
		return fmt.Errorf("sensehat: LED write: %w", err)
	}
	return nil
}

// ShowMessage implements Device.
func (d *Dev) ShowMessage(text string, scrollSpeed time.Duration, textColor, backColor color.RGBA) error {
	banner := renderBanner(text, textColor, backColor)
	for x := 0; x+Size <= banner.Bounds().Dx(); x++ {
		if err := d.Draw(banner, image.Point{X: x}); err != nil {
			return err
		}
		d.sleep(scrollSpeed)
	}
	return nil
}

// Close implements Device. It does not clear the matrix.
func (d *Dev) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// frame encodes one 8x8 window into the LED controller's register layout:
// register 0 followed by, for each row, 8 red, 8 green then 8 blue values
// of 5 bits each.
func frame(img *image.RGBA, sp image.Point) []byte {
	b := make([]byte, 1+Size*Size*3)
	b[0] = regLEDData
	for y := 0; y < Size; y++ {
		row := b[1+y*Size*3:]
		for x := 0; x < Size; x++ {
			c := img.RGBAAt(sp.X+x, sp.Y+y)
			row[x] = c.R >> 3
			row[Size+x] = c.G >> 3
			row[2*Size+x] = c.B >> 3
		}
	}
	return b
}
