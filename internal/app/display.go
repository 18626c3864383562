// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/sensehat_controller/internal/config"
	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

// DisplayData holds the latest reading for the status display.
type DisplayData struct {
	mu      sync.RWMutex
	reading imu.Reading
	have    bool
}

func (d *DisplayData) set(r imu.Reading) {
	d.mu.Lock()
	d.reading = r
	d.have = true
	d.mu.Unlock()
}

func (d *DisplayData) get() (imu.Reading, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.reading, d.have
}

// RunDisplay mirrors the reading topic on an SSD1306 status display.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized on %q", bus)

	if err := dev.Draw(dev.Bounds(), splashImage(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	client, err := ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := SubscribeReadings(client, cfg.TopicReading, "display", data.set); err != nil {
		return fmt.Errorf("failed to subscribe for display: %w", err)
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		r, have := data.get()
		if err := dev.Draw(dev.Bounds(), readingImage(r, have), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func blankImage() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

// readingImage lays out acceleration, quadrature and gyro delta on the
// 128x64 panel.
func readingImage(r imu.Reading, haveData bool) *image1bit.VerticalLSB {
	img, drawer := blankImage()

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawString("Sense HAT")
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawString("Waiting...")
		return img
	}

	a, d := r.Acceleration, r.AngularRateDelta

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawString(fmt.Sprintf("A:%5.2f %5.2f", a[0], a[1]))

	drawer.Dot = fixed.P(0, 26)
	drawer.DrawString(fmt.Sprintf("  %5.2f", a[2]))

	drawer.Dot = fixed.P(0, 39)
	drawer.DrawString(fmt.Sprintf("|A|: %5.2f g", a.Norm()))

	drawer.Dot = fixed.P(0, 52)
	drawer.DrawString(fmt.Sprintf("dG:%5.2f %5.2f", d[0], d[1]))

	return img
}

func splashImage() *image1bit.VerticalLSB {
	img, drawer := blankImage()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawString("Sense HAT")

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawString("Quadrature")

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawString("color")

	return img
}
