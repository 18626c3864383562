// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/sensehat_controller/internal/config"
	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

func formatReading(r imu.Reading) string {
	a, g, d := r.Acceleration, r.AngularRate, r.AngularRateDelta
	return fmt.Sprintf(
		"[IMU] ax=%7.3f ay=%7.3f az=%7.3f |a|=%6.3f  gx=%7.3f gy=%7.3f gz=%7.3f  dgx=%7.3f dgy=%7.3f dgz=%7.3f",
		a[0], a[1], a[2], a.Norm(), g[0], g[1], g[2], d[0], d[1], d[2],
	)
}

// RunConsoleMQTT prints every reading published by the controller.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := SubscribeReadings(client, cfg.TopicReading, "console", func(r imu.Reading) {
		fmt.Println(formatReading(r))
	}); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
