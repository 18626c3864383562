// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/sensehat_controller/internal/app"
	"github.com/relabs-tech/sensehat_controller/internal/config"
)

func main() {
	configPath := flag.String("config", "./sensehat_config.txt", "path to configuration file")
	useMock := flag.Bool("mock", false, "use a simulated Sense HAT instead of the I2C hardware")
	flag.Parse()

	log.Println("starting sensehat-controller (Sense HAT → LED + MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunController(*useMock); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
