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
	flag.Parse()

	log.Println("starting sensehat-controller web server (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Note: readings only arrive while sensehat_controller is running")

	if err := app.RunWeb(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
