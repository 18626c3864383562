// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/sensehat_controller/internal/app"
	"github.com/relabs-tech/sensehat_controller/internal/config"
)

func main() {
	configPath := flag.String("config", "./sensehat_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting LSM9DS1 register dump (Sense HAT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunRegisterDump(os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
