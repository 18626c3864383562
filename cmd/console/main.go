// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/sensehat_controller/internal/app"
)

func main() {
	mode := flag.String("mode", "threaded", "controller mode: threaded or sync")
	flag.Parse()

	log.Println("starting sensehat-controller (mock console)")

	if err := app.RunMockConsole(*mode); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
