// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/sensehat_controller/internal/config"
	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// wsBacklog is how many readings may queue per websocket client before
// newer readings are dropped for it.
const wsBacklog = 16

// readingHub keeps the latest reading and fans new ones out to websocket
// clients.
type readingHub struct {
	mu      sync.RWMutex
	last    imu.Reading
	have    bool
	clients map[chan imu.Reading]struct{}
}

func newReadingHub() *readingHub {
	return &readingHub{clients: make(map[chan imu.Reading]struct{})}
}

func (h *readingHub) update(r imu.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = r
	h.have = true
	for ch := range h.clients {
		select {
		case ch <- r:
		default:
		}
	}
}

// subscribe registers a client and returns its channel, primed with the
// latest reading if there is one.
func (h *readingHub) subscribe() chan imu.Reading {
	ch := make(chan imu.Reading, wsBacklog)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
	if h.have {
		ch <- h.last
	}
	return ch
}

func (h *readingHub) unsubscribe(ch chan imu.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

func (h *readingHub) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/reading", h.handleReading)
	mux.HandleFunc("/ws/reading", h.handleReadingWS)
	return mux
}

// handleReading serves the latest reading as JSON.
func (h *readingHub) handleReading(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.have {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.last); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// handleReadingWS pushes every reading to the client until it disconnects.
func (h *readingHub) handleReadingWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	// The client never sends anything; reading only detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case reading := <-ch:
			if err := conn.WriteJSON(reading); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	}
}

// RunWeb subscribes to the reading topic and serves it over HTTP and
// websocket.
func RunWeb() error {
	cfg := config.Get()
	hub := newReadingHub()

	client, err := ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := SubscribeReadings(client, cfg.TopicReading, "web", hub.update); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, hub.routes())
}
