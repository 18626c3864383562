// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/sensehat_controller/internal/imu"
)

// Publisher hands readings to the vehicle-control loop.
type Publisher interface {
	Publish(r imu.Reading) error
}

// MQTTPublisher publishes each reading as retained JSON on one topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// ConnectMQTT connects to broker as clientID.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// NewMQTTPublisher publishes on topic through an already connected client.
func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

// Publish implements Publisher.
func (p *MQTTPublisher) Publish(r imu.Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("json marshal (reading): %w", err)
	}
	if token := p.client.Publish(p.topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish (%s): %w", p.topic, token.Error())
	}
	return nil
}

// Close disconnects the client.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// SubscribeReadings calls fn for every reading published on topic.
// Payloads that do not decode are logged by component and dropped.
func SubscribeReadings(client mqtt.Client, topic, component string, fn func(imu.Reading)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		r, err := decodeReading(msg.Payload())
		if err != nil {
			log.Printf("%s: reading unmarshal error: %v", component, err)
			return
		}
		fn(r)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("%s: subscribed to %s", component, topic)
	return nil
}

func decodeReading(payload []byte) (imu.Reading, error) {
	var r imu.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return imu.Reading{}, err
	}
	return r, nil
}
