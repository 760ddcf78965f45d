// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher pushes one Sample per tick to an MQTT broker. It is
// deliberately best-effort: a failed publish is logged and dropped,
// never retried against the sample clock.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher connects to broker with the given client ID and topic.
func NewPublisher(broker, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &Publisher{client: client, topic: topic}, nil
}

// Publish marshals s and publishes it to the configured topic at QoS 0.
func (p *Publisher) Publish(s Sample) {
	payload, err := json.Marshal(s)
	if err != nil {
		log.Printf("telemetry: marshal error: %v", err)
		return
	}
	if token := p.client.Publish(p.topic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("telemetry: publish error: %v", token.Error())
	}
}

// Close disconnects from the broker, waiting up to 250ms to flush.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
