// Package publisher mirrors committed audit entries to a Kafka topic.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"saasbase/internal/platform/kafka/producer"
	"saasbase/pkg/platform/audit"
)

// Producer is the subset of the Kafka producer the publisher needs.
type Producer interface {
	ProduceAsync(msg *producer.Message) error
}

// Publisher implements audit.Mirror. Records are keyed by tenant so a
// tenant's entries stay ordered within one partition.
type Publisher struct {
	producer Producer
	topic    string
}

func New(p Producer, topic string) *Publisher {
	return &Publisher{producer: p, topic: topic}
}

func (p *Publisher) Publish(_ context.Context, entry audit.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	return p.producer.ProduceAsync(&producer.Message{
		Topic: p.topic,
		Key:   []byte(entry.TenantID.String()),
		Value: payload,
		Headers: map[string]string{
			"action":      string(entry.Action),
			"entity_type": string(entry.EntityType),
		},
	})
}
