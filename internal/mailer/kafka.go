package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka enqueues messages on a topic consumed by the delivery worker. The
// produce is synchronous so the caller knows the message is durably queued;
// actual SMTP delivery and retry happen downstream.
type Kafka struct {
	producer *kgo.Client
	topic    string
}

func NewKafka(producer *kgo.Client, topic string) *Kafka {
	return &Kafka{producer: producer, topic: topic}
}

func (k *Kafka) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(msg.To),
		Value: payload,
	}
	if err := k.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("enqueue outbound message: %w", err)
	}
	return nil
}
