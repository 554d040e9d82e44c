package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer      messageWriter
	ordersTopic string
	alertsTopic string
}

// NewKafkaPublisher routes each message to its topic; the writer itself has
// no default topic.
func NewKafkaPublisher(cfg config.Kafka) Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return newKafkaPublisher(w, cfg.OrdersTopic, cfg.AlertsTopic)
}

func newKafkaPublisher(w messageWriter, ordersTopic, alertsTopic string) *kafkaPublisher {
	return &kafkaPublisher{writer: w, ordersTopic: ordersTopic, alertsTopic: alertsTopic}
}

func (p *kafkaPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	return p.publish(ctx, p.ordersTopic, event)
}

func (p *kafkaPublisher) PublishOperatorAlert(ctx context.Context, event OrderEvent) error {
	return p.publish(ctx, p.alertsTopic, event)
}

func (p *kafkaPublisher) publish(ctx context.Context, topic string, event OrderEvent) error {

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.OrderID.String()), // order id keeps per-order ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, topic, err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
