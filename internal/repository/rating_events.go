package repository

import (
	"context"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	pkgkafka "RatePull/pkg/kafka"
)

// KafkaEventPublisher implements EventPublisher over the shared Kafka
// producer. Events are keyed by symbol so runs for the same symbol land on
// the same partition in order.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(p *pkgkafka.Producer, topic string) domrepo.EventPublisher {
	return &KafkaEventPublisher{producer: p, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event *models.RatingEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(event.Symbol), event)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}
