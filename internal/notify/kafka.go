package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huntclub/hunt-api/internal/domain"
)

// Publisher is satisfied by *infra.KafkaProducer.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// KafkaSink publishes a redemption event keyed by team.
type KafkaSink struct {
	producer Publisher
}

func NewKafkaSink(producer Publisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, r domain.Redemption) error {
	evt, err := domain.NewRedemptionEvent(r)
	if err != nil {
		return err
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.producer.Publish(ctx, []byte(evt.PartitionKey), value); err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType, err)
	}
	return nil
}
