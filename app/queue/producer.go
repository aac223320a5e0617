package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type VacancyProducer struct {
	client *redis.Client
}

// NewVacancyProducer constructs a Redis stream producer.
func NewVacancyProducer(client *redis.Client) *VacancyProducer {
	return &VacancyProducer{client: client}
}

// Publish pushes a vacancy event onto the stream.
func (p *VacancyProducer) Publish(ctx context.Context, msg VacancyMessage) error {
	if msg.Type == "" {
		msg.Type = EventTypeVacancy
	}
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]interface{}{
			"type":      msg.Type,
			"source":    msg.Source,
			"timestamp": msg.Timestamp,
			"payload":   msg.Payload,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd to %s: %w", StreamName, err)
	}
	return nil
}
