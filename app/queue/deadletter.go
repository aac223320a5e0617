package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DeadLetterSink parks events that must not be retried but must not be
// silently dropped either: malformed payloads and messages that exhausted
// their delivery budget. Raw payload and reason are kept for operators.
type DeadLetterSink struct {
	client *redis.Client
}

// NewDeadLetterSink constructs a sink writing to the dead-letter stream.
func NewDeadLetterSink(client *redis.Client) *DeadLetterSink {
	return &DeadLetterSink{client: client}
}

// Park stores the raw payload with the failure reason.
func (s *DeadLetterSink) Park(ctx context.Context, msgID, source, payload, reason string) error {
	_, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: DeadLetterStream,
		Values: map[string]interface{}{
			"origin_id": msgID,
			"source":    source,
			"payload":   payload,
			"reason":    reason,
			"failed_at": time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd to %s: %w", DeadLetterStream, err)
	}
	return nil
}
