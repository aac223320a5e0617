package queue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-autoapply/app/dto"
	"github.com/vibast-solutions/ms-go-autoapply/app/service"
)

type VacancyConsumer struct {
	client       *redis.Client
	dispatcher   *service.Dispatcher
	deadLetter   *DeadLetterSink
	stats        *service.Stats
	log          *logrus.Logger
	consumerName string

	// DispatchTimeout bounds processing of one event; MaxDeliveries is the
	// redelivery budget before a message is parked on the dead-letter
	// stream.
	DispatchTimeout time.Duration
	MaxDeliveries   int64
}

// NewVacancyConsumer constructs a Redis stream consumer for vacancy events.
func NewVacancyConsumer(client *redis.Client, dispatcher *service.Dispatcher, deadLetter *DeadLetterSink, stats *service.Stats, log *logrus.Logger, consumerName string) *VacancyConsumer {
	return &VacancyConsumer{
		client:          client,
		dispatcher:      dispatcher,
		deadLetter:      deadLetter,
		stats:           stats,
		log:             log,
		consumerName:    consumerName,
		DispatchTimeout: time.Minute,
		MaxDeliveries:   5,
	}
}

// Run starts the consumer loop and blocks until context cancellation.
// Shutdown is graceful: the loop stops claiming new messages and the
// in-flight dispatch finishes or times out.
func (c *VacancyConsumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"consumer": c.consumerName,
		"stream":   StreamName,
	}).Info("consumer started")

	// First drain this consumer's pending messages, then switch to new ones.
	startID := "0"
	for {
		select {
		case <-ctx.Done():
			c.log.Info("consumer shutting down")
			return nil
		default:
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    ConsumerGroup,
			Consumer: c.consumerName,
			Streams:  []string{StreamName, startID},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				if startID == "0" {
					startID = ">"
				}
				continue
			}
			if ctx.Err() != nil {
				c.log.Info("consumer shutting down")
				return nil
			}
			c.log.WithError(err).Error("xreadgroup failed")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			if len(stream.Messages) == 0 && startID == "0" {
				// Pending backlog drained.
				startID = ">"
				continue
			}
			for _, msg := range stream.Messages {
				c.processMessage(ctx, msg)
			}
		}
	}
}

// processMessage handles one stream entry. Acknowledgement policy: ack when
// the event is a no-op or every target settled (sent/skipped); dead-letter
// then ack on validation failure or an exhausted delivery budget; otherwise
// leave the message pending for redelivery.
func (c *VacancyConsumer) processMessage(ctx context.Context, msg redis.XMessage) {
	envelope := decodeEnvelope(msg)
	entry := c.log.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"source":     envelope.Source,
	})

	if envelope.Type != "" && envelope.Type != EventTypeVacancy {
		entry.WithField("type", envelope.Type).Debug("ignoring non-vacancy event")
		c.ack(ctx, msg.ID)
		return
	}

	event, err := dto.Decode([]byte(envelope.Payload))
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		entry.WithError(err).Warn("event failed validation, dead-lettering")
		c.park(ctx, msg, envelope, "validation: "+err.Error())
		return
	}

	dispatchCtx := service.WithEventID(ctx, msg.ID)
	dispatchCtx, cancel := context.WithTimeout(dispatchCtx, c.DispatchTimeout)
	defer cancel()

	result, err := c.dispatcher.Dispatch(dispatchCtx, event)
	if err != nil {
		entry.WithError(err).Error("dispatch failed, message stays pending")
		c.retryOrPark(ctx, msg, envelope, err.Error())
		return
	}

	if result.AllSettled() {
		c.ack(ctx, msg.ID)
		return
	}

	entry.Warn("some targets failed, message stays pending for redelivery")
	c.retryOrPark(ctx, msg, envelope, "transient target failures")
}

// retryOrPark leaves the message pending unless its delivery count has
// exceeded the budget, in which case it is dead-lettered and acked.
func (c *VacancyConsumer) retryOrPark(ctx context.Context, msg redis.XMessage, envelope VacancyMessage, reason string) {
	count, err := c.deliveryCount(ctx, msg.ID)
	if err != nil {
		c.log.WithField("message_id", msg.ID).WithError(err).Error("xpending lookup failed")
		return
	}
	if count < c.MaxDeliveries {
		return
	}

	c.log.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"deliveries": count,
	}).Error("delivery budget exhausted, dead-lettering")
	c.park(ctx, msg, envelope, "delivery budget exhausted: "+reason)
}

// park dead-letters the message and acknowledges it.
func (c *VacancyConsumer) park(ctx context.Context, msg redis.XMessage, envelope VacancyMessage, reason string) {
	if err := c.deadLetter.Park(ctx, msg.ID, envelope.Source, envelope.Payload, reason); err != nil {
		// Keep the message pending rather than losing it.
		c.log.WithField("message_id", msg.ID).WithError(err).Error("dead-letter write failed")
		return
	}
	c.stats.MarkDeadLettered()
	c.ack(ctx, msg.ID)
}

func (c *VacancyConsumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, StreamName, ConsumerGroup, msgID).Err(); err != nil {
		c.log.WithField("message_id", msgID).WithError(err).Error("xack failed")
	}
}

// deliveryCount reads the message's delivery counter from the pending
// entries list.
func (c *VacancyConsumer) deliveryCount(ctx context.Context, msgID string) (int64, error) {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: StreamName,
		Group:  ConsumerGroup,
		Start:  msgID,
		End:    msgID,
		Count:  1,
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return pending[0].RetryCount, nil
}

// ensureGroup creates the stream and consumer group if missing.
func (c *VacancyConsumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, StreamName, ConsumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func decodeEnvelope(msg redis.XMessage) VacancyMessage {
	stringValue := func(key string) string {
		v, _ := msg.Values[key].(string)
		return v
	}
	return VacancyMessage{
		Type:      stringValue("type"),
		Source:    stringValue("source"),
		Timestamp: stringValue("timestamp"),
		Payload:   stringValue("payload"),
	}
}
