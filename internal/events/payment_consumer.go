package events

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/kafka"
)

// PaymentStatusHandler applies a payment outcome to the booking it belongs
// to. Implemented by the booking application service.
type PaymentStatusHandler interface {
	HandlePaymentStatus(ctx context.Context, event PaymentStatusEvent) error
}

// PaymentEventConsumer listens to the payment topic and records payment
// outcomes against bookings.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentStatusHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a consumer bound to the payment topic.
func NewPaymentEventConsumer(brokers []string, groupID string, handler PaymentStatusHandler, logger *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger),
		handler:  handler,
		logger:   logger,
	}
}

// Start consumes until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	switch {
	case strings.EqualFold(ce.Type, PaymentSucceeded),
		strings.EqualFold(ce.Type, PaymentRefunded),
		strings.EqualFold(ce.Type, PaymentFailed):
		var event PaymentStatusEvent
		if err := ce.ParseData(&event); err != nil {
			c.logger.Error("failed to parse payment status event", zap.Error(err))
			return err
		}
		return c.handler.HandlePaymentStatus(ctx, event)

	default:
		c.logger.Debug("ignoring unhandled payment event type", zap.String("type", ce.Type))
		return nil
	}
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}
