package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/kafka"
)

const eventSource = "service-booking"

// Notifier publishes booking notification events. Publishing is best-effort:
// a broker outage must never roll back a committed booking transition, so
// failures are logged and swallowed.
type Notifier struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(producer *kafka.Producer, logger *zap.Logger) *Notifier {
	return &Notifier{producer: producer, logger: logger}
}

// Notify wraps the event in a CloudEvent and publishes it on the
// notification topic.
func (n *Notifier) Notify(ctx context.Context, eventType string, event BookingNotificationEvent) {
	if n == nil || n.producer == nil {
		return
	}

	ce, err := kafka.NewCloudEvent(eventSource, eventType, event)
	if err != nil {
		n.logger.Error("failed to build notification event", zap.Error(err))
		return
	}

	if err := n.producer.PublishEvent(ctx, TopicBookingNotifications, ce); err != nil {
		n.logger.Error("failed to publish notification event",
			zap.String("type", eventType),
			zap.String("booking_id", event.BookingID.String()),
			zap.Error(err),
		)
	}
}
