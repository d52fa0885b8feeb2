// Package events defines the topics and payloads exchanged with the rest of
// the platform, plus the Kafka notifier and the payment-event consumer.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingNotifications = "booking.notifications"
	TopicPaymentEvents        = "payment.events"
)

// Event types on the notification topic.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// Event types consumed from the payment topic.
const (
	PaymentSucceeded = "payment.succeeded"
	PaymentRefunded  = "payment.refunded"
	PaymentFailed    = "payment.failed"
)

// BookingNotificationEvent is published on every booking state transition.
// Delivery to the end user (email, push) is another service's job.
type BookingNotificationEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentStatusEvent is the payment service's report on a booking's payment.
type PaymentStatusEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
