package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/events"
)

// TxRunner runs a function inside one database transaction.
// Satisfied by repository.TxManager.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier publishes booking notification events. Satisfied by
// events.Notifier; publishing is best-effort and never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, eventType string, event events.BookingNotificationEvent)
}

// CalendarCache caches calendar responses. Satisfied by cache.Cache; a nil
// implementation is a no-op.
type CalendarCache interface {
	Get(ctx context.Context, key string, target interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string)
}

// calendarKeyPrefix is the cache namespace for one property's calendar
// windows. Every ledger mutation drops the whole namespace.
func calendarKeyPrefix(propertyID uuid.UUID) string {
	return "calendar:" + propertyID.String() + ":"
}
