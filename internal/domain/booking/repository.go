package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Booking aggregates.
//
// Save and HasOverlap are expected to run inside the same transaction
// (see repository.TxManager): the overlap check is only meaningful when the
// insert it guards commits atomically with it.
type Repository interface {
	// FindByID retrieves a booking by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListByUser retrieves a user's bookings, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// ListByProperty retrieves a property's bookings, newest first.
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// GetStats returns booking statistics (admin).
	GetStats(ctx context.Context) (totalBookedCents int64, countByStatus map[string]int64, err error)

	// HasOverlap reports whether any pending_owner_approval or confirmed
	// booking on the property overlaps [start, end) under half-open
	// semantics. excludeID, when non-nil, exempts a booking from its own
	// re-validation.
	HasOverlap(ctx context.Context, propertyID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// FindDueForCompletion retrieves confirmed bookings whose end date has
	// passed as of the given date.
	FindDueForCompletion(ctx context.Context, asOf time.Time) ([]*Booking, error)

	// Save persists a new booking aggregate.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error
}
