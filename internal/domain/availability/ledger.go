package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger defines the persistence contract for the per-date availability
// records of a property. All range parameters are half-open [start, end).
//
// Mutating operations are expected to run inside the caller's transaction
// (see repository.TxManager) so that a failure on any single date aborts the
// whole range.
type Ledger interface {
	// Calendar returns the entries covering [start, end), including dates
	// with no explicit entry (implicitly bookable).
	Calendar(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*Entry, error)

	// PlaceTentativeHold marks every date in the range tentative with the
	// given expiry. Fails with ErrAlreadyBlocked if any date is not
	// bookable; expired holds do not count as blocked.
	PlaceTentativeHold(ctx context.Context, propertyID uuid.UUID, start, end time.Time, expiry time.Time) error

	// ReleaseHold clears tentative flags on the range.
	ReleaseHold(ctx context.Context, propertyID uuid.UUID, start, end time.Time) error

	// MaterializeBooking converts a booking's range into permanent
	// blocked-by-booking entries plus one BookingDay row per date. Fails
	// with ErrAlreadyBlocked if any date became unavailable (a hold by the
	// same booking does not block it).
	MaterializeBooking(ctx context.Context, bookingID, propertyID uuid.UUID, start, end time.Time) error

	// ReleaseBooking deletes the booking's BookingDay rows and frees the
	// corresponding entries (and any tentative hold it still carries).
	ReleaseBooking(ctx context.Context, bookingID, propertyID uuid.UUID, start, end time.Time) error

	// BlockByOwner marks the range owner-blocked. Fails with
	// ErrAlreadyBlocked if any date is booked or held.
	BlockByOwner(ctx context.Context, propertyID uuid.UUID, start, end time.Time) error

	// UnblockByOwner clears owner blocks on the range.
	UnblockByOwner(ctx context.Context, propertyID uuid.UUID, start, end time.Time) error

	// SetPriceOverride stores a per-date nightly price override.
	SetPriceOverride(ctx context.Context, propertyID uuid.UUID, date time.Time, priceCents *int64) error

	// SweepExpiredHolds clears tentative flags whose expiry has passed.
	// Storage hygiene only; read paths already ignore expired holds.
	SweepExpiredHolds(ctx context.Context, asOf time.Time) (int64, error)
}
