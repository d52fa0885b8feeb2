package availability

import (
	"time"

	"github.com/google/uuid"
)

// Entry is the per-(property, date) ledger record. The (property, date) pair
// is unique; a backing index turns write races into detected conflicts.
type Entry struct {
	ID                 uuid.UUID
	PropertyID         uuid.UUID
	Date               time.Time
	IsAvailable        bool
	BlockedByBookingID *uuid.UUID
	BlockedByOwner     bool
	PriceOverrideCents *int64
	IsTentative        bool
	HoldExpiry         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsBookable reports whether the date can be booked as of now. Expired
// tentative holds count as available; no sweep is needed for correctness.
func (e *Entry) IsBookable(now time.Time) bool {
	if !e.IsAvailable || e.BlockedByBookingID != nil || e.BlockedByOwner {
		return false
	}
	if e.IsTentative {
		return e.HoldExpiry != nil && !now.Before(*e.HoldExpiry)
	}
	return true
}

// BookingDay materializes one calendar date covered by a confirmed booking.
// The (booking, date) pair is unique.
type BookingDay struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	PropertyID     uuid.UUID
	AvailabilityID uuid.UUID
	Date           time.Time
	CreatedAt      time.Time
}

// DatesIn expands a half-open range [start, end) into its covered dates.
func DatesIn(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
