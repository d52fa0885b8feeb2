package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/domain"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusPendingOwnerApproval Status = "pending_owner_approval"
	StatusConfirmed            Status = "confirmed"
	StatusRejectedByOwner      Status = "rejected_by_owner"
	StatusCancelledByUser      Status = "cancelled_by_user"
	StatusCancelledByOwner     Status = "cancelled_by_owner"
	StatusCompleted            Status = "completed"
)

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejectedByOwner, StatusCancelledByUser, StatusCancelledByOwner:
		return true
	}
	return false
}

// PaymentStatus mirrors the payment collaborator's view of a booking.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentFailed        PaymentStatus = "failed"
)

// Booking is the aggregate root for a stay reservation. Date ranges are
// half-open [startDate, endDate): the end date is checkout day and is never
// occupied. Bookings are never deleted; cancellation is a status transition.
type Booking struct {
	id              uuid.UUID
	userID          uuid.UUID
	propertyID      uuid.UUID
	offerID         *uuid.UUID
	startDate       time.Time
	endDate         time.Time
	originalCents   int64
	discountCents   int64
	totalCents      int64
	status          Status
	paymentStatus   PaymentStatus
	ownerResponse   *time.Time
	rejectionReason string
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking creates a booking in pending_owner_approval. The range must be
// strictly positive; overlap checking is the repository's concern and happens
// in the same transaction as the insert.
func NewBooking(userID, propertyID uuid.UUID, offerID *uuid.UUID, startDate, endDate time.Time, originalCents, discountCents int64, now time.Time) (*Booking, error) {
	startDate = domain.Date(startDate)
	endDate = domain.Date(endDate)
	if !startDate.Before(endDate) {
		return nil, domain.NewInvalidRangeError("start date must be before end date")
	}

	total := originalCents - discountCents
	if total < 0 {
		total = 0
	}

	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		propertyID:    propertyID,
		offerID:       offerID,
		startDate:     startDate,
		endDate:       endDate,
		originalCents: originalCents,
		discountCents: discountCents,
		totalCents:    total,
		status:        StatusPendingOwnerApproval,
		paymentStatus: PaymentPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) PropertyID() uuid.UUID        { return b.propertyID }
func (b *Booking) OfferID() *uuid.UUID          { return b.offerID }
func (b *Booking) StartDate() time.Time         { return b.startDate }
func (b *Booking) EndDate() time.Time           { return b.endDate }
func (b *Booking) OriginalCents() int64         { return b.originalCents }
func (b *Booking) DiscountCents() int64         { return b.discountCents }
func (b *Booking) TotalCents() int64            { return b.totalCents }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) OwnerResponse() *time.Time    { return b.ownerResponse }
func (b *Booking) RejectionReason() string      { return b.rejectionReason }
func (b *Booking) Version() int64               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// Nights returns the whole-day count of the stay, end exclusive.
func (b *Booking) Nights() int {
	return int(b.endDate.Sub(b.startDate) / (24 * time.Hour))
}

// --- State transitions ---

// Approve transitions pending_owner_approval to confirmed and stamps the
// owner response time.
func (b *Booking) Approve(now time.Time) error {
	if b.status != StatusPendingOwnerApproval {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.ownerResponse = &now
	b.updatedAt = now
	return nil
}

// Reject transitions pending_owner_approval to rejected_by_owner. A reason
// is required.
func (b *Booking) Reject(reason string, now time.Time) error {
	if b.status != StatusPendingOwnerApproval {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusRejectedByOwner))
	}
	if reason == "" {
		return domain.NewValidationError("rejection reason is required")
	}
	b.status = StatusRejectedByOwner
	b.rejectionReason = reason
	b.ownerResponse = &now
	b.updatedAt = now
	return nil
}

// CanBeCancelled reports whether the guest may still cancel: at least one
// full day before check-in, and not already resolved.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	deadline := b.startDate.AddDate(0, 0, -1)
	if domain.Date(now).After(deadline) {
		return false
	}
	return b.status == StatusConfirmed || b.status == StatusPendingOwnerApproval
}

// CancelByUser transitions to cancelled_by_user while the cancellation
// window is open.
func (b *Booking) CancelByUser(now time.Time) error {
	if b.status != StatusConfirmed && b.status != StatusPendingOwnerApproval {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCancelledByUser))
	}
	if !b.CanBeCancelled(now) {
		return domain.NewCancellationWindowClosedError("bookings can only be cancelled up to one day before check-in")
	}
	b.status = StatusCancelledByUser
	b.updatedAt = now
	return nil
}

// CancelByOwner transitions confirmed to cancelled_by_owner.
func (b *Booking) CancelByOwner(now time.Time) error {
	if b.status != StatusConfirmed {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCancelledByOwner))
	}
	b.status = StatusCancelledByOwner
	b.updatedAt = now
	return nil
}

// Complete transitions confirmed to completed once the end date has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCompleted))
	}
	if domain.Date(now).Before(b.endDate) {
		return domain.NewValidationError("booking has not ended yet")
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// MarkPaymentStatus records the payment collaborator's outcome. Not a
// lifecycle transition; the booking status machine is unaffected.
func (b *Booking) MarkPaymentStatus(ps PaymentStatus, now time.Time) {
	b.paymentStatus = ps
	b.updatedAt = now
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id, userID, propertyID uuid.UUID,
	offerID *uuid.UUID,
	startDate, endDate time.Time,
	originalCents, discountCents, totalCents int64,
	status Status,
	paymentStatus PaymentStatus,
	ownerResponse *time.Time,
	rejectionReason string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		userID:          userID,
		propertyID:      propertyID,
		offerID:         offerID,
		startDate:       startDate,
		endDate:         endDate,
		originalCents:   originalCents,
		discountCents:   discountCents,
		totalCents:      totalCents,
		status:          status,
		paymentStatus:   paymentStatus,
		ownerResponse:   ownerResponse,
		rejectionReason: rejectionReason,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}
