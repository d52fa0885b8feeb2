package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajar-homes/service-booking/internal/domain"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestBooking(t *testing.T, start, end time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(), nil, start, end, 50000, 5000, testNow)
	require.NoError(t, err)
	return b
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewBooking(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 1), day(2024, 6, 5))

	assert.Equal(t, StatusPendingOwnerApproval, b.Status())
	assert.Equal(t, PaymentPending, b.PaymentStatus())
	assert.Equal(t, 4, b.Nights())
	assert.Equal(t, int64(45000), b.TotalCents())
	assert.Equal(t, int64(1), b.Version())
}

func TestNewBooking_InvalidRange(t *testing.T) {
	_, err := NewBooking(uuid.New(), uuid.New(), nil, day(2024, 6, 5), day(2024, 6, 5), 100, 0, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = NewBooking(uuid.New(), uuid.New(), nil, day(2024, 6, 5), day(2024, 6, 1), 100, 0, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestNewBooking_DiscountNeverNegativeTotal(t *testing.T) {
	b, err := NewBooking(uuid.New(), uuid.New(), nil, day(2024, 6, 1), day(2024, 6, 2), 500, 1000, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.TotalCents())
}

func TestApprove(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 1), day(2024, 6, 5))

	require.NoError(t, b.Approve(testNow))
	assert.Equal(t, StatusConfirmed, b.Status())
	require.NotNil(t, b.OwnerResponse())
	assert.Equal(t, testNow, *b.OwnerResponse())

	// A second response is not allowed.
	err := b.Approve(testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReject(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 1), day(2024, 6, 5))

	err := b.Reject("", testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, b.Reject("double booked elsewhere", testNow))
	assert.Equal(t, StatusRejectedByOwner, b.Status())
	assert.Equal(t, "double booked elsewhere", b.RejectionReason())
	assert.True(t, b.Status().IsTerminal())

	err = b.Reject("again", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCanBeCancelled(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))

	assert.True(t, b.CanBeCancelled(day(2024, 6, 8)))
	// Deadline is one full day before check-in.
	assert.True(t, b.CanBeCancelled(day(2024, 6, 9)))
	assert.False(t, b.CanBeCancelled(day(2024, 6, 10)))
	assert.False(t, b.CanBeCancelled(day(2024, 6, 11)))
}

func TestCancelByUser(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))

	require.NoError(t, b.CancelByUser(day(2024, 6, 8)))
	assert.Equal(t, StatusCancelledByUser, b.Status())
}

func TestCancelByUser_WindowClosed(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))

	err := b.CancelByUser(day(2024, 6, 10))
	assert.ErrorIs(t, err, domain.ErrCancellationWindowClosed)
	assert.Equal(t, StatusPendingOwnerApproval, b.Status())
}

func TestCancelByUser_AfterConfirmation(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))
	require.NoError(t, b.Approve(testNow))

	require.NoError(t, b.CancelByUser(day(2024, 6, 8)))
	assert.Equal(t, StatusCancelledByUser, b.Status())

	err := b.CancelByUser(day(2024, 6, 8))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelByOwner(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))

	// Owner cancellation only applies to confirmed bookings.
	err := b.CancelByOwner(testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, b.Approve(testNow))
	require.NoError(t, b.CancelByOwner(testNow))
	assert.Equal(t, StatusCancelledByOwner, b.Status())
}

func TestComplete(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))
	require.NoError(t, b.Approve(testNow))

	err := b.Complete(day(2024, 6, 11))
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, b.Complete(day(2024, 6, 12)))
	assert.Equal(t, StatusCompleted, b.Status())
	assert.True(t, b.Status().IsTerminal())
}

func TestComplete_RequiresConfirmed(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))

	err := b.Complete(day(2024, 6, 15))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMarkPaymentStatus(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))

	b.MarkPaymentStatus(PaymentPaid, testNow)
	assert.Equal(t, PaymentPaid, b.PaymentStatus())
	// Payment outcomes never move the lifecycle.
	assert.Equal(t, StatusPendingOwnerApproval, b.Status())
}

func TestReconstitute_RoundTrip(t *testing.T) {
	b := newTestBooking(t, day(2024, 6, 10), day(2024, 6, 12))
	require.NoError(t, b.Approve(testNow))
	b.IncrementVersion()

	r := Reconstitute(
		b.ID(), b.UserID(), b.PropertyID(), b.OfferID(),
		b.StartDate(), b.EndDate(),
		b.OriginalCents(), b.DiscountCents(), b.TotalCents(),
		b.Status(), b.PaymentStatus(),
		b.OwnerResponse(), b.RejectionReason(),
		b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)

	assert.Equal(t, b.Status(), r.Status())
	assert.Equal(t, b.Version(), r.Version())
	assert.Equal(t, b.TotalCents(), r.TotalCents())
}
