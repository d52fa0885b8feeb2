//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajar-homes/service-booking/internal/application"
	"github.com/ajar-homes/service-booking/internal/domain"
	bookingEvents "github.com/ajar-homes/service-booking/internal/events"
)

const dateLayout = "2006-01-02"

// futureDate returns a YYYY-MM-DD string n days from now.
func futureDate(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(dateLayout)
}

// TestBookingLifecycle walks the happy path end to end: a guest requests a
// stay, the overlap guard rejects a competing request, the owner approves,
// and cancellation frees the dates for rebooking.
func TestBookingLifecycle(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	ownerID := uuid.New()
	guestID := uuid.New()
	prop := seedProperty(t, stack.Properties, ownerID)

	start, end := futureDate(30), futureDate(35)

	// Guest requests the stay.
	created, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending_owner_approval", created.Status)
	assert.Equal(t, int64(50000), created.TotalCents)

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingEvents.TopicBookingNotifications,
		bookingEvents.BookingRequested, 15*time.Second)
	var requested bookingEvents.BookingNotificationEvent
	require.NoError(t, ce.ParseData(&requested))
	assert.Equal(t, created.ID, requested.BookingID)

	// A competing overlapping request fails while the first is pending.
	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(33),
		EndDate:    futureDate(37),
	})
	require.ErrorIs(t, err, domain.ErrAvailabilityConflict)

	// A back-to-back request sharing the checkout day succeeds.
	adjacent, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  end,
		EndDate:    futureDate(38),
	})
	require.NoError(t, err)

	// Owner approves the first request.
	approved, err := stack.Bookings.RespondToBooking(ctx, ownerID, created.ID, application.RespondToBookingRequest{
		Decision: "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", approved.Status)

	consumeOneEvent(t, infra.KafkaBrokers, bookingEvents.TopicBookingNotifications,
		bookingEvents.BookingApproved, 15*time.Second)

	// Guest cancels; the dates open up again.
	cancelled, err := stack.Bookings.CancelBooking(ctx, guestID, "customer", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled_by_user", cancelled.Status)

	rebooked, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  start,
		EndDate:    end,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending_owner_approval", rebooked.Status)

	// The adjacent booking was never disturbed.
	got, err := stack.Bookings.GetBooking(ctx, ownerID, "owner", adjacent.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending_owner_approval", got.Status)
}

// TestRejection_ReleasesHold verifies that a rejected request frees its
// tentative hold so another guest can book the same dates.
func TestRejection_ReleasesHold(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	ownerID := uuid.New()
	prop := seedProperty(t, stack.Properties, ownerID)

	created, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(14),
	})
	require.NoError(t, err)

	rejected, err := stack.Bookings.RespondToBooking(ctx, ownerID, created.ID, application.RespondToBookingRequest{
		Decision: "reject",
		Reason:   "renovation planned",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected_by_owner", rejected.Status)

	consumeOneEvent(t, infra.KafkaBrokers, bookingEvents.TopicBookingNotifications,
		bookingEvents.BookingRejected, 15*time.Second)

	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(10),
		EndDate:    futureDate(14),
	})
	require.NoError(t, err)
}

// TestOwnerBlock_PreventsBooking verifies that owner-blocked dates reject
// booking requests and unblocking restores them.
func TestOwnerBlock_PreventsBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	ownerID := uuid.New()
	prop := seedProperty(t, stack.Properties, ownerID)

	err := stack.Availability.BlockDates(ctx, ownerID, prop.ID, application.DateRangeRequest{
		StartDate: futureDate(20),
		EndDate:   futureDate(23),
	})
	require.NoError(t, err)

	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(21),
		EndDate:    futureDate(25),
	})
	require.ErrorIs(t, err, domain.ErrAlreadyBlocked)

	require.NoError(t, stack.Availability.UnblockDates(ctx, ownerID, prop.ID, application.DateRangeRequest{
		StartDate: futureDate(20),
		EndDate:   futureDate(23),
	}))

	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(21),
		EndDate:    futureDate(25),
	})
	require.NoError(t, err)
}

// TestPaymentEvent_UpdatesBooking verifies that a payment.succeeded event on
// payment.events lands on the booking's payment status.
func TestPaymentEvent_UpdatesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ctx := context.Background()
	prop := seedProperty(t, stack.Properties, uuid.New())

	created, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(40),
		EndDate:    futureDate(42),
	})
	require.NoError(t, err)

	consumerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(consumerCtx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := bookingEvents.PaymentStatusEvent{
		BookingID:  created.ID,
		Status:     "paid",
		OccurredAt: time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingEvents.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentSucceeded, evt)

	model := waitForPaymentStatus(t, infra.DB, created.ID, "paid", 15*time.Second)
	assert.Equal(t, "pending_owner_approval", model.Status, "payment must not move the booking lifecycle")
}

// TestRetireProperty_CancelsFutureBookings verifies the retirement workflow:
// confirmed future stays are cancelled, pending ones rejected, and the
// property stops accepting requests.
func TestRetireProperty_CancelsFutureBookings(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	ownerID := uuid.New()
	prop := seedProperty(t, stack.Properties, ownerID)

	confirmed, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(50),
		EndDate:    futureDate(53),
	})
	require.NoError(t, err)
	_, err = stack.Bookings.RespondToBooking(ctx, ownerID, confirmed.ID, application.RespondToBookingRequest{Decision: "approve"})
	require.NoError(t, err)

	pending, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(60),
		EndDate:    futureDate(62),
	})
	require.NoError(t, err)

	require.NoError(t, stack.Properties.RetireProperty(ctx, ownerID, prop.ID))

	got, err := stack.Bookings.GetBooking(ctx, ownerID, "owner", confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled_by_owner", got.Status)

	got, err = stack.Bookings.GetBooking(ctx, ownerID, "owner", pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected_by_owner", got.Status)

	_, err = stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		PropertyID: prop.ID,
		StartDate:  futureDate(70),
		EndDate:    futureDate(72),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}
