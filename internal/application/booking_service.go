package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/availability"
	"github.com/ajar-homes/service-booking/internal/domain/booking"
	"github.com/ajar-homes/service-booking/internal/domain/offer"
	"github.com/ajar-homes/service-booking/internal/domain/property"
	"github.com/ajar-homes/service-booking/internal/events"
	"github.com/ajar-homes/service-booking/internal/pricing"
)

// BookingService orchestrates the booking lifecycle: creation, the owner's
// approve/reject decision, cancellation and completion. Every mutation runs
// as one transaction so the booking row and the availability ledger can
// never disagree.
type BookingService struct {
	txm        TxRunner
	bookings   booking.Repository
	properties property.Repository
	offers     offer.Repository
	ledger     availability.Ledger
	calc       *pricing.Calculator
	notifier   Notifier
	cache      CalendarCache
	clock      domain.Clock
	holdTTL    time.Duration
	logger     *zap.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(
	txm TxRunner,
	bookings booking.Repository,
	properties property.Repository,
	offers offer.Repository,
	ledger availability.Ledger,
	calc *pricing.Calculator,
	notifier Notifier,
	cache CalendarCache,
	clock domain.Clock,
	holdTTL time.Duration,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		txm:        txm,
		bookings:   bookings,
		properties: properties,
		offers:     offers,
		ledger:     ledger,
		calc:       calc,
		notifier:   notifier,
		cache:      cache,
		clock:      clock,
		holdTTL:    holdTTL,
		logger:     logger,
	}
}

// CreateBooking validates the request, prices the stay, checks for overlaps
// and persists a pending booking plus a tentative hold, all in one
// transaction serialized on the property row. Pending bookings block their
// dates until the owner decides.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, domain.NewInvalidRangeError("start date must be before end date")
	}
	if start.Before(domain.Date(s.clock.Now())) {
		return nil, domain.NewInvalidRangeError("start date must not be in the past")
	}

	var created *booking.Booking
	err = s.txm.Do(ctx, func(ctx context.Context) error {
		prop, err := s.properties.LockByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if !prop.IsBookable() {
			return domain.NewValidationError("property is not accepting bookings")
		}

		quote, err := s.calc.Price(ctx, prop, start, end, req.OfferCode)
		if err != nil {
			return err
		}

		overlap, err := s.bookings.HasOverlap(ctx, prop.ID(), start, end, nil)
		if err != nil {
			return err
		}
		if overlap {
			return domain.NewAvailabilityConflictError("requested dates overlap an existing booking")
		}

		var offerID *uuid.UUID
		if quote.Offer != nil {
			id := quote.Offer.ID()
			offerID = &id
		}

		b, err := booking.NewBooking(userID, prop.ID(), offerID, start, end, quote.OriginalCents, quote.DiscountCents, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.bookings.Save(ctx, b); err != nil {
			return err
		}
		if err := s.ledger.PlaceTentativeHold(ctx, prop.ID(), start, end, s.clock.Now().Add(s.holdTTL)); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", created.ID().String()),
		zap.String("property_id", created.PropertyID().String()),
		zap.Int64("total_cents", created.TotalCents()),
	)

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(created.PropertyID()))
	s.notify(ctx, events.BookingRequested, created, "booking requested, awaiting owner approval")

	dto := toBookingDTO(created)
	return &dto, nil
}

// RespondToBooking records the owner's decision on a pending booking.
// Approval re-validates the overlap and materializes the stay into booking
// days; rejection releases the creation hold.
func (s *BookingService) RespondToBooking(ctx context.Context, ownerID, bookingID uuid.UUID, req RespondToBookingRequest) (*BookingDTO, error) {
	var updated *booking.Booking
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}

		prop, err := s.properties.LockByID(ctx, b.PropertyID())
		if err != nil {
			return err
		}
		if ownerID != uuid.Nil && prop.OwnerID() != ownerID {
			return domain.NewNotFoundError("booking", bookingID.String())
		}

		now := s.clock.Now()
		switch req.Decision {
		case "approve":
			if err := b.Approve(now); err != nil {
				return err
			}
			id := b.ID()
			overlap, err := s.bookings.HasOverlap(ctx, b.PropertyID(), b.StartDate(), b.EndDate(), &id)
			if err != nil {
				return err
			}
			if overlap {
				return domain.NewAvailabilityConflictError("dates were taken while the booking was pending")
			}
			if err := s.ledger.MaterializeBooking(ctx, b.ID(), b.PropertyID(), b.StartDate(), b.EndDate()); err != nil {
				return err
			}
			if b.OfferID() != nil {
				off, err := s.offers.FindByID(ctx, *b.OfferID())
				if err != nil {
					return err
				}
				off.IncrementUses(now)
				if err := s.offers.Update(ctx, off); err != nil {
					return err
				}
			}

		case "reject":
			if err := b.Reject(req.Reason, now); err != nil {
				return err
			}
			if err := s.ledger.ReleaseHold(ctx, b.PropertyID(), b.StartDate(), b.EndDate()); err != nil {
				return err
			}

		default:
			return domain.NewValidationError("decision must be approve or reject")
		}

		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("owner responded to booking",
		zap.String("booking_id", updated.ID().String()),
		zap.String("decision", req.Decision),
	)

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(updated.PropertyID()))
	if updated.Status() == booking.StatusConfirmed {
		s.notify(ctx, events.BookingApproved, updated, "booking approved by owner")
	} else {
		s.notify(ctx, events.BookingRejected, updated, "booking rejected: "+updated.RejectionReason())
	}

	dto := toBookingDTO(updated)
	return &dto, nil
}

// CancelBooking cancels a booking on behalf of the guest or the owner and
// frees every ledger record the booking holds.
func (s *BookingService) CancelBooking(ctx context.Context, actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*BookingDTO, error) {
	var updated *booking.Booking
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		wasConfirmed := b.Status() == booking.StatusConfirmed
		now := s.clock.Now()

		switch actorRole {
		case "owner", "admin":
			if actorRole == "owner" {
				prop, err := s.properties.FindByID(ctx, b.PropertyID())
				if err != nil {
					return err
				}
				if prop.OwnerID() != actorID {
					return domain.NewNotFoundError("booking", bookingID.String())
				}
			}
			if err := b.CancelByOwner(now); err != nil {
				return err
			}
		default:
			if b.UserID() != actorID {
				return domain.NewNotFoundError("booking", bookingID.String())
			}
			if err := b.CancelByUser(now); err != nil {
				return err
			}
		}

		if wasConfirmed {
			if err := s.ledger.ReleaseBooking(ctx, b.ID(), b.PropertyID(), b.StartDate(), b.EndDate()); err != nil {
				return err
			}
		} else {
			if err := s.ledger.ReleaseHold(ctx, b.PropertyID(), b.StartDate(), b.EndDate()); err != nil {
				return err
			}
		}

		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", updated.ID().String()),
		zap.String("status", string(updated.Status())),
	)

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(updated.PropertyID()))
	s.notify(ctx, events.BookingCancelled, updated, "booking cancelled")

	dto := toBookingDTO(updated)
	return &dto, nil
}

// GetBooking returns a booking visible to the requester: guests see their
// own, owners see bookings on their properties, admins see everything.
func (s *BookingService) GetBooking(ctx context.Context, requesterID uuid.UUID, requesterRole string, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch requesterRole {
	case "admin":
	case "owner":
		prop, err := s.properties.FindByID(ctx, b.PropertyID())
		if err != nil {
			return nil, err
		}
		if prop.OwnerID() != requesterID && b.UserID() != requesterID {
			return nil, domain.NewNotFoundError("booking", bookingID.String())
		}
	default:
		if b.UserID() != requesterID {
			return nil, domain.NewNotFoundError("booking", bookingID.String())
		}
	}

	dto := toBookingDTO(b)
	return &dto, nil
}

// ListMyBookings returns the requester's bookings, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(list), nil
}

// ListPropertyBookings returns a property's bookings for its owner.
func (s *BookingService) ListPropertyBookings(ctx context.Context, ownerID uuid.UUID, propertyID uuid.UUID) ([]BookingDTO, error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if ownerID != uuid.Nil && prop.OwnerID() != ownerID {
		return nil, domain.NewNotFoundError("property", propertyID.String())
	}

	list, err := s.bookings.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(list), nil
}

// ListAllBookings returns every booking, paginated (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	list, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(list), total, nil
}

// GetStats returns aggregate booking statistics (admin).
func (s *BookingService) GetStats(ctx context.Context) (*BookingStatsDTO, error) {
	totalCents, byStatus, err := s.bookings.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &BookingStatsDTO{TotalBookedCents: totalCents, CountByStatus: byStatus}, nil
}

// CompleteDueBookings transitions confirmed bookings whose end date has
// passed to completed. Called by the scheduler; each booking commits on its
// own so one failure cannot hold up the rest.
func (s *BookingService) CompleteDueBookings(ctx context.Context) (int, error) {
	due, err := s.bookings.FindDueForCompletion(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range due {
		err := s.txm.Do(ctx, func(ctx context.Context) error {
			if err := b.Complete(s.clock.Now()); err != nil {
				return err
			}
			b.IncrementVersion()
			return s.bookings.Update(ctx, b)
		})
		if err != nil {
			s.logger.Warn("failed to complete booking",
				zap.String("booking_id", b.ID().String()),
				zap.Error(err),
			)
			continue
		}
		completed++
		s.notify(ctx, events.BookingCompleted, b, "stay completed")
	}
	return completed, nil
}

// HandlePaymentStatus applies a payment service outcome to a booking. The
// booking lifecycle is unaffected; only the payment status field changes.
func (s *BookingService) HandlePaymentStatus(ctx context.Context, event events.PaymentStatusEvent) error {
	ps := booking.PaymentStatus(event.Status)
	switch ps {
	case booking.PaymentPending, booking.PaymentPaid, booking.PaymentPartiallyPaid, booking.PaymentRefunded, booking.PaymentFailed:
	default:
		s.logger.Warn("ignoring unknown payment status", zap.String("status", event.Status))
		return nil
	}

	return s.txm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.FindByID(ctx, event.BookingID)
		if err != nil {
			return err
		}
		b.MarkPaymentStatus(ps, s.clock.Now())
		b.IncrementVersion()
		return s.bookings.Update(ctx, b)
	})
}

func (s *BookingService) notify(ctx context.Context, eventType string, b *booking.Booking, message string) {
	s.notifier.Notify(ctx, eventType, events.BookingNotificationEvent{
		BookingID:  b.ID(),
		PropertyID: b.PropertyID(),
		UserID:     b.UserID(),
		Status:     string(b.Status()),
		Message:    message,
		OccurredAt: s.clock.Now(),
	})
}
