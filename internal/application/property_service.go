package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/availability"
	"github.com/ajar-homes/service-booking/internal/domain/booking"
	"github.com/ajar-homes/service-booking/internal/domain/property"
	"github.com/ajar-homes/service-booking/internal/events"
	"github.com/ajar-homes/service-booking/internal/saga"
)

// PropertyService manages property listings and the owner-removal workflow.
type PropertyService struct {
	txm        TxRunner
	properties property.Repository
	bookings   booking.Repository
	ledger     availability.Ledger
	notifier   Notifier
	cache      CalendarCache
	clock      domain.Clock
	logger     *zap.Logger
}

// NewPropertyService creates a PropertyService.
func NewPropertyService(
	txm TxRunner,
	properties property.Repository,
	bookings booking.Repository,
	ledger availability.Ledger,
	notifier Notifier,
	cache CalendarCache,
	clock domain.Clock,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		txm:        txm,
		properties: properties,
		bookings:   bookings,
		ledger:     ledger,
		notifier:   notifier,
		cache:      cache,
		clock:      clock,
		logger:     logger,
	}
}

// CreateProperty lists a new property owned by the caller.
func (s *PropertyService) CreateProperty(ctx context.Context, ownerID uuid.UUID, req CreatePropertyRequest) (*PropertyDTO, error) {
	p, err := property.NewProperty(ownerID, req.Name, req.City, req.MaxCapacity, req.DailyPriceCents, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("property created",
		zap.String("property_id", p.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)
	dto := toPropertyDTO(p)
	return &dto, nil
}

// GetProperty returns a property by ID.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*PropertyDTO, error) {
	p, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	dto := toPropertyDTO(p)
	return &dto, nil
}

// ListMyProperties returns the caller's properties.
func (s *PropertyService) ListMyProperties(ctx context.Context, ownerID uuid.UUID) ([]PropertyDTO, error) {
	list, err := s.properties.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]PropertyDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, toPropertyDTO(p))
	}
	return dtos, nil
}

// UpdateProperty applies the owner-mutable fields: nightly price, capacity,
// listing status.
func (s *PropertyService) UpdateProperty(ctx context.Context, ownerID, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyDTO, error) {
	var updated *property.Property
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		p, err := s.properties.LockByID(ctx, propertyID)
		if err != nil {
			return err
		}
		if ownerID != uuid.Nil && p.OwnerID() != ownerID {
			return domain.NewNotFoundError("property", propertyID.String())
		}

		now := s.clock.Now()
		if req.DailyPriceCents != nil {
			if err := p.UpdatePricing(*req.DailyPriceCents, now); err != nil {
				return err
			}
		}
		if req.MaxCapacity != nil {
			if err := p.UpdateCapacity(*req.MaxCapacity, now); err != nil {
				return err
			}
		}
		if req.Status != nil {
			if err := p.SetStatus(property.Status(*req.Status), now); err != nil {
				return err
			}
		}

		if err := s.properties.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toPropertyDTO(updated)
	return &dto, nil
}

// RetireProperty removes a property from the platform. The removal is an
// explicit workflow, not a cascade: the listing is retired first so no new
// bookings can slip in, then every future booking is cancelled and its
// ledger records freed, then the affected guests are notified. If the
// cancellation pass fails the retirement is rolled back and the property
// stays live.
func (s *PropertyService) RetireProperty(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	p, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if ownerID != uuid.Nil && p.OwnerID() != ownerID {
		return domain.NewNotFoundError("property", propertyID.String())
	}
	prevStatus := p.Status()

	var cancelled []*booking.Booking

	flow := saga.New("retire_property", s.logger)

	flow.AddStep(saga.Step{
		Name: "retire_property",
		Execute: func(ctx context.Context) error {
			return s.txm.Do(ctx, func(ctx context.Context) error {
				locked, err := s.properties.LockByID(ctx, propertyID)
				if err != nil {
					return err
				}
				if err := locked.Retire(s.clock.Now()); err != nil {
					return err
				}
				return s.properties.Update(ctx, locked)
			})
		},
		Compensate: func(ctx context.Context) error {
			// Retire is terminal on the aggregate; compensation restores the
			// previous status at the persistence level.
			restored := property.Reconstruct(
				p.ID(), p.OwnerID(), p.Name(), p.City(), prevStatus,
				p.MaxCapacity(), p.DefaultDailyPriceCents(),
				p.CreatedAt(), s.clock.Now(),
			)
			return s.properties.Update(ctx, restored)
		},
	})

	flow.AddStep(saga.Step{
		Name: "cancel_future_bookings",
		Execute: func(ctx context.Context) error {
			return s.txm.Do(ctx, func(ctx context.Context) error {
				list, err := s.bookings.ListByProperty(ctx, propertyID)
				if err != nil {
					return err
				}
				now := s.clock.Now()
				for _, b := range list {
					switch b.Status() {
					case booking.StatusConfirmed:
						if domain.Date(now).After(b.StartDate()) {
							// In-progress stays run to completion.
							continue
						}
						if err := b.CancelByOwner(now); err != nil {
							return err
						}
						if err := s.ledger.ReleaseBooking(ctx, b.ID(), b.PropertyID(), b.StartDate(), b.EndDate()); err != nil {
							return err
						}
					case booking.StatusPendingOwnerApproval:
						if err := b.Reject("property removed from platform", now); err != nil {
							return err
						}
						if err := s.ledger.ReleaseHold(ctx, b.PropertyID(), b.StartDate(), b.EndDate()); err != nil {
							return err
						}
					default:
						continue
					}
					b.IncrementVersion()
					if err := s.bookings.Update(ctx, b); err != nil {
						return err
					}
					cancelled = append(cancelled, b)
				}
				return nil
			})
		},
		Compensate: nil,
	})

	flow.AddStep(saga.Step{
		Name: "notify_affected_guests",
		Execute: func(ctx context.Context) error {
			for _, b := range cancelled {
				eventType := events.BookingCancelled
				if b.Status() == booking.StatusRejectedByOwner {
					eventType = events.BookingRejected
				}
				s.notifier.Notify(ctx, eventType, events.BookingNotificationEvent{
					BookingID:  b.ID(),
					PropertyID: b.PropertyID(),
					UserID:     b.UserID(),
					Status:     string(b.Status()),
					Message:    "property was removed from the platform",
					OccurredAt: s.clock.Now(),
				})
			}
			return nil
		},
		Compensate: nil,
	})

	if err := flow.Execute(ctx); err != nil {
		return err
	}

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(propertyID))
	s.logger.Info("property retired",
		zap.String("property_id", propertyID.String()),
		zap.Int("bookings_cancelled", len(cancelled)),
	)
	return nil
}
