package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/availability"
	"github.com/ajar-homes/service-booking/internal/domain/property"
)

// AvailabilityService serves the calendar view and the owner's manual
// blocks and price overrides.
type AvailabilityService struct {
	txm        TxRunner
	properties property.Repository
	ledger     availability.Ledger
	cache      CalendarCache
	cacheTTL   time.Duration
	clock      domain.Clock
	logger     *zap.Logger
}

// NewAvailabilityService creates an AvailabilityService.
func NewAvailabilityService(
	txm TxRunner,
	properties property.Repository,
	ledger availability.Ledger,
	cache CalendarCache,
	cacheTTL time.Duration,
	clock domain.Clock,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		txm:        txm,
		properties: properties,
		ledger:     ledger,
		cache:      cache,
		cacheTTL:   cacheTTL,
		clock:      clock,
		logger:     logger,
	}
}

// Calendar returns the per-date bookable view for [start, end). Responses
// are cached per (property, window); every ledger mutation drops the
// property's namespace, and a short TTL bounds staleness from expiring
// holds.
func (s *AvailabilityService) Calendar(ctx context.Context, propertyID uuid.UUID, startStr, endStr string) ([]CalendarDayDTO, error) {
	start, err := parseDate("start", startStr)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end", endStr)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, domain.NewInvalidRangeError("start date must be before end date")
	}
	if end.Sub(start) > 366*24*time.Hour {
		return nil, domain.NewInvalidRangeError("calendar window cannot exceed one year")
	}

	key := calendarKeyPrefix(propertyID) + startStr + ":" + endStr
	var cached []CalendarDayDTO
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.Calendar(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	days := make([]CalendarDayDTO, 0, len(entries))
	for _, e := range entries {
		days = append(days, toCalendarDayDTO(e, prop.DefaultDailyPriceCents(), now))
	}

	if err := s.cache.Set(ctx, key, days, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache calendar", zap.Error(err))
	}
	return days, nil
}

// BlockDates owner-blocks [start, end). Fails if any date is booked or held.
func (s *AvailabilityService) BlockDates(ctx context.Context, ownerID, propertyID uuid.UUID, req DateRangeRequest) error {
	start, end, err := s.ownedRange(ctx, ownerID, propertyID, req)
	if err != nil {
		return err
	}

	err = s.txm.Do(ctx, func(ctx context.Context) error {
		if _, err := s.properties.LockByID(ctx, propertyID); err != nil {
			return err
		}
		return s.ledger.BlockByOwner(ctx, propertyID, start, end)
	})
	if err != nil {
		return err
	}

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(propertyID))
	s.logger.Info("dates blocked by owner",
		zap.String("property_id", propertyID.String()),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
	)
	return nil
}

// UnblockDates clears owner blocks on [start, end).
func (s *AvailabilityService) UnblockDates(ctx context.Context, ownerID, propertyID uuid.UUID, req DateRangeRequest) error {
	start, end, err := s.ownedRange(ctx, ownerID, propertyID, req)
	if err != nil {
		return err
	}

	if err := s.ledger.UnblockByOwner(ctx, propertyID, start, end); err != nil {
		return err
	}

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(propertyID))
	return nil
}

// SetPriceOverride sets or clears the nightly price for one date.
func (s *AvailabilityService) SetPriceOverride(ctx context.Context, ownerID, propertyID uuid.UUID, req PriceOverrideRequest) error {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}
	if req.PriceCents != nil && *req.PriceCents <= 0 {
		return domain.NewValidationError("price override must be positive")
	}
	if err := s.checkOwnership(ctx, ownerID, propertyID); err != nil {
		return err
	}

	if err := s.ledger.SetPriceOverride(ctx, propertyID, date, req.PriceCents); err != nil {
		return err
	}

	s.cache.DeleteByPrefix(ctx, calendarKeyPrefix(propertyID))
	return nil
}

// SweepExpiredHolds clears expired tentative holds. Scheduler entry point;
// read paths never depend on it.
func (s *AvailabilityService) SweepExpiredHolds(ctx context.Context) (int64, error) {
	return s.ledger.SweepExpiredHolds(ctx, s.clock.Now())
}

func (s *AvailabilityService) ownedRange(ctx context.Context, ownerID, propertyID uuid.UUID, req DateRangeRequest) (time.Time, time.Time, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, domain.NewInvalidRangeError("start date must be before end date")
	}
	if err := s.checkOwnership(ctx, ownerID, propertyID); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (s *AvailabilityService) checkOwnership(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if ownerID != uuid.Nil && prop.OwnerID() != ownerID {
		return domain.NewNotFoundError("property", propertyID.String())
	}
	return nil
}
