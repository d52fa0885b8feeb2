package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/availability"
)

// AvailabilityModel is the GORM model for the availability table. One row
// per (property, date); dates with no row are implicitly bookable.
type AvailabilityModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_availability_property_date"`
	Date               time.Time  `gorm:"type:date;not null;uniqueIndex:idx_availability_property_date"`
	IsAvailable        bool       `gorm:"not null;default:true"`
	BlockedByBookingID *uuid.UUID `gorm:"type:uuid;index"`
	BlockedByOwner     bool       `gorm:"not null;default:false"`
	PriceOverrideCents *int64
	IsTentative        bool       `gorm:"not null;default:false"`
	HoldExpiry         *time.Time `gorm:"type:timestamptz"`
	CreatedAt          time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt          time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (AvailabilityModel) TableName() string {
	return "availability"
}

// BookingDayModel is the GORM model for the booking_days table. One row per
// (booking, date) covered by a confirmed booking.
type BookingDayModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_day_booking_date"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_booking_day_booking_date"`
	PropertyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	AvailabilityID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (BookingDayModel) TableName() string {
	return "booking_days"
}

// GormAvailabilityLedger implements availability.Ledger using GORM.
type GormAvailabilityLedger struct {
	db    *gorm.DB
	clock domain.Clock
}

// NewGormAvailabilityLedger creates a new ledger backed by the availability
// and booking_days tables.
func NewGormAvailabilityLedger(db *gorm.DB, clock domain.Clock) *GormAvailabilityLedger {
	return &GormAvailabilityLedger{db: db, clock: clock}
}

// Calendar returns entries for [start, end), synthesizing bookable entries
// for dates without a stored row.
func (l *GormAvailabilityLedger) Calendar(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*availability.Entry, error) {
	stored, err := l.loadRange(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]*AvailabilityModel, len(stored))
	for i := range stored {
		byDate[domain.Date(stored[i].Date)] = &stored[i]
	}

	var entries []*availability.Entry
	for _, d := range availability.DatesIn(domain.Date(start), domain.Date(end)) {
		if m, ok := byDate[d]; ok {
			entries = append(entries, toEntry(m))
			continue
		}
		entries = append(entries, &availability.Entry{
			PropertyID:  propertyID,
			Date:        d,
			IsAvailable: true,
		})
	}
	return entries, nil
}

// PlaceTentativeHold marks every date in [start, end) tentative until expiry.
func (l *GormAvailabilityLedger) PlaceTentativeHold(ctx context.Context, propertyID uuid.UUID, start, end time.Time, expiry time.Time) error {
	db := dbFrom(ctx, l.db)
	now := l.clock.Now()

	stored, err := l.loadRange(ctx, propertyID, start, end)
	if err != nil {
		return err
	}
	byDate := make(map[time.Time]*AvailabilityModel, len(stored))
	for i := range stored {
		m := &stored[i]
		if !toEntry(m).IsBookable(now) {
			return domain.NewAlreadyBlockedError(fmt.Sprintf("date %s is not available", m.Date.Format("2006-01-02")))
		}
		byDate[domain.Date(m.Date)] = m
	}

	for _, d := range availability.DatesIn(domain.Date(start), domain.Date(end)) {
		if m, ok := byDate[d]; ok {
			res := db.Model(&AvailabilityModel{}).
				Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"is_tentative": true,
					"hold_expiry":  expiry,
					"updated_at":   now,
				})
			if res.Error != nil {
				return res.Error
			}
			continue
		}
		row := AvailabilityModel{
			ID:          uuid.New(),
			PropertyID:  propertyID,
			Date:        d,
			IsAvailable: true,
			IsTentative: true,
			HoldExpiry:  &expiry,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewAlreadyBlockedError(fmt.Sprintf("date %s was just taken", d.Format("2006-01-02")))
			}
			return err
		}
	}
	return nil
}

// ReleaseHold clears tentative flags on [start, end).
func (l *GormAvailabilityLedger) ReleaseHold(ctx context.Context, propertyID uuid.UUID, start, end time.Time) error {
	return dbFrom(ctx, l.db).Model(&AvailabilityModel{}).
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, domain.Date(start), domain.Date(end)).
		Where("is_tentative = ?", true).
		Updates(map[string]interface{}{
			"is_tentative": false,
			"hold_expiry":  nil,
			"updated_at":   l.clock.Now(),
		}).Error
}

// MaterializeBooking converts the booking's range into permanent
// blocked-by-booking entries and BookingDay rows. Tentative holds do not
// block materialization: only the booking-row overlap check can admit a
// competing booking, and it runs in the same transaction.
func (l *GormAvailabilityLedger) MaterializeBooking(ctx context.Context, bookingID, propertyID uuid.UUID, start, end time.Time) error {
	db := dbFrom(ctx, l.db)
	now := l.clock.Now()

	stored, err := l.loadRange(ctx, propertyID, start, end)
	if err != nil {
		return err
	}
	byDate := make(map[time.Time]*AvailabilityModel, len(stored))
	for i := range stored {
		m := &stored[i]
		if !m.IsAvailable || m.BlockedByOwner || (m.BlockedByBookingID != nil && *m.BlockedByBookingID != bookingID) {
			return domain.NewAlreadyBlockedError(fmt.Sprintf("date %s became unavailable", m.Date.Format("2006-01-02")))
		}
		byDate[domain.Date(m.Date)] = m
	}

	for _, d := range availability.DatesIn(domain.Date(start), domain.Date(end)) {
		entryID := uuid.New()
		if m, ok := byDate[d]; ok {
			entryID = m.ID
			res := db.Model(&AvailabilityModel{}).
				Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"blocked_by_booking_id": bookingID,
					"is_tentative":          false,
					"hold_expiry":           nil,
					"updated_at":            now,
				})
			if res.Error != nil {
				return res.Error
			}
		} else {
			row := AvailabilityModel{
				ID:                 entryID,
				PropertyID:         propertyID,
				Date:               d,
				IsAvailable:        true,
				BlockedByBookingID: &bookingID,
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := db.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return domain.NewAlreadyBlockedError(fmt.Sprintf("date %s was just taken", d.Format("2006-01-02")))
				}
				return err
			}
		}

		day := BookingDayModel{
			ID:             uuid.New(),
			BookingID:      bookingID,
			Date:           d,
			PropertyID:     propertyID,
			AvailabilityID: entryID,
			CreatedAt:      now,
		}
		if err := db.Create(&day).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewConflictError("booking day already materialized")
			}
			return err
		}
	}
	return nil
}

// ReleaseBooking deletes the booking's day rows and frees its entries.
func (l *GormAvailabilityLedger) ReleaseBooking(ctx context.Context, bookingID, propertyID uuid.UUID, start, end time.Time) error {
	db := dbFrom(ctx, l.db)

	if err := db.Where("booking_id = ?", bookingID).Delete(&BookingDayModel{}).Error; err != nil {
		return err
	}

	if err := db.Model(&AvailabilityModel{}).
		Where("property_id = ?", propertyID).
		Where("blocked_by_booking_id = ?", bookingID).
		Updates(map[string]interface{}{
			"blocked_by_booking_id": nil,
			"is_tentative":          false,
			"hold_expiry":           nil,
			"updated_at":            l.clock.Now(),
		}).Error; err != nil {
		return err
	}

	// The creation hold may still be tentative if the booking never got
	// materialized (reject or pre-approval cancel).
	return l.ReleaseHold(ctx, propertyID, start, end)
}

// BlockByOwner marks [start, end) owner-blocked.
func (l *GormAvailabilityLedger) BlockByOwner(ctx context.Context, propertyID uuid.UUID, start, end time.Time) error {
	db := dbFrom(ctx, l.db)
	now := l.clock.Now()

	stored, err := l.loadRange(ctx, propertyID, start, end)
	if err != nil {
		return err
	}
	byDate := make(map[time.Time]*AvailabilityModel, len(stored))
	for i := range stored {
		m := &stored[i]
		if m.BlockedByBookingID != nil || (m.IsTentative && m.HoldExpiry != nil && now.Before(*m.HoldExpiry)) {
			return domain.NewAlreadyBlockedError(fmt.Sprintf("date %s is booked or held", m.Date.Format("2006-01-02")))
		}
		byDate[domain.Date(m.Date)] = m
	}

	for _, d := range availability.DatesIn(domain.Date(start), domain.Date(end)) {
		if m, ok := byDate[d]; ok {
			res := db.Model(&AvailabilityModel{}).
				Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"blocked_by_owner": true,
					"is_tentative":     false,
					"hold_expiry":      nil,
					"updated_at":       now,
				})
			if res.Error != nil {
				return res.Error
			}
			continue
		}
		row := AvailabilityModel{
			ID:             uuid.New(),
			PropertyID:     propertyID,
			Date:           d,
			IsAvailable:    true,
			BlockedByOwner: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewAlreadyBlockedError(fmt.Sprintf("date %s was just taken", d.Format("2006-01-02")))
			}
			return err
		}
	}
	return nil
}

// UnblockByOwner clears owner blocks on [start, end).
func (l *GormAvailabilityLedger) UnblockByOwner(ctx context.Context, propertyID uuid.UUID, start, end time.Time) error {
	return dbFrom(ctx, l.db).Model(&AvailabilityModel{}).
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, domain.Date(start), domain.Date(end)).
		Where("blocked_by_owner = ?", true).
		Updates(map[string]interface{}{
			"blocked_by_owner": false,
			"updated_at":       l.clock.Now(),
		}).Error
}

// SetPriceOverride stores or clears a per-date nightly price override.
func (l *GormAvailabilityLedger) SetPriceOverride(ctx context.Context, propertyID uuid.UUID, date time.Time, priceCents *int64) error {
	db := dbFrom(ctx, l.db)
	now := l.clock.Now()
	date = domain.Date(date)

	var model AvailabilityModel
	err := db.Where("property_id = ? AND date = ?", propertyID, date).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row := AvailabilityModel{
			ID:                 uuid.New(),
			PropertyID:         propertyID,
			Date:               date,
			IsAvailable:        true,
			PriceOverrideCents: priceCents,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return db.Create(&row).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&AvailabilityModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"price_override_cents": priceCents,
			"updated_at":           now,
		}).Error
}

// SweepExpiredHolds clears tentative flags whose expiry has passed.
func (l *GormAvailabilityLedger) SweepExpiredHolds(ctx context.Context, asOf time.Time) (int64, error) {
	res := dbFrom(ctx, l.db).Model(&AvailabilityModel{}).
		Where("is_tentative = ? AND hold_expiry IS NOT NULL AND hold_expiry <= ?", true, asOf).
		Updates(map[string]interface{}{
			"is_tentative": false,
			"hold_expiry":  nil,
			"updated_at":   l.clock.Now(),
		})
	return res.RowsAffected, res.Error
}

func (l *GormAvailabilityLedger) loadRange(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]AvailabilityModel, error) {
	var models []AvailabilityModel
	err := dbFrom(ctx, l.db).
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, domain.Date(start), domain.Date(end)).
		Order("date ASC").
		Find(&models).Error
	return models, err
}

func toEntry(m *AvailabilityModel) *availability.Entry {
	return &availability.Entry{
		ID:                 m.ID,
		PropertyID:         m.PropertyID,
		Date:               domain.Date(m.Date),
		IsAvailable:        m.IsAvailable,
		BlockedByBookingID: m.BlockedByBookingID,
		BlockedByOwner:     m.BlockedByOwner,
		PriceOverrideCents: m.PriceOverrideCents,
		IsTentative:        m.IsTentative,
		HoldExpiry:         m.HoldExpiry,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
