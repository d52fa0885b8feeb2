package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajar-homes/service-booking/internal/domain"
	bookingDomain "github.com/ajar-homes/service-booking/internal/domain/booking"
)

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	PropertyID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	OfferID         *uuid.UUID `gorm:"type:uuid"`
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	OriginalCents   int64      `gorm:"not null"`
	DiscountCents   int64      `gorm:"not null;default:0"`
	TotalCents      int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(30);not null;default:'pending_owner_approval';index"`
	PaymentStatus   string     `gorm:"type:varchar(20);not null;default:'pending'"`
	OwnerResponse   *time.Time `gorm:"type:timestamptz"`
	RejectionReason string     `gorm:"type:text"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt       time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

// blockingStatuses are the booking states that reserve dates. Pending
// bookings block conservatively so the approval window cannot double-book.
var blockingStatuses = []string{
	string(bookingDomain.StatusPendingOwnerApproval),
	string(bookingDomain.StatusConfirmed),
}

// BookingRepositoryImpl is the GORM-based implementation of booking.Repository.
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM-based booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// FindByID retrieves a booking by its unique ID.
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// ListByUser retrieves a user's bookings, newest first.
func (r *BookingRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := dbFrom(ctx, r.db).Where("user_id = ?", userID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toBookingDomainSlice(models), nil
}

// ListByProperty retrieves a property's bookings, newest first.
func (r *BookingRepositoryImpl) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := dbFrom(ctx, r.db).Where("property_id = ?", propertyID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toBookingDomainSlice(models), nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *BookingRepositoryImpl) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	db.Model(&BookingModel{}).Count(&total)

	var models []BookingModel
	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return toBookingDomainSlice(models), total, nil
}

// GetStats returns booking statistics (admin).
func (r *BookingRepositoryImpl) GetStats(ctx context.Context) (int64, map[string]int64, error) {
	db := dbFrom(ctx, r.db)

	var totalBooked int64
	db.Model(&BookingModel{}).
		Where("status IN ?", []string{string(bookingDomain.StatusConfirmed), string(bookingDomain.StatusCompleted)}).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&totalBooked)

	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := db.Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return 0, nil, err
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return totalBooked, counts, nil
}

// HasOverlap reports whether any blocking booking overlaps [start, end) on
// the property. Half-open semantics: touching endpoints do not conflict.
func (r *BookingRepositoryImpl) HasOverlap(ctx context.Context, propertyID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	q := dbFrom(ctx, r.db).Model(&BookingModel{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", blockingStatuses).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindDueForCompletion retrieves confirmed bookings whose end date has passed.
func (r *BookingRepositoryImpl) FindDueForCompletion(ctx context.Context, asOf time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := dbFrom(ctx, r.db).
		Where("status = ?", string(bookingDomain.StatusConfirmed)).
		Where("end_date <= ?", asOf).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toBookingDomainSlice(models), nil
}

// Save persists a new booking aggregate.
func (r *BookingRepositoryImpl) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	return dbFrom(ctx, r.db).Create(model).Error
}

// Update persists changes to an existing booking with optimistic locking.
func (r *BookingRepositoryImpl) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	previousVersion := b.Version() - 1

	result := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select("Status", "PaymentStatus", "OwnerResponse", "RejectionReason", "Version", "UpdatedAt").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

func toBookingDomainSlice(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings
}

// toBookingDomain maps a BookingModel to the domain Booking aggregate.
func toBookingDomain(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		m.ID,
		m.UserID,
		m.PropertyID,
		m.OfferID,
		m.StartDate,
		m.EndDate,
		m.OriginalCents,
		m.DiscountCents,
		m.TotalCents,
		bookingDomain.Status(m.Status),
		bookingDomain.PaymentStatus(m.PaymentStatus),
		m.OwnerResponse,
		m.RejectionReason,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// toBookingModel maps a domain Booking aggregate to a BookingModel.
func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              b.ID(),
		UserID:          b.UserID(),
		PropertyID:      b.PropertyID(),
		OfferID:         b.OfferID(),
		StartDate:       b.StartDate(),
		EndDate:         b.EndDate(),
		OriginalCents:   b.OriginalCents(),
		DiscountCents:   b.DiscountCents(),
		TotalCents:      b.TotalCents(),
		Status:          string(b.Status()),
		PaymentStatus:   string(b.PaymentStatus()),
		OwnerResponse:   b.OwnerResponse(),
		RejectionReason: b.RejectionReason(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}
