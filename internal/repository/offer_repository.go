package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajar-homes/service-booking/internal/domain"
	offerDomain "github.com/ajar-homes/service-booking/internal/domain/offer"
)

// OfferModel is the GORM model for the offers table.
type OfferModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID    *uuid.UUID `gorm:"type:uuid;index"`
	Code          string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description   string     `gorm:"type:text"`
	DiscountType  string     `gorm:"type:varchar(20);not null"`
	DiscountValue int64      `gorm:"not null"`
	StartDate     time.Time  `gorm:"type:date;not null"`
	EndDate       time.Time  `gorm:"type:date;not null"`
	Active        bool       `gorm:"not null;default:true"`
	UsageLimit    int        `gorm:"default:0"`
	CurrentUses   int        `gorm:"default:0"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName sets the table name.
func (OfferModel) TableName() string { return "offers" }

// GormOfferRepository implements offer.Repository using GORM.
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository.
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// Save persists a new offer.
func (r *GormOfferRepository) Save(ctx context.Context, o *offerDomain.Offer) error {
	model := toOfferModel(o)
	return dbFrom(ctx, r.db).Create(&model).Error
}

// Update updates an offer.
func (r *GormOfferRepository) Update(ctx context.Context, o *offerDomain.Offer) error {
	model := toOfferModel(o)
	return dbFrom(ctx, r.db).Save(&model).Error
}

// FindByID returns an offer by ID.
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	var model OfferModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", id.String())
		}
		return nil, err
	}
	return toOfferDomain(&model), nil
}

// FindByCodeForProperty resolves an offer code case-insensitively among
// active offers scoped to the property or platform-wide. Ordering puts the
// property-scoped match first so it wins ties with a platform-wide offer
// carrying the same code.
func (r *GormOfferRepository) FindByCodeForProperty(ctx context.Context, code string, propertyID uuid.UUID) (*offerDomain.Offer, error) {
	var model OfferModel
	err := dbFrom(ctx, r.db).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		Where("active = ?", true).
		Where("property_id = ? OR property_id IS NULL", propertyID).
		Order("property_id IS NULL").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", code)
		}
		return nil, err
	}
	return toOfferDomain(&model), nil
}

// FindActive returns all offers inside their validity window.
func (r *GormOfferRepository) FindActive(ctx context.Context) ([]*offerDomain.Offer, error) {
	var models []OfferModel
	today := domain.Date(time.Now().UTC())
	if err := dbFrom(ctx, r.db).
		Where("active = ?", true).
		Where("start_date <= ? AND end_date >= ?", today, today).
		Where("usage_limit = 0 OR current_uses < usage_limit").
		Find(&models).Error; err != nil {
		return nil, err
	}

	offers := make([]*offerDomain.Offer, len(models))
	for i, m := range models {
		offers[i] = toOfferDomain(&m)
	}
	return offers, nil
}

func toOfferModel(o *offerDomain.Offer) OfferModel {
	return OfferModel{
		ID:            o.ID(),
		PropertyID:    o.PropertyID(),
		Code:          o.Code(),
		Description:   o.Description(),
		DiscountType:  string(o.DiscountType()),
		DiscountValue: o.DiscountValue(),
		StartDate:     o.StartDate(),
		EndDate:       o.EndDate(),
		Active:        o.Active(),
		UsageLimit:    o.UsageLimit(),
		CurrentUses:   o.CurrentUses(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func toOfferDomain(m *OfferModel) *offerDomain.Offer {
	return offerDomain.Reconstruct(
		m.ID, m.PropertyID, m.Code, m.Description,
		offerDomain.DiscountType(m.DiscountType), m.DiscountValue,
		m.StartDate, m.EndDate, m.Active,
		m.UsageLimit, m.CurrentUses,
		m.CreatedAt, m.UpdatedAt,
	)
}
