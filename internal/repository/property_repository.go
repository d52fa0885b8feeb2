package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ajar-homes/service-booking/internal/domain"
	propertyDomain "github.com/ajar-homes/service-booking/internal/domain/property"
)

// PropertyModel is the GORM model for the properties table.
type PropertyModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID                uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                   string    `gorm:"type:varchar(200);not null"`
	City                   string    `gorm:"type:varchar(100)"`
	Status                 string    `gorm:"type:varchar(20);not null;default:'active'"`
	MaxCapacity            int       `gorm:"not null"`
	DefaultDailyPriceCents int64     `gorm:"not null"`
	CreatedAt              time.Time `gorm:"not null"`
	UpdatedAt              time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PropertyModel) TableName() string { return "properties" }

// GormPropertyRepository implements property.Repository using GORM.
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository.
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// Save persists a new property.
func (r *GormPropertyRepository) Save(ctx context.Context, p *propertyDomain.Property) error {
	model := toPropertyModel(p)
	return dbFrom(ctx, r.db).Create(&model).Error
}

// Update updates a property.
func (r *GormPropertyRepository) Update(ctx context.Context, p *propertyDomain.Property) error {
	model := toPropertyModel(p)
	return dbFrom(ctx, r.db).Save(&model).Error
}

// FindByID returns a property by ID.
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	var model PropertyModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Property", id.String())
		}
		return nil, err
	}
	return toPropertyDomain(&model), nil
}

// ListByOwner returns the owner's properties.
func (r *GormPropertyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*propertyDomain.Property, error) {
	var models []PropertyModel
	if err := dbFrom(ctx, r.db).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	props := make([]*propertyDomain.Property, len(models))
	for i := range models {
		props[i] = toPropertyDomain(&models[i])
	}
	return props, nil
}

// LockByID loads the property with SELECT ... FOR UPDATE. Every booking
// mutation locks the property row first, serializing overlap checks per
// property.
func (r *GormPropertyRepository) LockByID(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	var model PropertyModel
	if err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Property", id.String())
		}
		return nil, err
	}
	return toPropertyDomain(&model), nil
}

func toPropertyModel(p *propertyDomain.Property) PropertyModel {
	return PropertyModel{
		ID:                     p.ID(),
		OwnerID:                p.OwnerID(),
		Name:                   p.Name(),
		City:                   p.City(),
		Status:                 string(p.Status()),
		MaxCapacity:            p.MaxCapacity(),
		DefaultDailyPriceCents: p.DefaultDailyPriceCents(),
		CreatedAt:              p.CreatedAt(),
		UpdatedAt:              p.UpdatedAt(),
	}
}

func toPropertyDomain(m *PropertyModel) *propertyDomain.Property {
	return propertyDomain.Reconstruct(
		m.ID, m.OwnerID, m.Name, m.City,
		propertyDomain.Status(m.Status),
		m.MaxCapacity, m.DefaultDailyPriceCents,
		m.CreatedAt, m.UpdatedAt,
	)
}
