package property

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/domain"
)

// Status represents the listing state of a property.
type Status string

const (
	StatusActive           Status = "active"
	StatusInactive         Status = "inactive"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusRetired          Status = "retired"
)

// Property is the aggregate root for a rentable property. Identity is
// immutable; price and capacity are owner-mutable. Properties are soft
// retired, never hard-deleted while bookings reference them.
type Property struct {
	id                     uuid.UUID
	ownerID                uuid.UUID
	name                   string
	city                   string
	status                 Status
	maxCapacity            int
	defaultDailyPriceCents int64
	createdAt              time.Time
	updatedAt              time.Time
}

// NewProperty creates an active property.
func NewProperty(ownerID uuid.UUID, name, city string, maxCapacity int, defaultDailyPriceCents int64, now time.Time) (*Property, error) {
	if name == "" {
		return nil, domain.NewValidationError("property name is required")
	}
	if maxCapacity <= 0 {
		return nil, domain.NewValidationError("max capacity must be positive")
	}
	if defaultDailyPriceCents <= 0 {
		return nil, domain.NewValidationError("daily price must be positive")
	}

	return &Property{
		id:                     uuid.New(),
		ownerID:                ownerID,
		name:                   name,
		city:                   city,
		status:                 StatusActive,
		maxCapacity:            maxCapacity,
		defaultDailyPriceCents: defaultDailyPriceCents,
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

// IsBookable reports whether new bookings may target this property.
func (p *Property) IsBookable() bool { return p.status == StatusActive }

// UpdatePricing changes the default nightly price.
func (p *Property) UpdatePricing(dailyPriceCents int64, now time.Time) error {
	if dailyPriceCents <= 0 {
		return domain.NewValidationError("daily price must be positive")
	}
	p.defaultDailyPriceCents = dailyPriceCents
	p.updatedAt = now
	return nil
}

// UpdateCapacity changes the maximum guest capacity.
func (p *Property) UpdateCapacity(maxCapacity int, now time.Time) error {
	if maxCapacity <= 0 {
		return domain.NewValidationError("max capacity must be positive")
	}
	p.maxCapacity = maxCapacity
	p.updatedAt = now
	return nil
}

// SetStatus moves the property between active/inactive/under_maintenance.
// Retired is terminal and only reachable through Retire.
func (p *Property) SetStatus(s Status, now time.Time) error {
	if p.status == StatusRetired {
		return domain.NewInvalidTransitionError(string(p.status), string(s))
	}
	if s != StatusActive && s != StatusInactive && s != StatusUnderMaintenance {
		return domain.NewValidationError("invalid property status: " + string(s))
	}
	p.status = s
	p.updatedAt = now
	return nil
}

// Retire soft-retires the property. Existing bookings keep referencing it.
func (p *Property) Retire(now time.Time) error {
	if p.status == StatusRetired {
		return domain.NewInvalidTransitionError(string(p.status), string(StatusRetired))
	}
	p.status = StatusRetired
	p.updatedAt = now
	return nil
}

// Getters.
func (p *Property) ID() uuid.UUID                  { return p.id }
func (p *Property) OwnerID() uuid.UUID             { return p.ownerID }
func (p *Property) Name() string                   { return p.name }
func (p *Property) City() string                   { return p.city }
func (p *Property) Status() Status                 { return p.status }
func (p *Property) MaxCapacity() int               { return p.maxCapacity }
func (p *Property) DefaultDailyPriceCents() int64  { return p.defaultDailyPriceCents }
func (p *Property) CreatedAt() time.Time           { return p.createdAt }
func (p *Property) UpdatedAt() time.Time           { return p.updatedAt }

// Reconstruct rebuilds a Property from persistence.
func Reconstruct(id, ownerID uuid.UUID, name, city string, status Status, maxCapacity int, defaultDailyPriceCents int64, createdAt, updatedAt time.Time) *Property {
	return &Property{
		id: id, ownerID: ownerID, name: name, city: city, status: status,
		maxCapacity: maxCapacity, defaultDailyPriceCents: defaultDailyPriceCents,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}
