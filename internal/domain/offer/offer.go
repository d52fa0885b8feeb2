package offer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/domain"
)

// DiscountType represents the type of discount.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

// Offer is the aggregate root for promotional offers. An offer is either
// scoped to a single property or platform-wide (nil propertyID). Codes are
// stored uppercase and matched case-insensitively.
type Offer struct {
	id            uuid.UUID
	propertyID    *uuid.UUID
	code          string
	description   string
	discountType  DiscountType
	discountValue int64 // percentage points, or a fixed amount in cents
	startDate     time.Time
	endDate       time.Time
	active        bool
	usageLimit    int
	currentUses   int
	createdAt     time.Time
	updatedAt     time.Time
}

// NewOffer creates a new offer valid within [startDate, endDate] inclusive,
// at date granularity.
func NewOffer(propertyID *uuid.UUID, code, description string, discountType DiscountType, discountValue int64, startDate, endDate time.Time, usageLimit int, now time.Time) (*Offer, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.NewValidationError("offer code is required")
	}
	if discountType != DiscountTypePercentage && discountType != DiscountTypeFixedAmount {
		return nil, domain.NewValidationError("invalid discount type: " + string(discountType))
	}
	if discountValue <= 0 {
		return nil, domain.NewValidationError("discount value must be positive")
	}
	if discountType == DiscountTypePercentage && discountValue > 100 {
		return nil, domain.NewValidationError("percentage discount cannot exceed 100")
	}
	startDate = domain.Date(startDate)
	endDate = domain.Date(endDate)
	if endDate.Before(startDate) {
		return nil, domain.NewValidationError("end date must not be before start date")
	}

	return &Offer{
		id:            uuid.New(),
		propertyID:    propertyID,
		code:          code,
		description:   description,
		discountType:  discountType,
		discountValue: discountValue,
		startDate:     startDate,
		endDate:       endDate,
		active:        true,
		usageLimit:    usageLimit,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// IsValid reports whether the offer is active, inside its validity window
// (start <= today <= end), and under its usage limit.
func (o *Offer) IsValid(now time.Time) bool {
	today := domain.Date(now)
	if !o.active || today.Before(o.startDate) || today.After(o.endDate) {
		return false
	}
	return o.usageLimit == 0 || o.currentUses < o.usageLimit
}

// CalculateDiscount computes the discount for an original price. Percentage
// offers yield price*value/100; fixed offers yield the value capped so the
// resulting total is never negative.
func (o *Offer) CalculateDiscount(originalCents int64) int64 {
	var discount int64
	switch o.discountType {
	case DiscountTypePercentage:
		discount = originalCents * o.discountValue / 100
	case DiscountTypeFixedAmount:
		discount = o.discountValue
	}
	if discount > originalCents {
		discount = originalCents
	}
	return discount
}

// IncrementUses records one redemption.
func (o *Offer) IncrementUses(now time.Time) {
	o.currentUses++
	o.updatedAt = now
}

// Deactivate turns the offer off without deleting it.
func (o *Offer) Deactivate(now time.Time) {
	o.active = false
	o.updatedAt = now
}

// Getters.
func (o *Offer) ID() uuid.UUID              { return o.id }
func (o *Offer) PropertyID() *uuid.UUID     { return o.propertyID }
func (o *Offer) Code() string               { return o.code }
func (o *Offer) Description() string        { return o.description }
func (o *Offer) DiscountType() DiscountType { return o.discountType }
func (o *Offer) DiscountValue() int64       { return o.discountValue }
func (o *Offer) StartDate() time.Time       { return o.startDate }
func (o *Offer) EndDate() time.Time         { return o.endDate }
func (o *Offer) Active() bool               { return o.active }
func (o *Offer) UsageLimit() int            { return o.usageLimit }
func (o *Offer) CurrentUses() int           { return o.currentUses }
func (o *Offer) CreatedAt() time.Time       { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time       { return o.updatedAt }

// Reconstruct rebuilds an Offer from persistence.
func Reconstruct(id uuid.UUID, propertyID *uuid.UUID, code, description string, discountType DiscountType, discountValue int64, startDate, endDate time.Time, active bool, usageLimit, currentUses int, createdAt, updatedAt time.Time) *Offer {
	return &Offer{
		id: id, propertyID: propertyID, code: code, description: description,
		discountType: discountType, discountValue: discountValue,
		startDate: startDate, endDate: endDate, active: active,
		usageLimit: usageLimit, currentUses: currentUses,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}
