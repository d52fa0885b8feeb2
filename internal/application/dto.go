// Package application hosts the use-case services that orchestrate the
// domain aggregates, the ledger and the repositories.
package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/availability"
	"github.com/ajar-homes/service-booking/internal/domain/booking"
	"github.com/ajar-homes/service-booking/internal/domain/offer"
	"github.com/ajar-homes/service-booking/internal/domain/property"
)

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD request field into a UTC midnight time.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field + " must be a YYYY-MM-DD date")
	}
	return domain.Date(t), nil
}

// --- Requests ---

// CreateBookingRequest is the DTO for creating a booking.
type CreateBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required"`
	EndDate    string    `json:"end_date" binding:"required"`
	OfferCode  string    `json:"offer_code"`
}

// RespondToBookingRequest is the owner's approve/reject decision.
type RespondToBookingRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

// CreatePropertyRequest is the DTO for listing a new property.
type CreatePropertyRequest struct {
	Name            string `json:"name" binding:"required"`
	City            string `json:"city"`
	MaxCapacity     int    `json:"max_capacity" binding:"required,gt=0"`
	DailyPriceCents int64  `json:"daily_price_cents" binding:"required,gt=0"`
}

// UpdatePropertyRequest carries the owner-mutable property fields.
type UpdatePropertyRequest struct {
	DailyPriceCents *int64  `json:"daily_price_cents"`
	MaxCapacity     *int    `json:"max_capacity"`
	Status          *string `json:"status"`
}

// DateRangeRequest is a half-open [start, end) date range.
type DateRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// PriceOverrideRequest sets or clears a per-date nightly price.
type PriceOverrideRequest struct {
	Date       string `json:"date" binding:"required"`
	PriceCents *int64 `json:"price_cents"`
}

// CreateOfferRequest is the DTO for creating an offer.
type CreateOfferRequest struct {
	PropertyID    *uuid.UUID `json:"property_id"`
	Code          string     `json:"code" binding:"required"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discount_type" binding:"required,oneof=percentage fixed_amount"`
	DiscountValue int64      `json:"discount_value" binding:"required,gt=0"`
	StartDate     string     `json:"start_date" binding:"required"`
	EndDate       string     `json:"end_date" binding:"required"`
	UsageLimit    int        `json:"usage_limit"`
}

// ValidateOfferRequest asks what a code would be worth for a stay.
type ValidateOfferRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Code       string    `json:"code" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required"`
	EndDate    string    `json:"end_date" binding:"required"`
}

// --- Responses ---

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	PropertyID      uuid.UUID  `json:"property_id"`
	OfferID         *uuid.UUID `json:"offer_id,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	Nights          int        `json:"nights"`
	OriginalCents   int64      `json:"original_price_cents"`
	DiscountCents   int64      `json:"discount_cents"`
	TotalCents      int64      `json:"total_price_cents"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	OwnerResponse   *time.Time `json:"owner_response,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toBookingDTO(b *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:              b.ID(),
		UserID:          b.UserID(),
		PropertyID:      b.PropertyID(),
		OfferID:         b.OfferID(),
		StartDate:       b.StartDate().Format(dateLayout),
		EndDate:         b.EndDate().Format(dateLayout),
		Nights:          b.Nights(),
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

func toBookingDTOs(list []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, 0, len(list))
	for _, b := range list {
		dtos = append(dtos, toBookingDTO(b))
	}
	return dtos
}

// PropertyDTO is the API representation of a property.
type PropertyDTO struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Name            string    `json:"name"`
	City            string    `json:"city,omitempty"`
	Status          string    `json:"status"`
	MaxCapacity     int       `json:"max_capacity"`
	DailyPriceCents int64     `json:"daily_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toPropertyDTO(p *property.Property) PropertyDTO {
	return PropertyDTO{
		ID:              p.ID(),
		OwnerID:         p.OwnerID(),
		Name:            p.Name(),
		City:            p.City(),
		Status:          string(p.Status()),
		MaxCapacity:     p.MaxCapacity(),
		DailyPriceCents: p.DefaultDailyPriceCents(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

// OfferDTO is the API representation of an offer.
type OfferDTO struct {
	ID            uuid.UUID  `json:"id"`
	PropertyID    *uuid.UUID `json:"property_id,omitempty"`
	Code          string     `json:"code"`
	Description   string     `json:"description,omitempty"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue int64      `json:"discount_value"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Active        bool       `json:"active"`
	UsageLimit    int        `json:"usage_limit"`
	CurrentUses   int        `json:"current_uses"`
}

func toOfferDTO(o *offer.Offer) OfferDTO {
	return OfferDTO{
		ID:            o.ID(),
		PropertyID:    o.PropertyID(),
		Code:          o.Code(),
		Description:   o.Description(),
		DiscountType:  string(o.DiscountType()),
		DiscountValue: o.DiscountValue(),
		StartDate:     o.StartDate().Format(dateLayout),
		EndDate:       o.EndDate().Format(dateLayout),
		Active:        o.Active(),
		UsageLimit:    o.UsageLimit(),
		CurrentUses:   o.CurrentUses(),
	}
}

// QuoteDTO is the price breakdown returned by offer validation.
type QuoteDTO struct {
	Nights        int    `json:"nights"`
	OriginalCents int64  `json:"original_price_cents"`
	DiscountCents int64  `json:"discount_cents"`
	TotalCents    int64  `json:"total_price_cents"`
	OfferApplied  bool   `json:"offer_applied"`
	OfferCode     string `json:"offer_code,omitempty"`
}

// CalendarDayDTO is one date in a property's calendar view.
type CalendarDayDTO struct {
	Date            string `json:"date"`
	Bookable        bool   `json:"bookable"`
	BlockedByOwner  bool   `json:"blocked_by_owner"`
	Held            bool   `json:"held"`
	NightlyCents    int64  `json:"nightly_price_cents"`
	PriceOverridden bool   `json:"price_overridden"`
}

func toCalendarDayDTO(e *availability.Entry, defaultNightlyCents int64, now time.Time) CalendarDayDTO {
	nightly := defaultNightlyCents
	if e.PriceOverrideCents != nil {
		nightly = *e.PriceOverrideCents
	}
	held := e.IsTentative && e.HoldExpiry != nil && now.Before(*e.HoldExpiry)
	return CalendarDayDTO{
		Date:            e.Date.Format(dateLayout),
		Bookable:        e.IsBookable(now),
		BlockedByOwner:  e.BlockedByOwner,
		Held:            held,
		NightlyCents:    nightly,
		PriceOverridden: e.PriceOverrideCents != nil,
	}
}

// BookingStatsDTO is the admin statistics view.
type BookingStatsDTO struct {
	TotalBookedCents int64            `json:"total_booked_cents"`
	CountByStatus    map[string]int64 `json:"count_by_status"`
}
