// Package pricing computes stay prices. The calculator is pure over the
// injected clock and the stored offers; it never mutates anything.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/offer"
	"github.com/ajar-homes/service-booking/internal/domain/property"
)

// Quote is the price breakdown for a stay.
type Quote struct {
	Nights        int
	OriginalCents int64
	DiscountCents int64
	TotalCents    int64
	Offer         *offer.Offer // nil when no valid offer applied
}

// Calculator prices stays and applies offers.
type Calculator struct {
	offers offer.Repository
	clock  domain.Clock
}

// NewCalculator creates a pricing calculator.
func NewCalculator(offers offer.Repository, clock domain.Clock) *Calculator {
	return &Calculator{offers: offers, clock: clock}
}

// Price computes original, discount and total for [start, end) at the
// property's default nightly rate. An unknown, inactive or out-of-window
// offer code degrades to a zero discount rather than an error.
func (c *Calculator) Price(ctx context.Context, prop *property.Property, start, end time.Time, offerCode string) (Quote, error) {
	start = domain.Date(start)
	end = domain.Date(end)
	nights := int(end.Sub(start) / (24 * time.Hour))
	if nights <= 0 {
		return Quote{}, domain.NewInvalidRangeError("stay must cover at least one night")
	}

	original := int64(nights) * prop.DefaultDailyPriceCents()

	var (
		discount   int64
		appliedOff *offer.Offer
	)
	if offerCode != "" {
		off, err := c.offers.FindByCodeForProperty(ctx, offerCode, prop.ID())
		switch {
		case err == nil:
			if off.IsValid(c.clock.Now()) {
				discount = off.CalculateDiscount(original)
				appliedOff = off
			}
		case errors.Is(err, domain.ErrNotFound):
			// Unknown code: silently ignored.
		default:
			return Quote{}, err
		}
	}

	total := original - discount
	if total < 0 {
		total = 0
	}

	return Quote{
		Nights:        nights,
		OriginalCents: original,
		DiscountCents: discount,
		TotalCents:    total,
		Offer:         appliedOff,
	}, nil
}
