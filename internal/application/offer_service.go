package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/offer"
	"github.com/ajar-homes/service-booking/internal/domain/property"
	"github.com/ajar-homes/service-booking/internal/pricing"
)

// OfferService manages promotional offers and answers what a code would be
// worth for a given stay.
type OfferService struct {
	offers     offer.Repository
	properties property.Repository
	calc       *pricing.Calculator
	clock      domain.Clock
	logger     *zap.Logger
}

// NewOfferService creates an OfferService.
func NewOfferService(offers offer.Repository, properties property.Repository, calc *pricing.Calculator, clock domain.Clock, logger *zap.Logger) *OfferService {
	return &OfferService{
		offers:     offers,
		properties: properties,
		calc:       calc,
		clock:      clock,
		logger:     logger,
	}
}

// CreateOffer creates an offer. Property-scoped offers require ownership of
// the property; platform-wide offers are admin-only.
func (s *OfferService) CreateOffer(ctx context.Context, callerID uuid.UUID, callerRole string, req CreateOfferRequest) (*OfferDTO, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	if req.PropertyID != nil {
		prop, err := s.properties.FindByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if callerRole != "admin" && prop.OwnerID() != callerID {
			return nil, domain.NewNotFoundError("property", req.PropertyID.String())
		}
	} else if callerRole != "admin" {
		return nil, domain.NewValidationError("platform-wide offers require admin role")
	}

	o, err := offer.NewOffer(req.PropertyID, req.Code, req.Description, offer.DiscountType(req.DiscountType), req.DiscountValue, start, end, req.UsageLimit, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.offers.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("offer created",
		zap.String("offer_id", o.ID().String()),
		zap.String("code", o.Code()),
	)
	dto := toOfferDTO(o)
	return &dto, nil
}

// ListActiveOffers returns offers inside their validity window.
func (s *OfferService) ListActiveOffers(ctx context.Context) ([]OfferDTO, error) {
	list, err := s.offers.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]OfferDTO, 0, len(list))
	for _, o := range list {
		dtos = append(dtos, toOfferDTO(o))
	}
	return dtos, nil
}

// ValidateOffer prices a hypothetical stay with the given code. An unknown
// or inapplicable code yields a quote with zero discount, not an error.
func (s *OfferService) ValidateOffer(ctx context.Context, req ValidateOfferRequest) (*QuoteDTO, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	prop, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	quote, err := s.calc.Price(ctx, prop, start, end, req.Code)
	if err != nil {
		return nil, err
	}

	dto := QuoteDTO{
		Nights:        quote.Nights,
		OriginalCents: quote.OriginalCents,
		DiscountCents: quote.DiscountCents,
		TotalCents:    quote.TotalCents,
		OfferApplied:  quote.Offer != nil,
	}
	if quote.Offer != nil {
		dto.OfferCode = quote.Offer.Code()
	}
	return &dto, nil
}

// DeactivateOffer turns an offer off. Owners may deactivate offers on their
// own properties; admins may deactivate anything.
func (s *OfferService) DeactivateOffer(ctx context.Context, callerID uuid.UUID, callerRole string, offerID uuid.UUID) error {
	o, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return err
	}

	if callerRole != "admin" {
		if o.PropertyID() == nil {
			return domain.NewNotFoundError("offer", offerID.String())
		}
		prop, err := s.properties.FindByID(ctx, *o.PropertyID())
		if err != nil {
			return err
		}
		if prop.OwnerID() != callerID {
			return domain.NewNotFoundError("offer", offerID.String())
		}
	}

	o.Deactivate(s.clock.Now())
	return s.offers.Update(ctx, o)
}
