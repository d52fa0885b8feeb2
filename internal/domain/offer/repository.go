package offer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for offers.
type Repository interface {
	Save(ctx context.Context, o *Offer) error
	Update(ctx context.Context, o *Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)

	// FindByCodeForProperty resolves an offer code case-insensitively,
	// considering only active offers scoped to the given property or
	// platform-wide. Property-scoped offers take precedence over
	// platform-wide ones when both match. Returns ErrNotFound when no
	// offer matches.
	FindByCodeForProperty(ctx context.Context, code string, propertyID uuid.UUID) (*Offer, error)

	// FindActive returns all offers inside their validity window.
	FindActive(ctx context.Context) ([]*Offer, error)
}
