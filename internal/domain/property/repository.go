package property

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for properties.
type Repository interface {
	Save(ctx context.Context, p *Property) error
	Update(ctx context.Context, p *Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Property, error)

	// LockByID loads the property with a row-level write lock, serializing
	// concurrent booking attempts per property. Only valid inside a
	// transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*Property, error)
}
