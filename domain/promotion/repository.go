package promotion

import (
	"context"

	"ecommerce/domain/shared"
)

// Repository promotion repository interface
type Repository interface {
	// Save inserts a new promotion or updates an existing one under optimistic locking
	Save(ctx context.Context, p *Promotion) error

	// FindByID returns ErrPromotionNotFound when absent
	FindByID(ctx context.Context, id string) (*Promotion, error)

	// FindBySpecification lists promotions matching spec, newest first
	FindBySpecification(ctx context.Context, spec shared.Specification[*Promotion]) ([]*Promotion, error)

	// Delete physically removes the promotion, ErrPromotionNotFound when nothing was deleted
	Delete(ctx context.Context, id string) error
}
