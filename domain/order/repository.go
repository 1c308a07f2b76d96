package order

import (
	"context"

	"ecommerce/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	// Save Save or update order aggregate root
	// New orders are inserted with their items; existing orders are updated
	// under optimistic locking and never touch the item snapshot.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound when absent
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByUserID Find user's orders, newest first
	FindByUserID(ctx context.Context, userID string) ([]*Order, error)

	// FindBySpecification Find orders matching spec, newest first
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)
}
