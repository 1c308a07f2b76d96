package order

import (
	"context"

	"ecommerce/domain/shared"
)

// ByUserIDSpecification filters orders by user ID
type ByUserIDSpecification struct {
	UserID string
}

// IsSatisfiedBy returns true if the order belongs to the specified user
func (spec ByUserIDSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.UserID() == spec.UserID
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

// IsSatisfiedBy returns true if the order has the specified status
func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// NewUserStatusSpecification filters a user's orders, optionally by status
func NewUserStatusSpecification(userID string, status Status) shared.Specification[*Order] {
	spec := shared.Specification[*Order](ByUserIDSpecification{UserID: userID})
	if status != "" {
		spec = shared.And(spec, shared.Specification[*Order](ByStatusSpecification{Status: status}))
	}
	return spec
}
