package promotion

import (
	"context"

	"ecommerce/domain/shared"
)

// ByTypeSpecification filters promotions by type
type ByTypeSpecification struct {
	Type Type
}

func (spec ByTypeSpecification) IsSatisfiedBy(_ context.Context, p *Promotion) bool {
	return p.Type() == spec.Type
}

// ByStatusSpecification filters promotions by stored status
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, p *Promotion) bool {
	return p.Status() == spec.Status
}

// NewListSpecification builds the list filter; an empty type matches every promotion
func NewListSpecification(t Type) shared.Specification[*Promotion] {
	if t == "" {
		return shared.All[*Promotion]{}
	}
	return ByTypeSpecification{Type: t}
}
