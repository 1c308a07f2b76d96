package promotion

import (
	"context"
	"errors"
	"time"

	"ecommerce/domain/catalog"
)

// Validator enforces creation-time invariants.
// It has no side effects and must run before the promotion is persisted.
type Validator struct {
	catalog catalog.Catalog
	now     func() time.Time
}

// NewValidator creates a validator backed by the product catalog
func NewValidator(c catalog.Catalog) *Validator {
	return &Validator{catalog: c, now: time.Now}
}

// WithClock overrides the time source
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate checks the universal temporal rule and the per-variant rules
func (v *Validator) Validate(ctx context.Context, p *Promotion) error {
	now := v.now()
	if !p.StartDate().After(now) {
		return NewInvalidTemporalRangeError("start date must be in the future")
	}
	if !p.EndDate().After(p.StartDate()) {
		return NewInvalidTemporalRangeError("end date must be after start date")
	}

	switch variant := p.variant.(type) {
	case *Coupon:
		if variant.DiscountAmount.GreaterThan(variant.MinimumPurchase) {
			return NewInvalidDiscountBoundsError(variant.DiscountAmount.String(), variant.MinimumPurchase.String())
		}
	case *FullGift:
		return v.checkGiftProducts(ctx, variant.GiftProducts)
	case *FullReduce, *Reduce:
		// field bounds are checked at construction
	default:
		return NewUnknownVariantError(string(p.Type()))
	}
	return nil
}

func (v *Validator) checkGiftProducts(ctx context.Context, productIDs []string) error {
	var missing []string
	for _, id := range productIDs {
		if _, err := v.catalog.FindProduct(ctx, id); err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				missing = append(missing, id)
				continue
			}
			return err
		}
	}
	if len(missing) > 0 {
		return NewUnknownProductError(missing)
	}
	return nil
}
