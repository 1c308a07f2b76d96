package promotion

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Type promotion type discriminator
type Type string

const (
	TypeCoupon     Type = "coupon"
	TypeFullGift   Type = "full_gift"
	TypeFullReduce Type = "full_reduce"
	TypeReduce     Type = "reduce"
)

// Types lists every supported promotion type
var Types = []Type{TypeCoupon, TypeFullGift, TypeFullReduce, TypeReduce}

// ParseType converts a raw type string, rejecting anything outside the closed set
func ParseType(raw string) (Type, error) {
	for _, t := range Types {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", NewUnknownVariantError(raw)
}

// Variant carries the type-specific attributes of a promotion.
// The set of implementations is closed: only this package can add one.
type Variant interface {
	Type() Type
	checkBounds() error
	isVariant()
}

// Coupon fixed amount off once the order reaches a minimum purchase
type Coupon struct {
	DiscountAmount  decimal.Decimal
	MinimumPurchase decimal.Decimal
	TotalQuantity   int
	PerUserLimit    int
}

// FullGift grants gift products once the order reaches a threshold.
// GiftProducts and GiftQuantities are parallel sequences.
type FullGift struct {
	Threshold      decimal.Decimal
	GiftProducts   []string
	GiftQuantities []int
}

// Tier one threshold/reduction pair of a FullReduce promotion
type Tier struct {
	Threshold decimal.Decimal
	Reduction decimal.Decimal
}

// FullReduce tiered reduction, the largest qualifying threshold applies
type FullReduce struct {
	Tiers []Tier
}

// Reduce flat or percentage reduction; MaxReduction caps the percentage form
type Reduce struct {
	Reduction    decimal.Decimal
	IsPercentage bool
	MaxReduction decimal.NullDecimal
}

func (*Coupon) Type() Type     { return TypeCoupon }
func (*FullGift) Type() Type   { return TypeFullGift }
func (*FullReduce) Type() Type { return TypeFullReduce }
func (*Reduce) Type() Type     { return TypeReduce }

func (*Coupon) isVariant()     {}
func (*FullGift) isVariant()   {}
func (*FullReduce) isVariant() {}
func (*Reduce) isVariant()     {}

func (c *Coupon) checkBounds() error {
	if c.DiscountAmount.IsNegative() {
		return NewInvalidAttributeError("discount_amount", "discount amount must not be negative")
	}
	if c.MinimumPurchase.IsNegative() {
		return NewInvalidAttributeError("minimum_purchase", "minimum purchase must not be negative")
	}
	if c.TotalQuantity < 1 {
		return NewInvalidAttributeError("total_quantity", "total quantity must be at least 1")
	}
	if c.PerUserLimit < 1 {
		return NewInvalidAttributeError("per_user_limit", "per user limit must be at least 1")
	}
	return nil
}

func (g *FullGift) checkBounds() error {
	if g.Threshold.IsNegative() {
		return NewInvalidAttributeError("threshold", "threshold must not be negative")
	}
	if len(g.GiftProducts) == 0 {
		return NewInvalidAttributeError("gift_products", "at least one gift product is required")
	}
	if len(g.GiftProducts) != len(g.GiftQuantities) {
		return NewInvalidAttributeError("gift_quantities",
			fmt.Sprintf("gift quantities must match gift products (%d products, %d quantities)",
				len(g.GiftProducts), len(g.GiftQuantities)))
	}
	for i, q := range g.GiftQuantities {
		if q < 1 {
			return NewInvalidAttributeError("gift_quantities",
				fmt.Sprintf("gift quantity for %s must be at least 1", g.GiftProducts[i]))
		}
	}
	return nil
}

func (r *FullReduce) checkBounds() error {
	if len(r.Tiers) == 0 {
		return NewInvalidAttributeError("tiers", "at least one tier is required")
	}
	for _, t := range r.Tiers {
		if t.Threshold.IsNegative() || t.Reduction.IsNegative() {
			return NewInvalidAttributeError("tiers", "tier threshold and reduction must not be negative")
		}
	}
	return nil
}

func (r *Reduce) checkBounds() error {
	if r.Reduction.IsNegative() {
		return NewInvalidAttributeError("reduction", "reduction must not be negative")
	}
	if r.MaxReduction.Valid && r.MaxReduction.Decimal.IsNegative() {
		return NewInvalidAttributeError("max_reduction", "max reduction must not be negative")
	}
	return nil
}

// GiftLine a gift granted by a FullGift promotion
type GiftLine struct {
	ProductID string
	Quantity  int
}

// Gifts returns the gift lines granted for orderAmount, nil below the threshold
func (g *FullGift) Gifts(orderAmount decimal.Decimal) []GiftLine {
	if orderAmount.LessThan(g.Threshold) {
		return nil
	}
	lines := make([]GiftLine, len(g.GiftProducts))
	for i, id := range g.GiftProducts {
		lines[i] = GiftLine{ProductID: id, Quantity: g.GiftQuantities[i]}
	}
	return lines
}
