package promotion

import (
	"github.com/shopspring/decimal"

	"ecommerce/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// LineItem order line passed alongside the order amount
type LineItem struct {
	ProductID string
	Quantity  int
	Category  string // 为空时只按商品匹配
}

// Calculate returns the discount a promotion grants on orderAmount.
//
// It is a pure function: the result depends only on its arguments, is never
// negative and never exceeds orderAmount. FullGift always yields zero; the
// gifts it grants are reported by FullGift.Gifts.
func Calculate(p *Promotion, orderAmount decimal.Decimal, items []LineItem) (decimal.Decimal, error) {
	if orderAmount.IsNegative() {
		return decimal.Zero, shared.NewValidationError("promotion", "order_amount", "order amount must not be negative")
	}
	if p == nil || p.variant == nil {
		return decimal.Zero, NewUnknownVariantError("<nil>")
	}

	if len(items) > 0 && !p.AppliesTo(items) {
		return decimal.Zero, nil
	}

	var discount decimal.Decimal
	switch v := p.variant.(type) {
	case *Coupon:
		discount = couponDiscount(v, orderAmount)
	case *FullReduce:
		discount = fullReduceDiscount(v, orderAmount)
	case *Reduce:
		discount = reduceDiscount(v, orderAmount)
	case *FullGift:
		discount = decimal.Zero
	default:
		return decimal.Zero, NewUnknownVariantError(string(v.Type()))
	}

	return clamp(discount, orderAmount), nil
}

func couponDiscount(c *Coupon, orderAmount decimal.Decimal) decimal.Decimal {
	if orderAmount.LessThan(c.MinimumPurchase) {
		return decimal.Zero
	}
	return decimal.Min(c.DiscountAmount, orderAmount)
}

// fullReduceDiscount picks the largest threshold not above orderAmount.
// Tiers sharing that threshold resolve to the highest reduction.
func fullReduceDiscount(r *FullReduce, orderAmount decimal.Decimal) decimal.Decimal {
	var best *Tier
	for i := range r.Tiers {
		t := &r.Tiers[i]
		if t.Threshold.GreaterThan(orderAmount) {
			continue
		}
		if best == nil ||
			t.Threshold.GreaterThan(best.Threshold) ||
			(t.Threshold.Equal(best.Threshold) && t.Reduction.GreaterThan(best.Reduction)) {
			best = t
		}
	}
	if best == nil {
		return decimal.Zero
	}
	return best.Reduction
}

func reduceDiscount(r *Reduce, orderAmount decimal.Decimal) decimal.Decimal {
	if !r.IsPercentage {
		return decimal.Min(r.Reduction, orderAmount)
	}
	discount := orderAmount.Mul(r.Reduction).Div(hundred).Round(shared.MoneyScale)
	if r.MaxReduction.Valid {
		discount = decimal.Min(discount, r.MaxReduction.Decimal)
	}
	return discount
}

func clamp(discount, orderAmount decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, orderAmount)
}
