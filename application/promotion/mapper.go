package promotion

import (
	"github.com/shopspring/decimal"

	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
)

func toVariant(t promotion.Type, req CreatePromotionRequest) (promotion.Variant, error) {
	switch t {
	case promotion.TypeCoupon:
		return &promotion.Coupon{
			DiscountAmount:  req.DiscountAmount,
			MinimumPurchase: req.MinimumPurchase,
			TotalQuantity:   req.TotalQuantity,
			PerUserLimit:    req.PerUserLimit,
		}, nil
	case promotion.TypeFullGift:
		return &promotion.FullGift{
			Threshold:      req.Threshold,
			GiftProducts:   req.GiftProducts,
			GiftQuantities: req.GiftQuantities,
		}, nil
	case promotion.TypeFullReduce:
		tiers := make([]promotion.Tier, len(req.Tiers))
		for i, tier := range req.Tiers {
			tiers[i] = promotion.Tier{Threshold: tier.Threshold, Reduction: tier.Reduction}
		}
		return &promotion.FullReduce{Tiers: tiers}, nil
	case promotion.TypeReduce:
		return &promotion.Reduce{
			Reduction:    req.Reduction,
			IsPercentage: req.IsPercentage,
			MaxReduction: req.MaxReduction,
		}, nil
	}
	return nil, promotion.NewUnknownVariantError(string(t))
}

func toLineItems(items []LineItemRequest) []promotion.LineItem {
	lines := make([]promotion.LineItem, len(items))
	for i, item := range items {
		lines[i] = promotion.LineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(shared.MoneyScale)
}

func toAttributes(v promotion.Variant) map[string]any {
	switch v := v.(type) {
	case *promotion.Coupon:
		return map[string]any{
			"discount_amount":  fixed(v.DiscountAmount),
			"minimum_purchase": fixed(v.MinimumPurchase),
			"total_quantity":   v.TotalQuantity,
			"per_user_limit":   v.PerUserLimit,
		}
	case *promotion.FullGift:
		return map[string]any{
			"threshold":       fixed(v.Threshold),
			"gift_products":   v.GiftProducts,
			"gift_quantities": v.GiftQuantities,
		}
	case *promotion.FullReduce:
		tiers := make([]map[string]string, len(v.Tiers))
		for i, tier := range v.Tiers {
			tiers[i] = map[string]string{
				"threshold": fixed(tier.Threshold),
				"reduction": fixed(tier.Reduction),
			}
		}
		return map[string]any{"tiers": tiers}
	case *promotion.Reduce:
		attrs := map[string]any{
			"reduction":     fixed(v.Reduction),
			"is_percentage": v.IsPercentage,
		}
		if v.MaxReduction.Valid {
			attrs["max_reduction"] = fixed(v.MaxReduction.Decimal)
		}
		return attrs
	}
	return map[string]any{}
}

func toPromotionResponse(p *promotion.Promotion) *PromotionResponse {
	return &PromotionResponse{
		ID:                   p.ID(),
		Type:                 string(p.Type()),
		Name:                 p.Name(),
		Description:          p.Description(),
		Status:               string(p.Status()),
		StartDate:            p.StartDate(),
		EndDate:              p.EndDate(),
		UsageCount:           p.UsageCount(),
		ApplicableProducts:   p.ApplicableProducts(),
		ApplicableCategories: p.ApplicableCategories(),
		IsActive:             p.IsActive(),
		Attributes:           toAttributes(p.Variant()),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.UpdatedAt(),
	}
}
