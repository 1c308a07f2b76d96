package po

import (
	"time"

	"github.com/shopspring/decimal"

	"ecommerce/domain/promotion"
)

// PromotionPO 促销持久化对象
// 各类型的专属属性以 JSON 存在 attributes 列，类型列用于列表过滤
type PromotionPO struct {
	ID                   string              `gorm:"primaryKey;size:64"`
	Type                 string              `gorm:"size:20;index;not null"`
	Name                 string              `gorm:"size:255;not null"`
	Description          string              `gorm:"type:text"`
	Status               string              `gorm:"size:20;not null"`
	StartDate            time.Time           `gorm:"not null"`
	EndDate              time.Time           `gorm:"not null"`
	UsageCount           int                 `gorm:"not null"`
	ApplicableProducts   []string            `gorm:"serializer:json;type:json"`
	ApplicableCategories []string            `gorm:"serializer:json;type:json"`
	IsActive             bool                `gorm:"not null"`
	Attributes           PromotionAttributes `gorm:"serializer:json;type:json;not null"`
	Version              int                 `gorm:"default:0"`
	CreatedAt            time.Time           `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time           `gorm:"autoUpdateTime"`
}

func (PromotionPO) TableName() string {
	return "promotions"
}

// PromotionAttributes 只会填充与类型对应的字段
type PromotionAttributes struct {
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	MinimumPurchase decimal.Decimal `json:"minimum_purchase"`
	TotalQuantity   int             `json:"total_quantity,omitempty"`
	PerUserLimit    int             `json:"per_user_limit,omitempty"`

	Threshold      decimal.Decimal `json:"threshold"`
	GiftProducts   []string        `json:"gift_products,omitempty"`
	GiftQuantities []int           `json:"gift_quantities,omitempty"`

	Tiers []TierPO `json:"tiers,omitempty"`

	Reduction    decimal.Decimal     `json:"reduction"`
	IsPercentage bool                `json:"is_percentage,omitempty"`
	MaxReduction decimal.NullDecimal `json:"max_reduction"`
}

type TierPO struct {
	Threshold decimal.Decimal `json:"threshold"`
	Reduction decimal.Decimal `json:"reduction"`
}

func fromVariant(v promotion.Variant) PromotionAttributes {
	switch v := v.(type) {
	case *promotion.Coupon:
		return PromotionAttributes{
			DiscountAmount:  v.DiscountAmount,
			MinimumPurchase: v.MinimumPurchase,
			TotalQuantity:   v.TotalQuantity,
			PerUserLimit:    v.PerUserLimit,
		}
	case *promotion.FullGift:
		return PromotionAttributes{
			Threshold:      v.Threshold,
			GiftProducts:   v.GiftProducts,
			GiftQuantities: v.GiftQuantities,
		}
	case *promotion.FullReduce:
		tiers := make([]TierPO, len(v.Tiers))
		for i, t := range v.Tiers {
			tiers[i] = TierPO{Threshold: t.Threshold, Reduction: t.Reduction}
		}
		return PromotionAttributes{Tiers: tiers}
	case *promotion.Reduce:
		return PromotionAttributes{
			Reduction:    v.Reduction,
			IsPercentage: v.IsPercentage,
			MaxReduction: v.MaxReduction,
		}
	}
	return PromotionAttributes{}
}

// toVariant 未知类型返回 nil，由领域层在使用时报 UnknownVariant
func (a PromotionAttributes) toVariant(t promotion.Type) promotion.Variant {
	switch t {
	case promotion.TypeCoupon:
		return &promotion.Coupon{
			DiscountAmount:  a.DiscountAmount,
			MinimumPurchase: a.MinimumPurchase,
			TotalQuantity:   a.TotalQuantity,
			PerUserLimit:    a.PerUserLimit,
		}
	case promotion.TypeFullGift:
		return &promotion.FullGift{
			Threshold:      a.Threshold,
			GiftProducts:   a.GiftProducts,
			GiftQuantities: a.GiftQuantities,
		}
	case promotion.TypeFullReduce:
		tiers := make([]promotion.Tier, len(a.Tiers))
		for i, t := range a.Tiers {
			tiers[i] = promotion.Tier{Threshold: t.Threshold, Reduction: t.Reduction}
		}
		return &promotion.FullReduce{Tiers: tiers}
	case promotion.TypeReduce:
		return &promotion.Reduce{
			Reduction:    a.Reduction,
			IsPercentage: a.IsPercentage,
			MaxReduction: a.MaxReduction,
		}
	}
	return nil
}

// FromPromotionDomain 领域模型转持久化对象
func FromPromotionDomain(p *promotion.Promotion) *PromotionPO {
	return &PromotionPO{
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
		Attributes:           fromVariant(p.Variant()),
		Version:              p.Version(),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.UpdatedAt(),
	}
}

// ToDomain 持久化对象转领域模型
func (po *PromotionPO) ToDomain() *promotion.Promotion {
	return promotion.RebuildFromDTO(promotion.ReconstructionDTO{
		ID:                   po.ID,
		Name:                 po.Name,
		Description:          po.Description,
		Status:               promotion.Status(po.Status),
		StartDate:            po.StartDate,
		EndDate:              po.EndDate,
		UsageCount:           po.UsageCount,
		ApplicableProducts:   po.ApplicableProducts,
		ApplicableCategories: po.ApplicableCategories,
		IsActive:             po.IsActive,
		Variant:              po.Attributes.toVariant(promotion.Type(po.Type)),
		Version:              po.Version,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	})
}
