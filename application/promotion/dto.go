package promotion

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePromotionRequest 创建促销的入参，通用字段加上各类型自己的属性
// 只会读取 Type 对应的那一组属性
type CreatePromotionRequest struct {
	Type                 string    `json:"-"`
	Name                 string    `json:"name" binding:"required"`
	Description          string    `json:"description"`
	StartDate            time.Time `json:"start_date" binding:"required"`
	EndDate              time.Time `json:"end_date" binding:"required"`
	ApplicableProducts   []string  `json:"applicable_products"`
	ApplicableCategories []string  `json:"applicable_categories"`

	// coupon
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	MinimumPurchase decimal.Decimal `json:"minimum_purchase"`
	TotalQuantity   int             `json:"total_quantity"`
	PerUserLimit    int             `json:"per_user_limit"`

	// full_gift
	Threshold      decimal.Decimal `json:"threshold"`
	GiftProducts   []string        `json:"gift_products"`
	GiftQuantities []int           `json:"gift_quantities"`

	// full_reduce
	Tiers []TierRequest `json:"tiers"`

	// reduce
	Reduction    decimal.Decimal     `json:"reduction"`
	IsPercentage bool                `json:"is_percentage"`
	MaxReduction decimal.NullDecimal `json:"max_reduction"`
}

// TierRequest 满减档位
type TierRequest struct {
	Threshold decimal.Decimal `json:"threshold"`
	Reduction decimal.Decimal `json:"reduction"`
}

// CalculateDiscountRequest 试算折扣
type CalculateDiscountRequest struct {
	OrderAmount decimal.Decimal   `json:"order_amount"`
	Items       []LineItemRequest `json:"items"`
}

type LineItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// PromotionResponse 促销详情，金额统一保留两位小数的字符串
type PromotionResponse struct {
	ID                   string         `json:"id"`
	Type                 string         `json:"type"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	Status               string         `json:"status"`
	StartDate            time.Time      `json:"start_date"`
	EndDate              time.Time      `json:"end_date"`
	UsageCount           int            `json:"usage_count"`
	ApplicableProducts   []string       `json:"applicable_products,omitempty"`
	ApplicableCategories []string       `json:"applicable_categories,omitempty"`
	IsActive             bool           `json:"is_active"`
	Attributes           map[string]any `json:"attributes"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type GiftResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// DiscountResponse 试算结果
type DiscountResponse struct {
	PromotionID string         `json:"promotion_id"`
	OrderAmount string         `json:"order_amount"`
	Discount    string         `json:"discount"`
	FinalAmount string         `json:"final_amount"`
	Gifts       []GiftResponse `json:"gifts"`
}
