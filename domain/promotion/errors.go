/*
Package promotion - 促销领域错误定义

哨兵错误包装 shared 中的错误类别：
  - errors.Is(err, ErrPromotionNotFound) 判断具体错误
  - errors.Is(err, shared.ErrNotFound) 判断错误类别
*/
package promotion

import (
	"fmt"
	"strings"

	"ecommerce/domain/shared"
)

var (
	// ErrPromotionNotFound 促销不存在
	ErrPromotionNotFound = fmt.Errorf("promotion not found: %w", shared.ErrNotFound)

	// ErrInvalidTemporalRange 开始时间不晚于当前时间，或结束时间不晚于开始时间
	ErrInvalidTemporalRange = fmt.Errorf("invalid temporal range: %w", shared.ErrInvalidInput)

	// ErrInvalidDiscountBounds 优惠券面额大于使用门槛
	ErrInvalidDiscountBounds = fmt.Errorf("invalid discount bounds: %w", shared.ErrInvalidInput)

	// ErrUnknownProduct 满赠的赠品在商品目录中不存在
	ErrUnknownProduct = fmt.Errorf("unknown gift product: %w", shared.ErrInvalidInput)

	// ErrInvalidAttribute 字段取值越界
	ErrInvalidAttribute = fmt.Errorf("invalid promotion attribute: %w", shared.ErrInvalidInput)

	// ErrInvalidStateTransition 状态机不允许的转换
	ErrInvalidStateTransition = fmt.Errorf("invalid promotion state transition: %w", shared.ErrInvalidState)

	// ErrUnknownVariant 无法识别的促销类型
	ErrUnknownVariant = fmt.Errorf("unknown promotion type: %w", shared.ErrUnknownVariant)
)

func NewPromotionNotFoundError(id string) error {
	return shared.NewDomainError(ErrPromotionNotFound, "promotion", "", "promotion not found: "+id)
}

func NewInvalidTemporalRangeError(message string) error {
	return shared.NewDomainError(ErrInvalidTemporalRange, "promotion", "start_date", message)
}

func NewInvalidDiscountBoundsError(discount, minimum string) error {
	return shared.NewDomainError(ErrInvalidDiscountBounds, "promotion", "discount_amount",
		"discount amount "+discount+" must not exceed minimum purchase "+minimum)
}

// NewUnknownProductError 列出所有缺失的商品 ID
func NewUnknownProductError(productIDs []string) error {
	return shared.NewDomainError(ErrUnknownProduct, "promotion", "gift_products",
		"gift products not found: "+strings.Join(productIDs, ", "))
}

func NewInvalidAttributeError(field, message string) error {
	return shared.NewDomainError(ErrInvalidAttribute, "promotion", field, message)
}

// NewInvalidStateTransitionError 创建无效状态转换错误
func NewInvalidStateTransitionError(current, target Status) error {
	return shared.NewDomainError(ErrInvalidStateTransition, "promotion", "status",
		"cannot transition promotion from "+string(current)+" to "+string(target))
}

func NewUnknownVariantError(raw string) error {
	return shared.NewDomainError(ErrUnknownVariant, "promotion", "type", "unknown promotion type: "+raw)
}
