/*
Package order - 订单领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
2. 哨兵错误包装 shared 中的错误类别，API 层可以按类别映射状态码
3. 错误构造函数在创建时捕获堆栈，便于定位错误发生点

堆栈捕获:
- NewXxxError 构造函数内部调用 shared.CaptureStack(3)
- skip=3 跳过：runtime.Callers, CaptureStack, NewXxxError
*/
package order

import (
	"fmt"

	"ecommerce/domain/shared"
)

var (
	// ErrOrderNotFound 订单未找到（或不属于当前用户）
	ErrOrderNotFound = fmt.Errorf("order not found: %w", shared.ErrNotFound)

	// ErrInvalidOrderState 当前订单状态不允许该操作
	// 例如：非待支付订单不能创建支付，已取消订单不能发货
	ErrInvalidOrderState = fmt.Errorf("invalid order state: %w", shared.ErrInvalidState)

	// ErrEmptyOrderItems 订单项为空
	ErrEmptyOrderItems = fmt.Errorf("order must have at least one item: %w", shared.ErrInvalidInput)

	// ErrInvalidQuantity 无效的订单项数量
	ErrInvalidQuantity = fmt.Errorf("quantity must be positive: %w", shared.ErrInvalidInput)

	// ErrInvalidShippingAddress 收货地址不完整
	ErrInvalidShippingAddress = fmt.Errorf("invalid shipping address: %w", shared.ErrInvalidInput)

	// ErrUnknownStatus 无法识别的订单状态
	ErrUnknownStatus = fmt.Errorf("unknown order status: %w", shared.ErrInvalidInput)
)

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		entity:   "order",
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidOrderStateError 创建无效状态错误
// currentState: 当前状态, targetState: 目标状态或尝试的操作
func NewInvalidOrderStateError(currentState, targetState string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrderState,
		entity:   "order",
		field:    "status",
		message:  "cannot move order from " + currentState + " to " + targetState,
		stack:    shared.CaptureStack(3),
	}
}

// NewEmptyOrderItemsError 创建订单项为空错误
func NewEmptyOrderItemsError() error {
	return &orderDomainError{
		sentinel: ErrEmptyOrderItems,
		entity:   "order",
		field:    "items",
		message:  "order must have at least one item",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidQuantityError(productID string, quantity int) error {
	return &orderDomainError{
		sentinel: ErrInvalidQuantity,
		entity:   "order",
		field:    "quantity",
		message:  fmt.Sprintf("quantity for product %s must be positive, got %d", productID, quantity),
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidShippingAddressError(field string) error {
	return &orderDomainError{
		sentinel: ErrInvalidShippingAddress,
		entity:   "order",
		field:    field,
		message:  "shipping address " + field + " is required",
		stack:    shared.CaptureStack(3),
	}
}

func NewUnknownStatusError(status string) error {
	return &orderDomainError{
		sentinel: ErrUnknownStatus,
		entity:   "order",
		field:    "status",
		message:  "unknown order status: " + status,
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError 订单领域错误（带堆栈）
type orderDomainError struct {
	sentinel error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() error {
	return e.sentinel
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}

	return shared.FormatStack(e.stack)
}
