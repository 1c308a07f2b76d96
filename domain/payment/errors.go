// Package payment 支付子领域
//
// 每个订单至多一笔支付；支付只能从 pending 迁移到 success 或 failed，
// 终态之后不再变化。支付成功是订单进入 paid 的唯一途径。
package payment

import (
	"fmt"

	"ecommerce/domain/shared"
)

var (
	// ErrPaymentNotFound 支付记录不存在
	ErrPaymentNotFound = fmt.Errorf("payment not found: %w", shared.ErrNotFound)

	// ErrDuplicatePayment 订单已经存在支付记录
	// 存储层唯一索引冲突也映射为该错误
	ErrDuplicatePayment = fmt.Errorf("payment already exists for order: %w", shared.ErrConflict)

	// ErrPaymentAlreadyFinalized 支付已处于终态
	ErrPaymentAlreadyFinalized = fmt.Errorf("payment already finalized: %w", shared.ErrInvalidState)

	ErrInvalidMethod        = fmt.Errorf("invalid payment method: %w", shared.ErrInvalidInput)
	ErrInvalidPaymentStatus = fmt.Errorf("invalid payment status: %w", shared.ErrInvalidInput)
	ErrInvalidAmount        = fmt.Errorf("invalid payment amount: %w", shared.ErrInvalidInput)
)

func NewPaymentNotFoundError(id string) error {
	return shared.NewDomainError(ErrPaymentNotFound, "payment", "", "payment not found: "+id)
}

// NewDuplicatePaymentError 订单 orderID 已有支付
func NewDuplicatePaymentError(orderID string) error {
	return shared.NewDomainError(ErrDuplicatePayment, "payment", "order_id", "payment already exists for order "+orderID)
}

func NewPaymentAlreadyFinalizedError(id string, status Status) error {
	return shared.NewDomainError(ErrPaymentAlreadyFinalized, "payment", "status",
		fmt.Sprintf("payment %s is already %s", id, status))
}

func NewInvalidMethodError(method string) error {
	return shared.NewDomainError(ErrInvalidMethod, "payment", "method", "unsupported payment method: "+method)
}

func NewInvalidPaymentStatusError(status string) error {
	return shared.NewDomainError(ErrInvalidPaymentStatus, "payment", "status", "invalid target status: "+status)
}

func NewInvalidAmountError(amount shared.Money) error {
	return shared.NewDomainError(ErrInvalidAmount, "payment", "amount", "payment amount must be positive, got "+amount.String())
}
