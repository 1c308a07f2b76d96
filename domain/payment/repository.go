package payment

import "context"

// Repository 支付仓储
type Repository interface {
	// Save 新建或更新支付
	// 新建时同一订单已有支付返回 ErrDuplicatePayment（由存储层唯一约束保证）
	Save(ctx context.Context, payment *Payment) error

	FindByID(ctx context.Context, id string) (*Payment, error)

	// FindByOrderID 不存在时返回 ErrPaymentNotFound
	FindByOrderID(ctx context.Context, orderID string) (*Payment, error)
}
