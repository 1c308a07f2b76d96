package payment

import (
	"context"
	"errors"

	"ecommerce/domain/order"
)

// DomainService 跨订单与支付的业务规则
// 只读取仓储，不负责持久化
type DomainService struct {
	orders   *order.DomainService
	payments Repository
}

func NewDomainService(orders *order.DomainService, payments Repository) *DomainService {
	return &DomainService{orders: orders, payments: payments}
}

// PrepareOrder 校验调用方可以为订单发起支付，返回该订单
//  1. 订单必须属于 userID，否则视为不存在
//  2. 订单不能已有支付
//  3. 订单必须处于 pending
//
// 已支付订单再次发起支付报告为重复支付而不是状态错误，所以 2 在 3 之前。
// 第 2 步只是快速失败，并发下的唯一性由存储层唯一约束保证
func (s *DomainService) PrepareOrder(ctx context.Context, userID, orderID string) (*order.Order, error) {
	o, err := s.orders.FindOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	existing, err := s.payments.FindByOrderID(ctx, orderID)
	switch {
	case err == nil && existing != nil:
		return nil, NewDuplicatePaymentError(orderID)
	case err != nil && !errors.Is(err, ErrPaymentNotFound):
		return nil, err
	}

	if o.Status() != order.StatusPending {
		return nil, order.NewInvalidOrderStateError(string(o.Status()), "payment")
	}

	return o, nil
}
