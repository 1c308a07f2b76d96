/*
Package order 订单应用层，编排订单业务流程

应用层职责：
1. 接收来自 Controller 的请求
2. 调用领域服务做业务规则校验（目录定价、归属检查）
3. 调用聚合根方法执行业务操作
4. 通过 UoW 管理事务并收集事件（Outbox 模式）
5. 返回结果

应用服务不直接发布事件：
- UoW 在提交前把聚合的事件写入 outbox
- Worker 异步读取 outbox 并投递到消息队列
*/
package order

import (
	"context"

	"ecommerce/domain/catalog"
	"ecommerce/domain/order"
	"ecommerce/domain/shared"
)

// ApplicationService 订单应用服务
type ApplicationService struct {
	orderRepo          order.Repository
	orderDomainService *order.DomainService
	uowFactory         shared.UnitOfWorkFactory
}

func NewApplicationService(
	orderRepo order.Repository,
	products catalog.Catalog,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	return &ApplicationService{
		orderRepo:          orderRepo,
		orderDomainService: order.NewDomainService(products, orderRepo),
		uowFactory:         uowFactory,
	}
}

// CreateOrder 按目录当前价格生成订单快照
func (s *ApplicationService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*OrderResponse, error) {
	requests, err := s.orderDomainService.PriceItems(ctx, toItemLines(req.Items))
	if err != nil {
		return nil, err
	}

	addr, err := order.NewShippingAddress(
		req.ShippingAddress.Address,
		req.ShippingAddress.City,
		req.ShippingAddress.Country,
		req.ShippingAddress.PostalCode,
	)
	if err != nil {
		return nil, err
	}

	// 聚合在工作单元内创建，重试时得到新的聚合和事件
	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		created, err := order.NewOrder(userID, requests, addr)
		if err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, created); err != nil {
			return err
		}
		uow.RegisterNew(created)
		o = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toOrderResponse(o), nil
}

// GetOrder 只能查看自己的订单
func (s *ApplicationService) GetOrder(ctx context.Context, userID, orderID string) (*OrderResponse, error) {
	o, err := s.orderDomainService.FindOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetUserOrders 按创建时间倒序
func (s *ApplicationService) GetUserOrders(ctx context.Context, userID string) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = toOrderResponse(o)
	}
	return responses, nil
}

// UpdateOrderStatus 管理端状态变更
// paid 只能由支付流程设置，pending 无法回退
func (s *ApplicationService) UpdateOrderStatus(ctx context.Context, orderID string, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err = s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		switch target {
		case order.StatusShipped:
			err = o.Ship(req.TrackingNumber)
		case order.StatusDelivered:
			err = o.Deliver()
		case order.StatusCancelled:
			err = o.Cancel(req.Reason)
		default:
			err = order.NewInvalidOrderStateError(string(o.Status()), string(target))
		}
		if err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toOrderResponse(o), nil
}
