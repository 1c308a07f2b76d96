/*
Package payment 支付应用服务

支付成功与订单置为已支付在同一个 UnitOfWork 中提交，二者要么都生效，要么都不生效。
同一订单只能有一笔支付：PrepareOrder 负责快速失败，存储层唯一约束兜底并发。
*/
package payment

import (
	"context"

	"go.uber.org/zap"

	"ecommerce/domain/catalog"
	"ecommerce/domain/order"
	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
	"ecommerce/pkg/logger"
)

// ApplicationService 支付应用服务
type ApplicationService struct {
	paymentRepo          payment.Repository
	orderRepo            order.Repository
	paymentDomainService *payment.DomainService
	verifiers            *payment.VerifierRegistry
	uowFactory           shared.UnitOfWorkFactory
}

func NewApplicationService(
	paymentRepo payment.Repository,
	orderRepo order.Repository,
	products catalog.Catalog,
	verifiers *payment.VerifierRegistry,
	uowFactory shared.UnitOfWorkFactory,
) *ApplicationService {
	orderDomainService := order.NewDomainService(products, orderRepo)
	return &ApplicationService{
		paymentRepo:          paymentRepo,
		orderRepo:            orderRepo,
		paymentDomainService: payment.NewDomainService(orderDomainService, paymentRepo),
		verifiers:            verifiers,
		uowFactory:           uowFactory,
	}
}

// CreatePayment 为 pending 订单创建一笔 pending 支付
func (s *ApplicationService) CreatePayment(ctx context.Context, userID string, req CreatePaymentRequest) (*PaymentResponse, error) {
	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	var p *payment.Payment
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.paymentDomainService.PrepareOrder(ctx, userID, req.OrderID)
		if err != nil {
			return err
		}

		p, err = payment.NewPayment(o.ID(), o.TotalAmount(), method)
		if err != nil {
			return err
		}
		if err := s.paymentRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterNew(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toPaymentResponse(p), nil
}

func (s *ApplicationService) GetPaymentByOrder(ctx context.Context, orderID string) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// HandleCallback 按支付方式选择校验器，校验通过即成功，否则失败
func (s *ApplicationService) HandleCallback(ctx context.Context, paymentID string, payload payment.CallbackPayload) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	target := payment.StatusFailed
	if s.verifiers.For(p.Method()).Verify(payload) {
		target = payment.StatusSuccess
	}

	logger.Ctx(ctx).Info("Payment callback verified",
		zap.String("payment_id", paymentID),
		zap.String("method", string(p.Method())),
		zap.String("result", string(target)),
	)

	return s.UpdatePaymentStatus(ctx, paymentID, UpdatePaymentStatusRequest{
		Status:        string(target),
		TransactionID: transactionIDFrom(payload),
	})
}

// UpdatePaymentStatus 终结支付；成功时在同一事务内把订单置为 paid
func (s *ApplicationService) UpdatePaymentStatus(ctx context.Context, paymentID string, req UpdatePaymentStatusRequest) (*PaymentResponse, error) {
	target, err := payment.ParseTargetStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var p *payment.Payment
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.paymentRepo.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := p.ApplyStatus(target, req.TransactionID); err != nil {
			return err
		}
		if err := s.paymentRepo.Save(ctx, p); err != nil {
			return err
		}
		uow.RegisterDirty(p)

		if !p.IsSucceeded() {
			return nil
		}

		o, err := s.orderRepo.FindByID(ctx, p.OrderID())
		if err != nil {
			return err
		}
		if err := o.MarkPaid(p.ID()); err != nil {
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

	return toPaymentResponse(p), nil
}
