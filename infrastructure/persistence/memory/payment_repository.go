package memory

import (
	"context"

	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
)

// PaymentRepository 内存支付仓储，paymentsByOrder 相当于 order_id 唯一索引
type PaymentRepository struct {
	store *Store
}

func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{store: store}
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	dto := p.ToDTO()
	isNew := p.IsNew()
	expectedVersion := dto.Version
	if !isNew {
		dto.Version = expectedVersion + 1
	}

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		if isNew {
			if _, taken := s.paymentsByOrder[dto.OrderID]; taken {
				return nil, payment.NewDuplicatePaymentError(dto.OrderID)
			}
			s.payments[dto.ID] = dto
			s.paymentsByOrder[dto.OrderID] = dto.ID
			return func() {
				delete(s.payments, dto.ID)
				delete(s.paymentsByOrder, dto.OrderID)
			}, nil
		}

		prev, exists := s.payments[dto.ID]
		if !exists {
			return nil, payment.NewPaymentNotFoundError(dto.ID)
		}
		if prev.Version != expectedVersion {
			return nil, shared.NewConcurrentModificationError("payment", dto.ID)
		}
		s.payments[dto.ID] = dto
		return func() { s.payments[dto.ID] = prev }, nil
	})
	if err != nil {
		return err
	}

	if !isNew {
		p.IncrementVersionForSave()
	}
	p.ClearNewFlag()
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.payments[id]
	if !ok {
		return nil, payment.NewPaymentNotFoundError(id)
	}
	return payment.RebuildFromDTO(dto), nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.paymentsByOrder[orderID]
	if !ok {
		return nil, payment.NewPaymentNotFoundError("order " + orderID)
	}
	return payment.RebuildFromDTO(r.store.payments[id]), nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
