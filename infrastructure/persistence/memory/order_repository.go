package memory

import (
	"context"
	"time"

	"ecommerce/domain/order"
	"ecommerce/domain/shared"
)

// OrderRepository 内存订单仓储
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Save 新订单插入；已有订单按版本号做乐观锁更新，订单项快照不会被覆盖
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	dto := o.ToDTO()
	isNew := o.IsNew()
	expectedVersion := dto.Version
	if !isNew {
		dto.Version = expectedVersion + 1
	}

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.orders[dto.ID]
		if isNew {
			if exists {
				return nil, shared.NewDomainError(shared.ErrConflict, "order", "id", "order already exists: "+dto.ID)
			}
			s.orders[dto.ID] = dto
			return func() { delete(s.orders, dto.ID) }, nil
		}

		if !exists {
			return nil, order.NewOrderNotFoundError(dto.ID)
		}
		if prev.Version != expectedVersion {
			return nil, shared.NewConcurrentModificationError("order", dto.ID)
		}
		dto.Items = prev.Items
		s.orders[dto.ID] = dto
		return func() { s.orders[dto.ID] = prev }, nil
	})
	if err != nil {
		return err
	}

	if !isNew {
		o.IncrementVersionForSave()
	}
	o.ClearNewFlag()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.ByUserIDSpecification{UserID: userID})
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	orders := make([]*order.Order, 0)
	for _, dto := range r.store.orders {
		o := order.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, o) {
			orders = append(orders, o)
		}
	}
	newestFirst(orders,
		func(o *order.Order) time.Time { return o.CreatedAt() },
		func(o *order.Order) string { return o.ID() },
	)
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
