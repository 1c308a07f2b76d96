package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ecommerce/domain/order"
	"ecommerce/domain/shared"
	"ecommerce/infrastructure/persistence/mysql/po"
	"ecommerce/infrastructure/persistence/specification"
)

// OrderRepository MySQL/GORM implementation of order repository
// DDD principle: Repository is only responsible for persistence of aggregate roots, not event publishing
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db         *gorm.DB
	translator *specification.GormTranslator
}

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, translator: specification.NewGormTranslator()}
}

// Save Save order (create or update)
// Note: Manually manage saving of orders and order items, do not use GORM associations
// When called within UoW.Execute(), it uses the transaction from context
// When called standalone, it creates its own transaction for atomicity
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	return runInTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o)
	})
}

// saveWithTx 新订单写入订单与订单项；已有订单只更新状态相关列，订单项快照不变
func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if o.IsNew() {
		if err := tx.Create(orderPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewDomainError(shared.ErrConflict, "order", "id", "order already exists: "+o.ID())
			}
			return err
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return err
			}
		}
		o.ClearNewFlag()
		return nil
	}

	expectedVersion := o.Version()

	// 严格乐观锁：必须使用聚合当前版本作为更新条件，避免静默覆盖并发写入。
	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), expectedVersion).
		Updates(map[string]any{
			"status":          orderPO.Status,
			"payment_id":      orderPO.PaymentID,
			"tracking_number": orderPO.TrackingNumber,
			"version":         expectedVersion + 1,
			"updated_at":      orderPO.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleUpdateError(tx, &po.OrderPO{}, "order", o.ID(), order.NewOrderNotFoundError(o.ID()))
	}

	o.IncrementVersionForSave()
	return nil
}

// FindByID Find order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	db := withTx(ctx, r.db)
	var orderPO po.OrderPO

	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, result.Error
	}

	// Manually query order items (do not use GORM's Preload to keep aggregate boundaries clear)
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Order("id ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByUserID Find order list by user ID
func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.ByUserIDSpecification{UserID: userID})
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := withTx(ctx, r.db)

	var orderPOs []po.OrderPO
	query := db.Scopes(specification.Translate(r.translator, spec))
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	if len(orderPOs) == 0 {
		return []*order.Order{}, nil
	}

	// 一次查出全部订单项再按订单分组
	ids := make([]string, len(orderPOs))
	for i, orderPO := range orderPOs {
		ids[i] = orderPO.ID
	}
	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("id ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	itemsByOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		orders[i] = orderPOs[i].ToDomain(itemsByOrder[orderPOs[i].ID])
	}
	return orders, nil
}

// Compile-time interface implementation check
var _ order.Repository = (*OrderRepository)(nil)
