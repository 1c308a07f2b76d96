package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ecommerce/domain/payment"
	"ecommerce/infrastructure/persistence/mysql/po"
)

// PaymentRepository MySQL/GORM 支付仓储
// 一单一付由 payments.order_id 唯一索引保证，重复键映射为 ErrDuplicatePayment
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return runInTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.saveWithTx(tx, p)
	})
}

func (r *PaymentRepository) saveWithTx(tx *gorm.DB, p *payment.Payment) error {
	record := po.FromPaymentDomain(p)

	if p.IsNew() {
		if err := tx.Create(record).Error; err != nil {
			if isDuplicateKeyError(err) {
				return payment.NewDuplicatePaymentError(p.OrderID())
			}
			return err
		}
		p.ClearNewFlag()
		return nil
	}

	expectedVersion := p.Version()
	result := tx.Model(&po.PaymentPO{}).
		Where("id = ? AND version = ?", p.ID(), expectedVersion).
		Updates(map[string]any{
			"status":         record.Status,
			"transaction_id": record.TransactionID,
			"version":        expectedVersion + 1,
			"updated_at":     record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleUpdateError(tx, &po.PaymentPO{}, "payment", p.ID(), payment.NewPaymentNotFoundError(p.ID()))
	}

	p.IncrementVersionForSave()
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	return r.findOne(ctx, "id = ?", id, id)
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	return r.findOne(ctx, "order_id = ?", orderID, "order "+orderID)
}

func (r *PaymentRepository) findOne(ctx context.Context, cond string, arg any, notFoundKey string) (*payment.Payment, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var record po.PaymentPO
	result := withTx(ctx, r.db).First(&record, cond, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, payment.NewPaymentNotFoundError(notFoundKey)
		}
		return nil, result.Error
	}
	return record.ToDomain(), nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
