package po

import (
	"time"

	"github.com/shopspring/decimal"

	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
)

// PaymentPO 支付持久化对象
// order_id 唯一索引保证一个订单只有一笔支付，并发插入时由数据库报重复键
type PaymentPO struct {
	ID            string          `gorm:"primaryKey;size:64"`
	OrderID       string          `gorm:"size:64;uniqueIndex:idx_payments_order_id;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency      string          `gorm:"size:3;not null"`
	Status        string          `gorm:"size:20;not null"`
	Method        string          `gorm:"size:20;not null"`
	TransactionID string          `gorm:"size:128"`
	Version       int             `gorm:"default:0"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (PaymentPO) TableName() string {
	return "payments"
}

func FromPaymentDomain(p *payment.Payment) *PaymentPO {
	return &PaymentPO{
		ID:            p.ID(),
		OrderID:       p.OrderID(),
		Amount:        p.Amount().Amount(),
		Currency:      p.Amount().Currency(),
		Status:        string(p.Status()),
		Method:        string(p.Method()),
		TransactionID: p.TransactionID(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func (po *PaymentPO) ToDomain() *payment.Payment {
	return payment.RebuildFromDTO(payment.ReconstructionDTO{
		ID:            po.ID,
		OrderID:       po.OrderID,
		Amount:        shared.NewMoney(po.Amount, po.Currency),
		Status:        payment.Status(po.Status),
		Method:        payment.Method(po.Method),
		TransactionID: po.TransactionID,
		Version:       po.Version,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	})
}
