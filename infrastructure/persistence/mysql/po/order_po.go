package po

import (
	"time"

	"github.com/shopspring/decimal"

	"ecommerce/domain/order"
	"ecommerce/domain/shared"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID             string          `gorm:"primaryKey;size:64"`
	UserID         string          `gorm:"size:64;index;not null"`
	Status         string          `gorm:"size:20;index;not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCurrency  string          `gorm:"size:3;not null"`
	Address        string          `gorm:"size:255;not null"`
	City           string          `gorm:"size:100;not null"`
	Country        string          `gorm:"size:100;not null"`
	PostalCode     string          `gorm:"size:20"`
	PaymentID      string          `gorm:"size:64"`
	TrackingNumber string          `gorm:"size:64"`
	Version        int             `gorm:"default:0"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO 订单项快照，创建后不再修改
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	OrderID     string          `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	ProductID   string          `gorm:"size:64;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
}

// TableName Specify table name
func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence object
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	addr := o.ShippingAddress()
	orderPO := &OrderPO{
		ID:             o.ID(),
		UserID:         o.UserID(),
		Status:         string(o.Status()),
		TotalAmount:    o.TotalAmount().Amount(),
		TotalCurrency:  o.TotalAmount().Currency(),
		Address:        addr.Address(),
		City:           addr.City(),
		Country:        addr.Country(),
		PostalCode:     addr.PostalCode(),
		PaymentID:      o.PaymentID(),
		TrackingNumber: o.TrackingNumber(),
		Version:        o.Version(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:          item.ID(),
			OrderID:     o.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Amount(),
			Subtotal:    item.Subtotal().Amount(),
			Currency:    item.UnitPrice().Currency(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain Convert persistence object to domain model
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.OrderItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:          itemPO.ID,
			ProductID:   itemPO.ProductID,
			ProductName: itemPO.ProductName,
			Quantity:    itemPO.Quantity,
			UnitPrice:   shared.NewMoney(itemPO.UnitPrice, itemPO.Currency),
			Subtotal:    shared.NewMoney(itemPO.Subtotal, itemPO.Currency),
		})
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:              po.ID,
		UserID:          po.UserID,
		Items:           items,
		TotalAmount:     shared.NewMoney(po.TotalAmount, po.TotalCurrency),
		Status:          order.Status(po.Status),
		ShippingAddress: order.RebuildShippingAddress(po.Address, po.City, po.Country, po.PostalCode),
		PaymentID:       po.PaymentID,
		TrackingNumber:  po.TrackingNumber,
		Version:         po.Version,
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	})
}
