package po

import (
	"github.com/shopspring/decimal"

	"ecommerce/domain/catalog"
	"ecommerce/domain/shared"
)

// ProductPO 商品目录，只读
type ProductPO struct {
	ID       string          `gorm:"primaryKey;size:64"`
	Name     string          `gorm:"size:255;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency string          `gorm:"size:3;not null"`
	Category string          `gorm:"size:64;index"`
}

func (ProductPO) TableName() string {
	return "products"
}

func FromProduct(p catalog.Product) ProductPO {
	return ProductPO{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.Amount(),
		Currency: p.Price.Currency(),
		Category: p.Category,
	}
}

func (po *ProductPO) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:       po.ID,
		Name:     po.Name,
		Price:    shared.NewMoney(po.Price, po.Currency),
		Category: po.Category,
	}
}
