package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecommerce/domain/catalog"
	"ecommerce/infrastructure/persistence/mysql/po"
)

// ProductRepository 基于 products 表的商品目录
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var record po.ProductPO
	result := withTx(ctx, r.db).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, catalog.NewProductNotFoundError(id)
		}
		return nil, result.Error
	}
	return record.ToDomain(), nil
}

// Seed 按 ID 插入或覆盖商品，用于初始化演示数据
func (r *ProductRepository) Seed(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	records := make([]po.ProductPO, len(products))
	for i, p := range products {
		records[i] = po.FromProduct(p)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&records).Error
}

var _ catalog.Catalog = (*ProductRepository)(nil)
