// Package catalog 只读的商品查询端口。
// 商品的维护不在本服务内，订单定价和满赠校验只需要按 ID 读取商品。
package catalog

import (
	"context"
	"fmt"

	"ecommerce/domain/shared"
)

// ErrProductNotFound 商品不存在
var ErrProductNotFound = fmt.Errorf("product not found: %w", shared.ErrNotFound)

// Product 商品快照
type Product struct {
	ID       string
	Name     string
	Price    shared.Money
	Category string
}

// Catalog 商品查询接口，由基础设施层实现
type Catalog interface {
	// FindProduct 未找到时返回 ErrProductNotFound
	FindProduct(ctx context.Context, id string) (*Product, error)
}

// NewProductNotFoundError 创建商品不存在错误
func NewProductNotFoundError(productID string) error {
	return shared.NewDomainError(ErrProductNotFound, "product", "product_id", "product not found: "+productID)
}
