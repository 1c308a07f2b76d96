package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"ecommerce/domain/catalog"
	"ecommerce/domain/shared"
)

// ProductCatalog 内存商品目录
type ProductCatalog struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

func NewProductCatalog(products ...catalog.Product) *ProductCatalog {
	c := &ProductCatalog{products: make(map[string]catalog.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// FindProduct 返回副本，调用方修改不会影响目录
func (c *ProductCatalog) FindProduct(ctx context.Context, id string) (*catalog.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return nil, catalog.NewProductNotFoundError(id)
	}
	return &p, nil
}

// Put 新增或替换商品，已有订单的价格快照不受影响
func (c *ProductCatalog) Put(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// DemoProducts mock 模式下的初始商品
func DemoProducts() []catalog.Product {
	cny := func(amount string) shared.Money {
		return shared.NewMoney(decimal.RequireFromString(amount), shared.DefaultCurrency)
	}
	return []catalog.Product{
		{ID: "prod-1", Name: "iPhone 15", Price: cny("6999.00"), Category: "phone"},
		{ID: "prod-2", Name: "MacBook Pro", Price: cny("12999.00"), Category: "laptop"},
		{ID: "prod-3", Name: "AirPods Pro", Price: cny("1999.00"), Category: "audio"},
		{ID: "prod-4", Name: "USB-C Cable", Price: cny("10.00"), Category: "accessory"},
		{ID: "prod-5", Name: "Phone Case", Price: cny("5.00"), Category: "accessory"},
	}
}

var _ catalog.Catalog = (*ProductCatalog)(nil)
