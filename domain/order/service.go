package order

import (
	"context"

	"ecommerce/domain/catalog"
)

// ItemLine a product and quantity as requested by the customer, before pricing
type ItemLine struct {
	ProductID string
	Quantity  int
}

// DomainService Order domain service
// DDD principle: Domain service can use Repository interfaces to query data but does not call Save for persistence
type DomainService struct {
	catalog         catalog.Catalog
	orderRepository Repository
}

// NewDomainService Create order domain service
func NewDomainService(c catalog.Catalog, orderRepo Repository) *DomainService {
	return &DomainService{
		catalog:         c,
		orderRepository: orderRepo,
	}
}

// PriceItems resolves the current catalog price of every line.
// The returned requests carry the price snapshot the order will keep.
func (s *DomainService) PriceItems(ctx context.Context, lines []ItemLine) ([]ItemRequest, error) {
	if len(lines) == 0 {
		return nil, NewEmptyOrderItemsError()
	}

	requests := make([]ItemRequest, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, NewInvalidQuantityError(line.ProductID, line.Quantity)
		}

		product, err := s.catalog.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		requests[i] = ItemRequest{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		}
	}
	return requests, nil
}

// FindOwnedOrder loads an order scoped to its owner.
// An order belonging to someone else is reported as not found.
func (s *DomainService) FindOwnedOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	o, err := s.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, NewOrderNotFoundError(orderID)
	}
	return o, nil
}
