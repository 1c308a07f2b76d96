package order

import (
	"ecommerce/domain/order"
	"ecommerce/domain/shared"
)

func toItemLines(items []OrderItemRequest) []order.ItemLine {
	lines := make([]order.ItemLine, len(items))
	for i, item := range items {
		lines[i] = order.ItemLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return lines
}

// toMoneyResponse 金额固定两位小数
func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount().StringFixed(shared.MoneyScale),
		Currency: m.Currency(),
	}
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   toMoneyResponse(item.UnitPrice()),
			Subtotal:    toMoneyResponse(item.Subtotal()),
		}
	}

	addr := o.ShippingAddress()
	return &OrderResponse{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       items,
		TotalAmount: toMoneyResponse(o.TotalAmount()),
		Status:      string(o.Status()),
		ShippingAddress: ShippingAddressResponse{
			Address:    addr.Address(),
			City:       addr.City(),
			Country:    addr.Country(),
			PostalCode: addr.PostalCode(),
		},
		PaymentID:      o.PaymentID(),
		TrackingNumber: o.TrackingNumber(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}
