package order

import "time"

// CreateOrderRequest 创建订单的入参，价格以目录为准，不由调用方提供
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
}

// OrderItemRequest 表示创建订单时的单个商品项。
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postal_code"`
}

// UpdateOrderStatusRequest 管理端状态变更
type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required,oneof=pending paid shipped delivered cancelled"`
	TrackingNumber string `json:"tracking_number"`
	Reason         string `json:"reason"`
}

// OrderResponse 表示订单的输出结构。
type OrderResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	Items           []OrderItemResponse     `json:"items"`
	TotalAmount     MoneyResponse           `json:"total_amount"`
	Status          string                  `json:"status"`
	ShippingAddress ShippingAddressResponse `json:"shipping_address"`
	PaymentID       string                  `json:"payment_id,omitempty"`
	TrackingNumber  string                  `json:"tracking_number,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// OrderItemResponse 表示订单项的输出结构。
type OrderItemResponse struct {
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unit_price"`
	Subtotal    MoneyResponse `json:"subtotal"`
}

type ShippingAddressResponse struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code,omitempty"`
}

// MoneyResponse 金额固定两位小数
type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
