package order

import (
	"ecommerce/domain/shared"
)

const (
	EventOrderPlaced    = "order.placed"
	EventOrderPaid      = "order.paid"
	EventOrderShipped   = "order.shipped"
	EventOrderDelivered = "order.delivered"
	EventOrderCancelled = "order.cancelled"
)

type OrderPlacedEvent struct {
	shared.BaseEvent
	userID      string
	totalAmount shared.Money
}

func NewOrderPlacedEvent(orderID, userID string, totalAmount shared.Money) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent:   shared.NewBaseEvent(EventOrderPlaced, orderID),
		userID:      userID,
		totalAmount: totalAmount,
	}
}

func (e *OrderPlacedEvent) UserID() string            { return e.userID }
func (e *OrderPlacedEvent) TotalAmount() shared.Money { return e.totalAmount }

func (e *OrderPlacedEvent) Payload() map[string]any {
	return map[string]any{
		"user_id":      e.userID,
		"total_amount": e.totalAmount.Amount().StringFixed(shared.MoneyScale),
		"currency":     e.totalAmount.Currency(),
	}
}

type OrderPaidEvent struct {
	shared.BaseEvent
	paymentID string
	amount    shared.Money
}

func NewOrderPaidEvent(orderID, paymentID string, amount shared.Money) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseEvent: shared.NewBaseEvent(EventOrderPaid, orderID),
		paymentID: paymentID,
		amount:    amount,
	}
}

func (e *OrderPaidEvent) PaymentID() string { return e.paymentID }

func (e *OrderPaidEvent) Payload() map[string]any {
	return map[string]any{
		"payment_id": e.paymentID,
		"amount":     e.amount.Amount().StringFixed(shared.MoneyScale),
		"currency":   e.amount.Currency(),
	}
}

type OrderShippedEvent struct {
	shared.BaseEvent
	trackingNumber string
}

func NewOrderShippedEvent(orderID, trackingNumber string) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseEvent:      shared.NewBaseEvent(EventOrderShipped, orderID),
		trackingNumber: trackingNumber,
	}
}

func (e *OrderShippedEvent) Payload() map[string]any {
	return map[string]any{"tracking_number": e.trackingNumber}
}

type OrderDeliveredEvent struct {
	shared.BaseEvent
}

func NewOrderDeliveredEvent(orderID string) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{BaseEvent: shared.NewBaseEvent(EventOrderDelivered, orderID)}
}

type OrderCancelledEvent struct {
	shared.BaseEvent
	reason string
}

func NewOrderCancelledEvent(orderID, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseEvent: shared.NewBaseEvent(EventOrderCancelled, orderID),
		reason:    reason,
	}
}

func (e *OrderCancelledEvent) Reason() string { return e.reason }

func (e *OrderCancelledEvent) Payload() map[string]any {
	return map[string]any{"reason": e.reason}
}
