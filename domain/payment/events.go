package payment

import "ecommerce/domain/shared"

const (
	EventPaymentCreated   = "payment.created"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

type PaymentCreatedEvent struct {
	shared.BaseEvent
	orderID string
	amount  shared.Money
	method  Method
}

func NewPaymentCreatedEvent(paymentID, orderID string, amount shared.Money, method Method) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventPaymentCreated, paymentID),
		orderID:   orderID,
		amount:    amount,
		method:    method,
	}
}

func (e *PaymentCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id": e.orderID,
		"amount":   e.amount.Amount().StringFixed(shared.MoneyScale),
		"currency": e.amount.Currency(),
		"method":   string(e.method),
	}
}

// PaymentCompletedEvent success 和 failed 共用，事件名区分结果
type PaymentCompletedEvent struct {
	shared.BaseEvent
	orderID       string
	transactionID string
}

func NewPaymentCompletedEvent(name, paymentID, orderID, transactionID string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent:     shared.NewBaseEvent(name, paymentID),
		orderID:       orderID,
		transactionID: transactionID,
	}
}

func (e *PaymentCompletedEvent) OrderID() string { return e.orderID }

func (e *PaymentCompletedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":       e.orderID,
		"transaction_id": e.transactionID,
	}
}
