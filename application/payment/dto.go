package payment

import "time"

// CreatePaymentRequest 为订单发起支付，金额取自订单总额
type CreatePaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Method  string `json:"method" binding:"required,oneof=alipay wechat credit_card"`
}

// UpdatePaymentStatusRequest 手动终结支付
type UpdatePaymentStatusRequest struct {
	Status        string `json:"status" binding:"required,oneof=success failed"`
	TransactionID string `json:"transaction_id"`
}

// PaymentResponse 支付详情
type PaymentResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
