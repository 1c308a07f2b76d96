package payment

import (
	"ecommerce/domain/payment"
	"ecommerce/domain/shared"
)

// transactionIDKeys 各渠道回调里交易号的字段名
var transactionIDKeys = []string{"transaction_id", "trade_no", "out_trade_no"}

func transactionIDFrom(payload payment.CallbackPayload) string {
	for _, key := range transactionIDKeys {
		if v := payload[key]; v != "" {
			return v
		}
	}
	return ""
}

func toPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID(),
		OrderID:       p.OrderID(),
		Amount:        p.Amount().Amount().StringFixed(shared.MoneyScale),
		Currency:      p.Amount().Currency(),
		Status:        string(p.Status()),
		Method:        string(p.Method()),
		TransactionID: p.TransactionID(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}
