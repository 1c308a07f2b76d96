package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecommerce/domain/shared"
)

// Status 支付状态
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsTerminal success 和 failed 都是终态
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// ParseTargetStatus 解析状态更新请求的目标状态，只接受终态
func ParseTargetStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusSuccess, StatusFailed:
		return s, nil
	}
	return "", NewInvalidPaymentStatusError(raw)
}

// Method 支付方式
type Method string

const (
	MethodAlipay     Method = "alipay"
	MethodWechat     Method = "wechat"
	MethodCreditCard Method = "credit_card"
)

// ParseMethod 校验支付方式
func ParseMethod(raw string) (Method, error) {
	switch m := Method(raw); m {
	case MethodAlipay, MethodWechat, MethodCreditCard:
		return m, nil
	}
	return "", NewInvalidMethodError(raw)
}

// Payment 支付聚合根
type Payment struct {
	id            string
	orderID       string
	amount        shared.Money
	status        Status
	method        Method
	transactionID string
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	isNew         bool

	shared.EventRecorder
}

// NewPayment 创建待支付记录，金额取自订单总额
func NewPayment(orderID string, amount shared.Money, method Method) (*Payment, error) {
	if orderID == "" {
		return nil, shared.NewValidationError("payment", "order_id", "order id is required")
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, NewInvalidAmountError(amount)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment ID: %w", err)
	}

	now := time.Now()
	p := &Payment{
		id:        id.String(),
		orderID:   orderID,
		amount:    amount,
		status:    StatusPending,
		method:    method,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
	p.Record(NewPaymentCreatedEvent(p.id, orderID, amount, method))
	return p, nil
}

// ReconstructionDTO 仅供仓储实现使用
type ReconstructionDTO struct {
	ID            string
	OrderID       string
	Amount        shared.Money
	Status        Status
	Method        Method
	TransactionID string
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Payment {
	return &Payment{
		id:            dto.ID,
		orderID:       dto.OrderID,
		amount:        dto.Amount,
		status:        dto.Status,
		method:        dto.Method,
		transactionID: dto.TransactionID,
		version:       dto.Version,
		createdAt:     dto.CreatedAt,
		updatedAt:     dto.UpdatedAt,
	}
}

func (p *Payment) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:            p.id,
		OrderID:       p.orderID,
		Amount:        p.amount,
		Status:        p.status,
		Method:        p.method,
		TransactionID: p.transactionID,
		Version:       p.version,
		CreatedAt:     p.createdAt,
		UpdatedAt:     p.updatedAt,
	}
}

// ApplyStatus pending -> success|failed
// 终态支付再次更新返回 ErrPaymentAlreadyFinalized；transactionID 为空时保留原值
func (p *Payment) ApplyStatus(target Status, transactionID string) error {
	if !target.IsTerminal() {
		return NewInvalidPaymentStatusError(string(target))
	}
	if p.status.IsTerminal() {
		return NewPaymentAlreadyFinalizedError(p.id, p.status)
	}

	p.status = target
	if transactionID != "" {
		p.transactionID = transactionID
	}
	p.updatedAt = time.Now()

	name := EventPaymentSucceeded
	if target == StatusFailed {
		name = EventPaymentFailed
	}
	p.Record(NewPaymentCompletedEvent(name, p.id, p.orderID, p.transactionID))
	return nil
}

// Succeed 支付成功
func (p *Payment) Succeed(transactionID string) error {
	return p.ApplyStatus(StatusSuccess, transactionID)
}

// Fail 支付失败
func (p *Payment) Fail(transactionID string) error {
	return p.ApplyStatus(StatusFailed, transactionID)
}

func (p *Payment) IncrementVersionForSave() { p.version++ }
func (p *Payment) ClearNewFlag()            { p.isNew = false }

func (p *Payment) ID() string            { return p.id }
func (p *Payment) OrderID() string       { return p.orderID }
func (p *Payment) Amount() shared.Money  { return p.amount }
func (p *Payment) Status() Status        { return p.status }
func (p *Payment) Method() Method        { return p.method }
func (p *Payment) TransactionID() string { return p.transactionID }
func (p *Payment) Version() int          { return p.version }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time  { return p.updatedAt }
func (p *Payment) IsNew() bool           { return p.isNew }
func (p *Payment) IsSucceeded() bool     { return p.status == StatusSuccess }

var _ shared.AggregateRoot = (*Payment)(nil)
