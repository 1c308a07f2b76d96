package errors

import (
	"errors"
	"fmt"

	"ecommerce/domain/catalog"
	"ecommerce/domain/order"
	"ecommerce/domain/payment"
	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeTooManyRequest   ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeInvalidState     ErrorCode = "INVALID_STATE"
	CodeConcurrentModify ErrorCode = "CONCURRENT_MODIFICATION"

	// 业务错误码 - 促销
	CodePromotionNotFound     ErrorCode = "PROMOTION_NOT_FOUND"
	CodeInvalidTemporalRange  ErrorCode = "INVALID_TEMPORAL_RANGE"
	CodeInvalidDiscountBounds ErrorCode = "INVALID_DISCOUNT_BOUNDS"
	CodeUnknownProduct        ErrorCode = "UNKNOWN_PRODUCT"
	CodeUnknownVariant        ErrorCode = "UNKNOWN_VARIANT"

	// 业务错误码 - 订单
	CodeOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"

	// 业务错误码 - 支付
	CodePaymentNotFound  ErrorCode = "PAYMENT_NOT_FOUND"
	CodeDuplicatePayment ErrorCode = "DUPLICATE_PAYMENT"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// domainMapping 具体哨兵在前，错误类别在后，按顺序匹配第一个
var domainMapping = []struct {
	target error
	code   ErrorCode
}{
	{promotion.ErrPromotionNotFound, CodePromotionNotFound},
	{promotion.ErrInvalidTemporalRange, CodeInvalidTemporalRange},
	{promotion.ErrInvalidDiscountBounds, CodeInvalidDiscountBounds},
	{promotion.ErrUnknownProduct, CodeUnknownProduct},
	{promotion.ErrInvalidStateTransition, CodeInvalidState},
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{order.ErrInvalidOrderState, CodeInvalidOrderState},
	{catalog.ErrProductNotFound, CodeProductNotFound},
	{payment.ErrPaymentNotFound, CodePaymentNotFound},
	{payment.ErrDuplicatePayment, CodeDuplicatePayment},

	{shared.ErrConcurrentModification, CodeConcurrentModify},
	{shared.ErrUnknownVariant, CodeUnknownVariant},
	{shared.ErrNotFound, CodeNotFound},
	{shared.ErrConflict, CodeConflict},
	{shared.ErrInvalidState, CodeInvalidState},
	{shared.ErrInvalidInput, CodeValidation},
	{shared.ErrUnauthorized, CodeUnauthorized},
}

// FromDomainError 将领域错误映射为应用错误
// 领域错误的消息对调用方可见；无法识别的错误一律视为内部错误
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, m := range domainMapping {
		if errors.Is(err, m.target) {
			return Wrap(err, m.code, err.Error())
		}
	}
	return Wrap(err, CodeInternal, "internal server error")
}
