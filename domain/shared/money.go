package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultCurrency 目录与订单默认使用的币种
const DefaultCurrency = "CNY"

// MoneyScale 金额保留的小数位
const MoneyScale = 2

var (
	ErrCurrencyMismatch = errors.New("money currencies do not match")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Money 值对象 - 表示金额，底层使用十进制避免浮点误差
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney 创建新的Money值对象
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// NewMoneyFromString 解析字符串金额，如 "19.90"
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d, currency), nil
}

// ZeroMoney 指定币种的零金额
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract 金额相减
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply 单价乘以数量
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity < 0 {
		return Money{}, ErrNegativeQuantity
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), currency: m.currency}, nil
}

func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Equals 数值与币种都相同才相等（10 与 10.00 视为相等）
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String 以固定两位小数输出，例如 "35.00 CNY"
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale) + " " + m.currency
}
