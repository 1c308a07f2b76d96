// Package payment 支付渠道回调校验器
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"go.uber.org/zap"

	domain "ecommerce/domain/payment"
	"ecommerce/pkg/logger"
)

const (
	// SignField 回调中的签名字段，不参与签名
	SignField = "sign"
	// StatusField 回调中的交易状态字段
	StatusField = "trade_status"
)

// successStatuses 各渠道表示交易成功的状态值
var successStatuses = map[string]struct{}{
	"SUCCESS":       {},
	"TRADE_SUCCESS": {},
}

// StatusVerifier 只看交易状态，用于未配置密钥的渠道
type StatusVerifier struct{}

func (StatusVerifier) Verify(payload domain.CallbackPayload) bool {
	_, ok := successStatuses[payload[StatusField]]
	return ok
}

// HMACVerifier 先校验签名，签名正确再看交易状态
type HMACVerifier struct {
	secret []byte
	status StatusVerifier
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(payload domain.CallbackPayload) bool {
	got, err := hex.DecodeString(payload[SignField])
	if err != nil || len(got) == 0 {
		return false
	}
	if !hmac.Equal(got, v.mac(payload)) {
		return false
	}
	return v.status.Verify(payload)
}

// Sign 计算回调签名，渠道模拟和测试使用
func (v *HMACVerifier) Sign(payload domain.CallbackPayload) string {
	return hex.EncodeToString(v.mac(payload))
}

// mac 按 key 排序后以 k=v 用 & 拼接
func (v *HMACVerifier) mac(payload domain.CallbackPayload) []byte {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == SignField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(payload[k])
	}

	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(b.String()))
	return h.Sum(nil)
}

// NewRegistry 配置了密钥的支付方式使用签名校验，其余使用状态校验
func NewRegistry(secrets map[string]string) *domain.VerifierRegistry {
	registry := domain.NewVerifierRegistry(StatusVerifier{})
	for raw, secret := range secrets {
		method, err := domain.ParseMethod(raw)
		if err != nil {
			logger.Warn("Ignoring callback secret for unknown payment method", zap.String("method", raw))
			continue
		}
		if secret == "" {
			continue
		}
		registry.Register(method, NewHMACVerifier(secret))
	}
	return registry
}

var (
	_ domain.CallbackVerifier = StatusVerifier{}
	_ domain.CallbackVerifier = (*HMACVerifier)(nil)
)
