package payment

// CallbackPayload 支付渠道异步通知的表单字段
type CallbackPayload map[string]string

// CallbackVerifier 校验渠道回调，true 表示通知可信且支付成功
type CallbackVerifier interface {
	Verify(payload CallbackPayload) bool
}

// VerifierFunc 函数适配器
type VerifierFunc func(payload CallbackPayload) bool

func (f VerifierFunc) Verify(payload CallbackPayload) bool { return f(payload) }

// VerifierRegistry 按支付方式选择校验器
type VerifierRegistry struct {
	verifiers map[Method]CallbackVerifier
	fallback  CallbackVerifier
}

// NewVerifierRegistry fallback 用于未单独注册的支付方式，为 nil 时一律判定失败
func NewVerifierRegistry(fallback CallbackVerifier) *VerifierRegistry {
	return &VerifierRegistry{
		verifiers: make(map[Method]CallbackVerifier),
		fallback:  fallback,
	}
}

// Register 注册某支付方式的校验器
func (r *VerifierRegistry) Register(method Method, v CallbackVerifier) {
	r.verifiers[method] = v
}

// For 返回支付方式对应的校验器
func (r *VerifierRegistry) For(method Method) CallbackVerifier {
	if v, ok := r.verifiers[method]; ok {
		return v
	}
	if r.fallback != nil {
		return r.fallback
	}
	return VerifierFunc(func(CallbackPayload) bool { return false })
}
