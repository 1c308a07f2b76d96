package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce/config"
	domain "ecommerce/domain/payment"
	paymentinfra "ecommerce/infrastructure/payment"
)

const callbackSecret = "ali-secret"

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "shop", Version: "test", Env: "test"},
		Server: config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{
			Type: "mock",
			Retry: config.RetryConfig{
				Enabled:                       true,
				MaxAttempts:                   3,
				InitialDelay:                  time.Millisecond,
				MaxDelay:                      10 * time.Millisecond,
				BackoffFactor:                 2,
				RetryOnConcurrentModification: true,
			},
		},
		CORS:    config.CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET", "POST"}, MaxAge: 600},
		Payment: config.PaymentConfig{CallbackSecrets: map[string]string{"alipay": callbackSecret}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
	RequestID string          `json:"request_id"`
}

type client struct {
	t      *testing.T
	engine *gin.Engine
}

func newClient(t *testing.T) *client {
	t.Helper()
	app, err := NewBuilder(testConfig()).Build(context.Background())
	require.NoError(t, err)
	return &client{t: t, engine: app.GetEngine()}
}

func (c *client) do(method, path, userID string, body any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	return c.serve(req)
}

func (c *client) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	PaymentID   string `json:"payment_id"`
	TotalAmount struct {
		Amount string `json:"amount"`
	} `json:"total_amount"`
	Amount string `json:"amount"`
}

func orderBody() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": "prod-4", "quantity": 3},
			{"product_id": "prod-5", "quantity": 1},
		},
		"shipping_address": map[string]any{"address": "1 Main St", "city": "Hangzhou", "country": "CN"},
	}
}

func TestOrderPaymentFlow(t *testing.T) {
	c := newClient(t)

	w, env := c.do(http.MethodPost, "/api/v1/orders", "", orderBody())
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error)
	assert.NotEmpty(t, env.RequestID)

	w, env = c.do(http.MethodPost, "/api/v1/orders", "user-1", orderBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	o := decode[idStatus](t, env.Data)
	assert.Equal(t, "pending", o.Status)
	assert.Equal(t, "35.00", o.TotalAmount.Amount)

	w, _ = c.do(http.MethodGet, "/api/v1/orders/"+o.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "orders are scoped to their owner")

	w, env = c.do(http.MethodPost, "/api/v1/payments", "user-1", map[string]any{"order_id": o.ID, "method": "alipay"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[idStatus](t, env.Data)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "35.00", p.Amount)

	// 渠道以表单提交带签名的回调
	payload := domain.CallbackPayload{"trade_no": "T-1", "trade_status": "TRADE_SUCCESS"}
	payload[paymentinfra.SignField] = paymentinfra.NewHMACVerifier(callbackSecret).Sign(payload)
	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+p.ID+"/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w, env = c.serve(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", decode[idStatus](t, env.Data).Status)

	w, env = c.do(http.MethodGet, "/api/v1/orders/"+o.ID, "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	paid := decode[idStatus](t, env.Data)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, p.ID, paid.PaymentID)

	w, env = c.do(http.MethodPost, "/api/v1/payments", "user-1", map[string]any{"order_id": o.ID, "method": "wechat"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_PAYMENT", env.Error)

	w, env = c.do(http.MethodGet, "/api/v1/payments/order/"+o.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.ID, decode[idStatus](t, env.Data).ID)

	w, env = c.do(http.MethodPut, "/api/v1/orders/"+o.ID+"/status", "", map[string]any{"status": "shipped", "tracking_number": "SF123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "shipped", decode[idStatus](t, env.Data).Status)

	w, env = c.do(http.MethodPut, "/api/v1/orders/"+o.ID+"/status", "", map[string]any{"status": "cancelled"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_ORDER_STATE", env.Error)
}

func TestCallback_BadSignatureFailsPayment(t *testing.T) {
	c := newClient(t)

	_, env := c.do(http.MethodPost, "/api/v1/orders", "user-1", orderBody())
	o := decode[idStatus](t, env.Data)
	_, env = c.do(http.MethodPost, "/api/v1/payments", "user-1", map[string]any{"order_id": o.ID, "method": "alipay"})
	p := decode[idStatus](t, env.Data)

	w, env := c.do(http.MethodPost, "/api/v1/payments/"+p.ID+"/callback", "", map[string]string{
		"trade_status": "TRADE_SUCCESS",
		"sign":         "deadbeef",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "failed", decode[idStatus](t, env.Data).Status)

	_, env = c.do(http.MethodGet, "/api/v1/orders/"+o.ID, "user-1", nil)
	assert.Equal(t, "pending", decode[idStatus](t, env.Data).Status)

	w, env = c.do(http.MethodPost, "/api/v1/payments/missing/callback", "", map[string]string{})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PAYMENT_NOT_FOUND", env.Error)
}

func TestPromotionEndpoints(t *testing.T) {
	c := newClient(t)
	start := time.Now().Add(time.Hour)

	w, env := c.do(http.MethodPost, "/api/v1/promotions/full-reduce", "", map[string]any{
		"name":       "Tiered",
		"start_date": start,
		"end_date":   start.Add(24 * time.Hour),
		"tiers": []map[string]any{
			{"threshold": "500", "reduction": "50"},
			{"threshold": "1000", "reduction": "150"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	promo := decode[idStatus](t, env.Data)
	assert.Equal(t, "draft", promo.Status)

	w, env = c.do(http.MethodPost, "/api/v1/promotions/"+promo.ID+"/calculate", "", map[string]any{"order_amount": "1500"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	discount := decode[map[string]any](t, env.Data)
	assert.Equal(t, "150.00", discount["discount"])
	assert.Equal(t, "1350.00", discount["final_amount"])

	w, env = c.do(http.MethodPut, "/api/v1/promotions/"+promo.ID+"/activate", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "active", decode[idStatus](t, env.Data).Status)

	w, env = c.do(http.MethodGet, "/api/v1/promotions?type=full-reduce", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idStatus](t, env.Data), 1)

	w, env = c.do(http.MethodPost, "/api/v1/promotions/coupon", "", map[string]any{
		"name":             "Bad coupon",
		"start_date":       start,
		"end_date":         start.Add(time.Hour),
		"discount_amount":  "60",
		"minimum_purchase": "50",
		"total_quantity":   10,
		"per_user_limit":   1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DISCOUNT_BOUNDS", env.Error)

	w, _ = c.do(http.MethodDelete, "/api/v1/promotions/"+promo.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = c.do(http.MethodGet, "/api/v1/promotions/"+promo.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PROMOTION_NOT_FOUND", env.Error)
}

func TestHealthAndMetrics(t *testing.T) {
	c := newClient(t)

	w, _ := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"mock"`)

	w, _ = c.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop_http_request_duration_seconds")
}
