package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.OrderCreated()
	m.OrderCreated()
	m.PaymentCreated("alipay")
	m.CallbackResolved("success")
	m.CallbackResolved("failed")
	m.CallbackResolved("failed")
	m.PromotionCreated("coupon")
	m.DiscountCalculated(true)
	m.OrderStatusChanged("shipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsCreated.WithLabelValues("alipay")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.callbacks.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promotionsCreated.WithLabelValues("coupon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.discounts.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderTransitions.WithLabelValues("shipped")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.PaymentCreated("wechat")
		m.CallbackResolved("success")
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequests), "ids must collapse into one route label")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `shop_http_request_duration_seconds_count{method="GET",route="/orders/:id",status="200"} 3`))
}
