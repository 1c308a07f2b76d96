// Package metrics Prometheus 指标
// 所有方法对 nil *Metrics 安全，关闭指标时传 nil 即可
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.HistogramVec
	promotionsCreated *prometheus.CounterVec
	discounts         *prometheus.CounterVec
	ordersCreated     prometheus.Counter
	orderTransitions  *prometheus.CounterVec
	paymentsCreated   *prometheus.CounterVec
	callbacks         *prometheus.CounterVec
}

// New 使用独立的 registry，测试之间互不影响
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		promotionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_created_total",
			Help:      "Promotions created by type.",
		}, []string{"type"}),
		discounts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_calculations_total",
			Help:      "Discount calculations by whether a discount applied.",
		}, []string{"applied"}),
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders placed.",
		}),
		orderTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Order status changes by target status.",
		}, []string{"status"}),
		paymentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_created_total",
			Help:      "Payments created by method.",
		}, []string{"method"}),
		callbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_callbacks_total",
			Help:      "Payment callbacks by resolved status.",
		}, []string{"result"}),
	}
}

// Handler /metrics 抓取入口
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware 记录请求耗时，route 使用路由模板避免 ID 造成高基数
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) PromotionCreated(promotionType string) {
	if m == nil {
		return
	}
	m.promotionsCreated.WithLabelValues(promotionType).Inc()
}

func (m *Metrics) DiscountCalculated(applied bool) {
	if m == nil {
		return
	}
	m.discounts.WithLabelValues(strconv.FormatBool(applied)).Inc()
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) OrderStatusChanged(status string) {
	if m == nil {
		return
	}
	m.orderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) PaymentCreated(method string) {
	if m == nil {
		return
	}
	m.paymentsCreated.WithLabelValues(method).Inc()
}

func (m *Metrics) CallbackResolved(result string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(result).Inc()
}
