// Package payment 支付 API 控制器
package payment

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecommerce/api/ctxutil"
	"ecommerce/api/middleware"
	"ecommerce/api/response"
	paymentapp "ecommerce/application/payment"
	domain "ecommerce/domain/payment"
	"ecommerce/pkg/metrics"
)

type Controller struct {
	paymentService *paymentapp.ApplicationService
	metrics        *metrics.Metrics
}

func NewController(paymentService *paymentapp.ApplicationService, m *metrics.Metrics) *Controller {
	return &Controller{
		paymentService: paymentService,
		metrics:        m,
	}
}

// RegisterRoutes 回调与状态更新来自支付渠道或管理端，不要求 X-User-ID
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/payments")
	{
		group.POST("", middleware.UserIDMiddleware(), c.CreatePayment)
		group.GET("/order/:orderId", c.GetPaymentByOrder)
		group.POST("/:id/callback", c.HandleCallback)
		group.PUT("/:id/status", c.UpdatePaymentStatus)
	}
}

// CreatePayment 为待支付订单创建支付单
// POST /api/v1/payments
func (c *Controller) CreatePayment(ctx *gin.Context) {
	var req paymentapp.CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.paymentService.CreatePayment(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.metrics.PaymentCreated(p.Method)
	response.HandleCreated(ctx, p, "payment created successfully")
}

// GetPaymentByOrder GET /api/v1/payments/order/:orderId
func (c *Controller) GetPaymentByOrder(ctx *gin.Context) {
	p, err := c.paymentService.GetPaymentByOrder(ctxutil.WithRequestID(ctx), ctx.Param("orderId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "payment retrieved successfully")
}

// HandleCallback 支付渠道异步通知
// POST /api/v1/payments/:id/callback
//
// 渠道一般以表单提交，也接受 JSON 对象
func (c *Controller) HandleCallback(ctx *gin.Context) {
	payload, err := bindCallback(ctx)
	if err != nil {
		response.HandleError(ctx, err, "invalid callback payload", http.StatusBadRequest)
		return
	}

	p, err := c.paymentService.HandleCallback(ctxutil.WithRequestID(ctx), ctx.Param("id"), payload)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.metrics.CallbackResolved(p.Status)
	response.HandleSuccess(ctx, p, "payment callback processed")
}

// UpdatePaymentStatus 手动将支付置为 success 或 failed
// PUT /api/v1/payments/:id/status
func (c *Controller) UpdatePaymentStatus(ctx *gin.Context) {
	var req paymentapp.UpdatePaymentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.paymentService.UpdatePaymentStatus(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "payment status updated successfully")
}

func bindCallback(ctx *gin.Context) (domain.CallbackPayload, error) {
	if strings.HasPrefix(ctx.ContentType(), gin.MIMEJSON) {
		payload := domain.CallbackPayload{}
		if err := ctx.ShouldBindJSON(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	}

	if err := ctx.Request.ParseForm(); err != nil {
		return nil, err
	}
	payload := make(domain.CallbackPayload, len(ctx.Request.PostForm))
	for k, values := range ctx.Request.PostForm {
		if len(values) > 0 {
			payload[k] = values[0]
		}
	}
	return payload, nil
}
