/*
Package order - 订单 API 控制器

错误处理原则:
1. 参数绑定错误: 使用 response.HandleError 直接返回 400
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
*/
package order

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce/api/ctxutil"
	"ecommerce/api/middleware"
	"ecommerce/api/response"
	orderapp "ecommerce/application/order"
	"ecommerce/pkg/metrics"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
	metrics      *metrics.Metrics
}

func NewController(orderService *orderapp.ApplicationService, m *metrics.Metrics) *Controller {
	return &Controller{
		orderService: orderService,
		metrics:      m,
	}
}

// RegisterRoutes 下单与查询按 X-User-ID 限定在调用方自己的订单内
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		owned := orderGroup.Group("", middleware.UserIDMiddleware())
		owned.POST("", c.CreateOrder)
		owned.GET("", c.GetUserOrders)
		owned.GET("/:id", c.GetOrder)

		orderGroup.PUT("/:id/status", c.UpdateOrderStatus)
	}
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.metrics.OrderCreated()
	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder 获取订单信息
// GET /api/v1/orders/:id
//
// 他人的订单同样返回 404，不暴露订单是否存在
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// GetUserOrders 调用方的全部订单，新的在前
// GET /api/v1/orders
func (c *Controller) GetUserOrders(ctx *gin.Context) {
	orders, err := c.orderService.GetUserOrders(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, orders, "user orders retrieved successfully")
}

// UpdateOrderStatus 发货、签收、取消
// PUT /api/v1/orders/:id/status
func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	var req orderapp.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.UpdateOrderStatus(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.metrics.OrderStatusChanged(order.Status)
	response.HandleSuccess(ctx, order, "order status updated successfully")
}
