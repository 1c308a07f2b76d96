/*
Package promotion - 促销 API 控制器

每种促销类型一个创建入口，请求体字段按类型解释；
其余操作按 ID 进行，类型由已保存的促销决定。
*/
package promotion

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce/api/ctxutil"
	"ecommerce/api/response"
	promotionapp "ecommerce/application/promotion"
	"ecommerce/pkg/metrics"
)

// createTypes 路由段即促销类型
var createTypes = []string{"coupon", "full-gift", "full-reduce", "reduce"}

type Controller struct {
	promotionService *promotionapp.ApplicationService
	metrics          *metrics.Metrics
}

func NewController(promotionService *promotionapp.ApplicationService, m *metrics.Metrics) *Controller {
	return &Controller{
		promotionService: promotionService,
		metrics:          m,
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/promotions")
	{
		for _, t := range createTypes {
			group.POST("/"+t, c.Create(t))
		}
		group.GET("", c.List)
		group.GET("/:id", c.Get)
		group.PUT("/:id/activate", c.Activate)
		group.PUT("/:id/deactivate", c.Deactivate)
		group.DELETE("/:id", c.Delete)
		group.POST("/:id/calculate", c.CalculateDiscount)
	}
}

// Create 创建指定类型的促销
// POST /api/v1/promotions/{coupon,full-gift,full-reduce,reduce}
func (c *Controller) Create(promotionType string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req promotionapp.CreatePromotionRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
			return
		}
		req.Type = promotionType

		promo, err := c.promotionService.Create(ctxutil.WithRequestID(ctx), req)
		if err != nil {
			response.HandleAppError(ctx, err)
			return
		}

		c.metrics.PromotionCreated(promo.Type)
		response.HandleCreated(ctx, promo, "promotion created successfully")
	}
}

// List GET /api/v1/promotions?type=coupon
func (c *Controller) List(ctx *gin.Context) {
	promos, err := c.promotionService.List(ctxutil.WithRequestID(ctx), ctx.Query("type"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, promos, "promotions retrieved successfully")
}

// Get GET /api/v1/promotions/:id
func (c *Controller) Get(ctx *gin.Context) {
	promo, err := c.promotionService.Get(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, promo, "promotion retrieved successfully")
}

// Activate PUT /api/v1/promotions/:id/activate
func (c *Controller) Activate(ctx *gin.Context) {
	promo, err := c.promotionService.Activate(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, promo, "promotion activated successfully")
}

// Deactivate PUT /api/v1/promotions/:id/deactivate
func (c *Controller) Deactivate(ctx *gin.Context) {
	promo, err := c.promotionService.Deactivate(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, promo, "promotion deactivated successfully")
}

// Delete DELETE /api/v1/promotions/:id
func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.promotionService.Delete(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, nil, "promotion deleted successfully")
}

// CalculateDiscount 计算订单金额在该促销下的优惠
// POST /api/v1/promotions/:id/calculate
func (c *Controller) CalculateDiscount(ctx *gin.Context) {
	var req promotionapp.CalculateDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.promotionService.CalculateDiscount(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.metrics.DiscountCalculated(result.Discount != "0.00")
	response.HandleSuccess(ctx, result, "discount calculated successfully")
}
