package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce/api/health"
	"ecommerce/api/middleware"
	"ecommerce/api/order"
	"ecommerce/api/payment"
	"ecommerce/api/promotion"
	"ecommerce/config"
	"ecommerce/pkg/metrics"
)

// Controllers 各业务控制器
type Controllers struct {
	Health    *health.Controller
	Promotion *promotion.Controller
	Order     *order.Controller
	Payment   *payment.Controller
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers Controllers
	metrics     *metrics.Metrics
}

// NewRouter m 为 nil 时不挂载指标中间件和 /metrics
func NewRouter(cfg *config.Config, controllers Controllers, m *metrics.Metrics) *Router {
	switch {
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	case cfg.App.Env == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 顺序有意义：请求 ID 最先生成，之后的中间件都能取到
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	if m != nil {
		engine.Use(m.Middleware())
	}
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
		metrics:     m,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	r.controllers.Health.RegisterRoutes(r.engine)

	apiGroup := r.engine.Group("/api/v1")
	{
		r.controllers.Promotion.RegisterRoutes(apiGroup)
		r.controllers.Order.RegisterRoutes(apiGroup)
		r.controllers.Payment.RegisterRoutes(apiGroup)
	}

	if r.metrics != nil {
		path := r.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(r.metrics.Handler()))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
