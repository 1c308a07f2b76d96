package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"

	"ecommerce/api/middleware"
	"ecommerce/api/response"
	"ecommerce/infrastructure/persistence"
)

// WithRequestID 返回带请求 ID 的 context，传给应用服务
func WithRequestID(c *gin.Context) context.Context {
	return persistence.ContextWithRequestID(c.Request.Context(), response.GetRequestID(c))
}

// UserID 由 UserIDMiddleware 写入
func UserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}
