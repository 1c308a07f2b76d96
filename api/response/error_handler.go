package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecommerce/domain/shared"
	"ecommerce/pkg/errors"
	"ecommerce/pkg/logger"
)

// httpStatusMap 错误码到 HTTP 状态码的映射，只在 API 层使用
var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:         http.StatusInternalServerError,
	errors.CodeBadRequest:       http.StatusBadRequest,
	errors.CodeUnauthorized:     http.StatusUnauthorized,
	errors.CodeNotFound:         http.StatusNotFound,
	errors.CodeConflict:         http.StatusConflict,
	errors.CodeTooManyRequest:   http.StatusTooManyRequests,
	errors.CodeValidation:       http.StatusBadRequest,
	errors.CodeInvalidState:     http.StatusUnprocessableEntity,
	errors.CodeConcurrentModify: http.StatusConflict,

	errors.CodePromotionNotFound:     http.StatusNotFound,
	errors.CodeInvalidTemporalRange:  http.StatusBadRequest,
	errors.CodeInvalidDiscountBounds: http.StatusBadRequest,
	errors.CodeUnknownProduct:        http.StatusBadRequest,
	errors.CodeUnknownVariant:        http.StatusBadRequest,

	errors.CodeOrderNotFound:     http.StatusNotFound,
	errors.CodeInvalidOrderState: http.StatusUnprocessableEntity,
	errors.CodeProductNotFound:   http.StatusNotFound,

	errors.CodePaymentNotFound:  http.StatusNotFound,
	errors.CodeDuplicatePayment: http.StatusConflict,
}

func mapErrorCodeToHTTPStatus(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetRequestID 从 gin context 获取请求 ID
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// HandleError 处理参数绑定等框架层错误
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := GetRequestID(c)

	logger.Warn(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleAppError 按应用错误码映射 HTTP 状态码
// 4xx 记 warn，5xx 记 error 并附带堆栈
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := mapErrorCodeToHTTPStatus(appErr.Code)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	if httpStatus >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stack", extractStack(err)))
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

// extractStack 优先取错误发生点的堆栈，没有时取当前处理点
func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4) // skip: Callers, captureStack, extractStack, HandleAppError
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}
