package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

// ErrorWithData 错误响应同时附带数据（例如降级时的旧动态流）
func ErrorWithData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func BadRequest(c *gin.Context, message string) { Error(c, http.StatusBadRequest, message) }

func Unauthorized(c *gin.Context, message string) { Error(c, http.StatusUnauthorized, message) }

func Forbidden(c *gin.Context, message string) { Error(c, http.StatusForbidden, message) }

func NotFound(c *gin.Context, message string) { Error(c, http.StatusNotFound, message) }

func Conflict(c *gin.Context, message string) { Error(c, http.StatusConflict, message) }

func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "too many requests")
}

func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message)
}

// InternalError 记录并上报未预期的错误，客户端只看到通用信息
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	Error(c, http.StatusInternalServerError, "internal server error")
}
