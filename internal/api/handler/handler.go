package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/internal/api/middleware"
	"github.com/d60-Lab/hourglass/internal/service"
	"github.com/d60-Lab/hourglass/pkg/logger"
	"github.com/d60-Lab/hourglass/pkg/response"
)

// Services 处理器依赖的领域服务
type Services struct {
	Users        service.UserDirectory
	Relations    service.RelationshipService
	Productivity service.ProductivityStore
	Feed         service.FeedAssembler
	Social       service.SocialService
	// Health 可选，用于 /healthz 探测存储
	Health func(ctx context.Context) error
}

type Handler struct {
	users      service.UserDirectory
	relService service.RelationshipService
	store      service.ProductivityStore
	feed       service.FeedAssembler
	social     service.SocialService
	health     func(ctx context.Context) error
	defaultLoc *time.Location
}

// New defaultLoc 为请求未携带 tz 时使用的时区
func New(s Services, defaultLoc *time.Location) *Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Handler{
		users:      s.Users,
		relService: s.Relations,
		store:      s.Productivity,
		feed:       s.Feed,
		social:     s.Social,
		health:     s.Health,
		defaultLoc: defaultLoc,
	}
}

// fail 把领域错误映射为 HTTP 状态码
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		response.BadRequest(c, message(err, service.ErrInvalidArgument))
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, message(err, service.ErrNotFound))
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, message(err, service.ErrConflict))
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, message(err, service.ErrForbidden))
	case errors.Is(err, service.ErrStoreUnavailable):
		logger.Error("store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		response.ServiceUnavailable(c, "service temporarily unavailable, please retry")
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		response.InternalError(c, err)
	}
}

// message 去掉哨兵错误前缀，只保留给用户看的部分
func message(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

// actor 确定当前操作者：启用鉴权时为 token 的 subject，且必须与 claimed 一致；
// 未启用时直接信任 claimed
func (h *Handler) actor(c *gin.Context, claimed string) (string, bool) {
	if sub, ok := middleware.Subject(c); ok {
		if claimed != "" && claimed != sub {
			response.Forbidden(c, "cannot act on behalf of another user")
			return "", false
		}
		return sub, true
	}
	if claimed == "" {
		response.BadRequest(c, "user id is required")
		return "", false
	}
	return claimed, true
}

// location 读取 tz 查询参数（IANA 名称）
func (h *Handler) location(c *gin.Context) (*time.Location, bool) {
	tz := c.Query("tz")
	if tz == "" {
		return h.defaultLoc, true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		response.BadRequest(c, "unknown time zone "+strconv.Quote(tz))
		return nil, false
	}
	return loc, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.health(ctx); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			response.ServiceUnavailable(c, "store unreachable")
			return
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
