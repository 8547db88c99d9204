package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hourglass/internal/api/middleware"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/service"
	"github.com/d60-Lab/hourglass/pkg/response"
)

type saveSnapshotRequest struct {
	UserID string `json:"userId" binding:"required"`
	// Username 仅为兼容旧客户端，服务端以用户目录中的用户名为准
	Username string `json:"username"`
	// Date 缺省为请求时区的今天
	Date  string        `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Hours model.HourMap `json:"hourglassData" binding:"required"`
}

type commentRequest struct {
	AuthorUID string `json:"authorUid"`
	Text      string `json:"text" binding:"required,max=2000"`
}

type cheerRequest struct {
	UID string `json:"uid"`
}

// snapshotView 快照响应，附带半小时格子
type snapshotView struct {
	*model.Snapshot
	Entries []model.TimeSlot `json:"entries"`
}

func viewOf(s *model.Snapshot) snapshotView {
	return snapshotView{Snapshot: s, Entries: s.Hours.Slots()}
}

// viewer 读取操作的查看者：token subject，其次 viewerId 查询参数，最后视为本人
func (h *Handler) viewer(c *gin.Context, owner string) string {
	if sub, ok := middleware.Subject(c); ok {
		return sub
	}
	if v := c.Query("viewerId"); v != "" {
		return v
	}
	return owner
}

// SaveSnapshot 保存当天网格，按小时合并
// @Summary 保存网格快照
// @Tags 网格
// @Accept json
// @Produce json
// @Param tz query string false "IANA 时区"
// @Param request body saveSnapshotRequest true "小时 -> 类别"
// @Success 200 {object} response.Response{data=snapshotView}
// @Failure 400 {object} response.Response
// @Router /api/productivity/save [post]
func (h *Handler) SaveSnapshot(c *gin.Context) {
	var req saveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	uid, ok := h.actor(c, req.UserID)
	if !ok {
		return
	}
	loc, ok := h.location(c)
	if !ok {
		return
	}
	date := req.Date
	if date == "" {
		date = h.store.Today(loc)
	}
	snap, err := h.store.SaveSnapshot(c.Request.Context(), uid, date, req.Hours)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, viewOf(snap))
}

func (h *Handler) getSnapshot(c *gin.Context, owner, date string) {
	ok, err := h.social.CanView(c.Request.Context(), h.viewer(c, owner), owner)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		response.Forbidden(c, "only mutual followers can view this grid")
		return
	}
	snap, err := h.store.GetSnapshot(c.Request.Context(), owner, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, viewOf(snap))
}

// GetTodaySnapshot 查询今天的快照
// @Summary 查询今天的网格
// @Tags 网格
// @Produce json
// @Param userId path string true "用户ID"
// @Param tz query string false "IANA 时区"
// @Success 200 {object} response.Response{data=snapshotView}
// @Failure 404 {object} response.Response
// @Router /api/productivity/{userId} [get]
func (h *Handler) GetTodaySnapshot(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}
	h.getSnapshot(c, c.Param("userId"), h.store.Today(loc))
}

// GetSnapshot 查询指定日期的快照
// @Summary 查询指定日期的网格
// @Tags 网格
// @Produce json
// @Param userId path string true "用户ID"
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=snapshotView}
// @Failure 404 {object} response.Response
// @Router /api/productivity/{userId}/{date} [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	h.getSnapshot(c, c.Param("userId"), c.Param("date"))
}

// History 最近 N 天的快照，日期降序
// @Summary 历史网格
// @Tags 网格
// @Produce json
// @Param userId path string true "用户ID"
// @Param days query int false "天数" default(7)
// @Param tz query string false "IANA 时区"
// @Success 200 {object} response.Response{data=[]snapshotView}
// @Router /api/productivity/history/{userId} [get]
func (h *Handler) History(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("userId"))
	if !ok {
		return
	}
	loc, ok := h.location(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	snaps, err := h.store.History(c.Request.Context(), uid, days, loc)
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]snapshotView, len(snaps))
	for i, s := range snaps {
		views[i] = viewOf(s)
	}
	response.Success(c, views)
}

// Feed 查看者当天的动态流；存储不可用时返回 503 并附带上一次的结果（stale=true）
// @Summary 动态流
// @Tags 网格
// @Produce json
// @Param userId path string true "查看者ID"
// @Param tz query string false "IANA 时区"
// @Success 200 {object} response.Response{data=model.Feed}
// @Failure 503 {object} response.Response{data=model.Feed}
// @Router /api/productivity/feed/{userId} [get]
func (h *Handler) Feed(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("userId"))
	if !ok {
		return
	}
	loc, ok := h.location(c)
	if !ok {
		return
	}
	feed, err := h.feed.AssembleFeed(c.Request.Context(), uid, loc)
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) && feed != nil {
			response.ErrorWithData(c, 503, "feed is temporarily stale, please retry", feed)
			return
		}
		h.fail(c, err)
		return
	}
	response.Success(c, feed)
}

// ListComments 快照下的评论，时间升序
// @Summary 评论列表
// @Tags 互动
// @Produce json
// @Param userId path string true "快照所属用户"
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=[]model.Comment}
// @Failure 403 {object} response.Response
// @Router /api/productivity/{userId}/{date}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	owner := c.Param("userId")
	comments, err := h.social.ListComments(c.Request.Context(), h.viewer(c, owner), owner, c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, comments)
}

// AddComment 发表评论，仅本人或互关好友
// @Summary 发表评论
// @Tags 互动
// @Accept json
// @Produce json
// @Param userId path string true "快照所属用户"
// @Param date path string true "日期 YYYY-MM-DD"
// @Param request body commentRequest true "评论"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 403 {object} response.Response
// @Router /api/productivity/{userId}/{date}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	author, ok := h.actor(c, req.AuthorUID)
	if !ok {
		return
	}
	comment, err := h.social.AddComment(c.Request.Context(), author, c.Param("userId"), c.Param("date"), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, comment)
}

// ToggleCheer 加油 / 取消加油
// @Summary 加油
// @Tags 互动
// @Accept json
// @Produce json
// @Param userId path string true "快照所属用户"
// @Param date path string true "日期 YYYY-MM-DD"
// @Param request body cheerRequest false "加油者（未启用鉴权时）"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/productivity/{userId}/{date}/cheer [post]
func (h *Handler) ToggleCheer(c *gin.Context) {
	var req cheerRequest
	_ = c.ShouldBindJSON(&req)
	uid, ok := h.actor(c, req.UID)
	if !ok {
		return
	}
	cheered, count, err := h.social.ToggleCheer(c.Request.Context(), uid, c.Param("userId"), c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"cheered": cheered, "cheerCount": count})
}
