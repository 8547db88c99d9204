package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hourglass/pkg/response"
)

type targetRequest struct {
	TargetUID string `json:"targetUid" binding:"required"`
}

type pagedIDs func(ctx context.Context, userID string, page, pageSize int) ([]string, error)

// bindPair 解析 :uid 与 body 中的 targetUid
func (h *Handler) bindPair(c *gin.Context) (string, string, bool) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return "", "", false
	}
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return "", "", false
	}
	return uid, req.TargetUID, true
}

// Follow 关注用户，双方关系在同一事务内写入
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body targetRequest true "被关注者"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{uid}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	uid, target, ok := h.bindPair(c)
	if !ok {
		return
	}
	if err := h.relService.Follow(c.Request.Context(), uid, target); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注（幂等）
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body targetRequest true "被取消关注者"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{uid}/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	uid, target, ok := h.bindPair(c)
	if !ok {
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), uid, target); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Block 拉黑，同时解除双向关注
// @Summary 拉黑用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body targetRequest true "被拉黑者"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/users/{uid}/block [post]
func (h *Handler) Block(c *gin.Context) {
	uid, target, ok := h.bindPair(c)
	if !ok {
		return
	}
	if err := h.relService.Block(c.Request.Context(), uid, target); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unblock 解除拉黑，不恢复关注
// @Summary 解除拉黑
// @Tags 关系链
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body targetRequest true "被解除者"
// @Success 200 {object} response.Response
// @Router /api/users/{uid}/unblock [post]
func (h *Handler) Unblock(c *gin.Context) {
	uid, target, ok := h.bindPair(c)
	if !ok {
		return
	}
	if err := h.relService.Unblock(c.Request.Context(), uid, target); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *Handler) listProfiles(c *gin.Context, userID string, list pagedIDs) {
	page, pageSize := pageParams(c)
	ids, err := list(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	profiles, err := h.users.GetProfiles(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": profiles})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param uid path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/users/{uid}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	h.listProfiles(c, c.Param("uid"), h.relService.ListFollowing)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param uid path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/users/{uid}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	h.listProfiles(c, c.Param("uid"), h.relService.ListFans)
}

// ListBlocked 查询自己的拉黑列表，仅本人可见
// @Summary 查询拉黑列表
// @Tags 关系链
// @Param uid path string true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/users/{uid}/blocked [get]
func (h *Handler) ListBlocked(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	h.listProfiles(c, uid, h.relService.ListBlocked)
}
