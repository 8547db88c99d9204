package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hourglass/internal/api/middleware"
	"github.com/d60-Lab/hourglass/pkg/response"
)

type createUserRequest struct {
	UID      string `json:"uid" binding:"required,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Username string `json:"username" binding:"required,username"`
}

type renameRequest struct {
	Username string `json:"username" binding:"required,username"`
}

type profileImageRequest struct {
	// ProfileImageURL 为空表示清除头像
	ProfileImageURL *string `json:"profileImageURL" binding:"omitempty,max=512"`
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body createUserRequest true "用户信息"
// @Success 201 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	uid, ok := h.actor(c, req.UID)
	if !ok {
		return
	}
	u, err := h.users.CreateUser(c.Request.Context(), uid, req.Email, req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, u)
}

// GetUser 查询用户；非本人只返回公开资料
// @Summary 查询用户
// @Tags 用户
// @Produce json
// @Param uid path string true "用户ID"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 404 {object} response.Response
// @Router /api/users/{uid} [get]
func (h *Handler) GetUser(c *gin.Context) {
	uid := c.Param("uid")
	u, err := h.users.GetUser(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	if sub, ok := middleware.Subject(c); ok && sub != uid {
		response.Success(c, u.Summary())
		return
	}
	response.Success(c, u)
}

// SearchUser 按用户名精确查找，被拉黑（任一方向）时同样返回 404；必须能确定搜索者
// @Summary 按用户名查找
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Param uid query string false "搜索者ID（未启用鉴权时必填）"
// @Success 200 {object} response.Response{data=model.UserSummary}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/search/{username} [get]
func (h *Handler) SearchUser(c *gin.Context) {
	searcher, ok := h.actor(c, c.Query("uid"))
	if !ok {
		return
	}
	u, err := h.relService.SearchVisibleUser(c.Request.Context(), searcher, c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, u.Summary())
}

// RenameUser 修改用户名
// @Summary 修改用户名
// @Tags 用户
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body renameRequest true "新用户名"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users/{uid}/username [put]
func (h *Handler) RenameUser(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.users.RenameUser(c.Request.Context(), uid, req.Username); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"uid": uid, "username": req.Username})
}

// SetProfileImage 设置或清除头像引用
// @Summary 设置头像
// @Tags 用户
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body profileImageRequest true "头像引用"
// @Success 200 {object} response.Response
// @Router /api/users/{uid}/profile-image [put]
func (h *Handler) SetProfileImage(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	var req profileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.users.SetProfileImage(c.Request.Context(), uid, req.ProfileImageURL); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}
