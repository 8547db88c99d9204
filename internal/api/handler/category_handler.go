package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/pkg/response"
)

type categoryRequest struct {
	Name  string      `json:"name" binding:"required,max=64"`
	Color model.Color `json:"color"`
}

// ListCategories 查询类别，首次访问预置默认类别
// @Summary 查询活动类别
// @Tags 类别
// @Produce json
// @Param uid path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.Category}
// @Router /api/users/{uid}/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	cats, err := h.users.ListCategories(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cats)
}

// CreateCategory 新建自定义类别
// @Summary 新建活动类别
// @Tags 类别
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param request body categoryRequest true "类别"
// @Success 201 {object} response.Response{data=model.Category}
// @Failure 409 {object} response.Response
// @Router /api/users/{uid}/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.users.CreateCategory(c.Request.Context(), uid, req.Name, req.Color)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, cat)
}

// UpdateCategory 修改自定义类别；默认类别不可修改
// @Summary 修改活动类别
// @Tags 类别
// @Accept json
// @Produce json
// @Param uid path string true "用户ID"
// @Param id path string true "类别ID"
// @Param request body categoryRequest true "类别"
// @Success 200 {object} response.Response{data=model.Category}
// @Failure 403 {object} response.Response
// @Router /api/users/{uid}/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.users.UpdateCategory(c.Request.Context(), uid, c.Param("id"), req.Name, req.Color)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cat)
}

// DeleteCategory 删除自定义类别
// @Summary 删除活动类别
// @Tags 类别
// @Param uid path string true "用户ID"
// @Param id path string true "类别ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/users/{uid}/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	uid, ok := h.actor(c, c.Param("uid"))
	if !ok {
		return
	}
	if err := h.users.DeleteCategory(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}
