// Package http 负责处理分类相关的 HTTP 请求
package http

import (
	"errors"

	"github.com/annaylee/estore-apis/internal/category/application"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/response"
	"github.com/gin-gonic/gin"
)

// CategoryHandler HTTP 处理器
type CategoryHandler struct {
	svc *application.CategoryService
}

// NewCategoryHandler 创建 HTTP 处理器实例
func NewCategoryHandler(svc *application.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// RegisterRoutes 注册路由；读操作对认证用户开放，写操作仅管理员
func (h *CategoryHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	authed.GET("/categories", h.List)
	authed.GET("/categories/:id", h.Get)
	admin.POST("/categories", h.Create)
	admin.PUT("/categories/:id", h.Update)
	admin.DELETE("/categories/:id", h.Delete)
}

// CategoryRequest 创建/更新分类请求
type CategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// List 获取全部分类
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list categories", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, categories)
}

// Get 获取单个分类
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get category", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, category)
}

// Create 创建分类
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.svc.Create(c.Request.Context(), application.CreateCategoryCommand{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create category", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, category)
}

// Update 更新分类
func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.svc.Update(c.Request.Context(), application.UpdateCategoryCommand{
		ID:    c.Param("id"),
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to update category", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, category)
}

// Delete 删除分类
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "category not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to delete category", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "category deleted", nil)
}
