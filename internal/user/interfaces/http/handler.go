// Package http 负责处理用户相关的 HTTP 请求
package http

import (
	"errors"

	"github.com/annaylee/estore-apis/internal/user/application"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/middleware"
	"github.com/annaylee/estore-apis/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserHandler HTTP 处理器
type UserHandler struct {
	svc *application.UserService
}

// NewUserHandler 创建 HTTP 处理器实例
func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRoutes 注册路由
// 登录/注册无需认证；单用户读取允许本人或管理员；其余管理操作仅管理员
func (h *UserHandler) RegisterRoutes(public, authed, admin *gin.RouterGroup) {
	public.POST("/users/login", h.Login)
	public.POST("/users/register", h.Register)
	authed.GET("/users/:id", h.Get)
	admin.GET("/users", h.List)
	admin.POST("/users", h.Create)
	admin.PUT("/users/:id", h.Update)
	admin.DELETE("/users/:id", h.Delete)
	admin.GET("/users/get/count", h.Count)
}

// UserRequest 创建/更新用户请求
type UserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.BadRequest(c, "invalid email or password")
			return
		}
		logger.Error(c.Request.Context(), "Failed to login", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// Register 自助注册，强制非管理员身份
func (h *UserHandler) Register(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	// 自助注册不可授予管理员权限
	req.IsAdmin = false
	h.register(c, req)
}

// Create 管理员创建用户，可设置管理员标记
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.register(c, req)
}

func (h *UserHandler) register(c *gin.Context, req UserRequest) {
	user, err := h.svc.Register(c.Request.Context(), application.RegisterCommand{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		IsAdmin:   req.IsAdmin,
		Street:    req.Street,
		Apartment: req.Apartment,
		City:      req.City,
		Zip:       req.Zip,
		Country:   req.Country,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) || errors.Is(err, application.ErrMissingFields) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to register user", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, user)
}

// Get 获取用户，仅本人或管理员可见
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !middleware.IsAdmin(c) && middleware.AuthUserID(c) != id {
		response.ErrorWithStatus(c, 403, "cannot access another user's record")
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get user", "id", id, "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, user)
}

// List 获取全部用户
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list users", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, users)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), application.UpdateUserCommand{
		ID:        c.Param("id"),
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		IsAdmin:   req.IsAdmin,
		Street:    req.Street,
		Apartment: req.Apartment,
		City:      req.City,
		Zip:       req.Zip,
		Country:   req.Country,
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to update user", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, user)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to delete user", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "user deleted", nil)
}

// Count 用户总数
func (h *UserHandler) Count(c *gin.Context) {
	count, err := h.svc.Count(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to count users", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"count": count})
}
