// Package response 提供统一的 HTTP 响应信封
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope 统一响应结构
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data"`
}

// Success 200 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// SuccessWithMessage 200 成功响应，附带提示信息
func SuccessWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created 201 创建成功响应
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// ErrorWithStatus 按指定状态码返回错误响应
func ErrorWithStatus(c *gin.Context, status int, errMsg string) {
	c.JSON(status, Envelope{Success: false, Error: errMsg})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, errMsg string) {
	ErrorWithStatus(c, http.StatusBadRequest, errMsg)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, errMsg string) {
	ErrorWithStatus(c, http.StatusNotFound, errMsg)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, errMsg string) {
	ErrorWithStatus(c, http.StatusInternalServerError, errMsg)
}
