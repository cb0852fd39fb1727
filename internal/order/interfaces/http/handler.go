// Package http 提供订单服务的 HTTP 接入层
package http

import (
	"errors"

	"github.com/annaylee/estore-apis/internal/order/application"
	"github.com/annaylee/estore-apis/pkg/middleware"
	"github.com/annaylee/estore-apis/pkg/response"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单 HTTP handler
type OrderHandler struct {
	commands *application.OrderCommandService
	queries  *application.OrderQueryService
}

// NewOrderHandler 创建订单 handler
func NewOrderHandler(commands *application.OrderCommandService, queries *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{commands: commands, queries: queries}
}

// RegisterRoutes 注册订单路由
// 下单与按用户查询要求登录，列表、状态更新、删除与报表要求管理员
func (h *OrderHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	authed.POST("/orders", h.Create)
	authed.GET("/orders/:id", h.Get)
	authed.GET("/orders/get/orders/:userid", h.ListByUser)

	admin.GET("/orders", h.List)
	admin.PUT("/orders/:id", h.UpdateStatus)
	admin.DELETE("/orders/:id", h.Delete)
	admin.GET("/orders/get/count", h.Count)
	admin.GET("/orders/get/totalsales", h.TotalSales)
}

type orderItemRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Product  string `json:"product" binding:"required"`
}

type placeOrderRequest struct {
	OrderItems       []orderItemRequest `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress1 string             `json:"shippingAddress1" binding:"required"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country"`
	Phone            string             `json:"phone"`
	Status           string             `json:"status"`
	User             string             `json:"user" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create 下单
// POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	// 非管理员只能给自己下单
	if !middleware.IsAdmin(c) && req.User != middleware.AuthUserID(c) {
		response.ErrorWithStatus(c, 403, "cannot place an order for another user")
		return
	}

	cmd := &application.PlaceOrderCommand{
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		UserID:           req.User,
	}
	for _, it := range req.OrderItems {
		cmd.Items = append(cmd.Items, application.OrderItemInput{Quantity: it.Quantity, ProductID: it.Product})
	}

	order, err := h.commands.PlaceOrder(c.Request.Context(), cmd)
	if err != nil {
		if isOrderInputError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, order)
}

// List 获取全部订单（列表视图）
// GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.queries.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if len(orders) == 0 {
		response.SuccessWithMessage(c, "no orders found", orders)
		return
	}
	response.Success(c, orders)
}

// Get 获取订单详情
// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.queries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	// 非管理员只能看自己的订单；归属判断基于订单记录本身的 user_id，
	// 不依赖展开后的用户视图（归属用户被删除时该视图为 null）
	if !middleware.IsAdmin(c) && order.OwnerID != middleware.AuthUserID(c) {
		response.ErrorWithStatus(c, 403, "cannot access another user's order")
		return
	}
	response.Success(c, order)
}

// UpdateStatus 更新订单状态
// PUT /orders/:id
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.commands.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.NotFound(c, "order not found")
		case errors.Is(err, application.ErrInvalidStatus):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err.Error())
		}
		return
	}
	response.Success(c, order)
}

// Delete 删除订单，条目一并删除
// DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	order, err := h.commands.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "order not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "order deleted", order)
}

// Count 订单总数
// GET /orders/get/count
func (h *OrderHandler) Count(c *gin.Context) {
	count, err := h.queries.Count(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"count": count})
}

// TotalSales 全部订单销售额
// GET /orders/get/totalsales
func (h *OrderHandler) TotalSales(c *gin.Context) {
	total, err := h.queries.TotalSales(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"totalsales": total})
}

// ListByUser 获取指定用户的订单历史
// GET /orders/get/orders/:userid
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID := c.Param("userid")
	// 非管理员只能查自己的订单历史
	if !middleware.IsAdmin(c) && userID != middleware.AuthUserID(c) {
		response.ErrorWithStatus(c, 403, "cannot access another user's orders")
		return
	}
	orders, err := h.queries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if len(orders) == 0 {
		response.SuccessWithMessage(c, "no orders found", orders)
		return
	}
	response.Success(c, orders)
}

// isOrderInputError 下单输入类错误统一映射为 400
func isOrderInputError(err error) bool {
	return errors.Is(err, application.ErrNoItems) ||
		errors.Is(err, application.ErrInvalidQuantity) ||
		errors.Is(err, application.ErrProductNotFound) ||
		errors.Is(err, application.ErrMissingFields) ||
		errors.Is(err, application.ErrInvalidStatus)
}
