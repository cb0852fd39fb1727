// Package http 负责处理商品相关的 HTTP 请求
package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/annaylee/estore-apis/internal/product/application"
	"github.com/annaylee/estore-apis/internal/product/infrastructure/storage"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler HTTP 处理器
type ProductHandler struct {
	cmd     *application.ProductCommandService
	query   *application.ProductQueryService
	storage *storage.LocalStorage
}

// NewProductHandler 创建 HTTP 处理器实例
func NewProductHandler(cmd *application.ProductCommandService, query *application.ProductQueryService, st *storage.LocalStorage) *ProductHandler {
	return &ProductHandler{cmd: cmd, query: query, storage: st}
}

// RegisterRoutes 注册路由；读操作对认证用户开放，写操作仅管理员
func (h *ProductHandler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	authed.GET("/products", h.List)
	authed.GET("/products/:id", h.Get)
	authed.GET("/products/get/count", h.Count)
	authed.GET("/products/get/featured/:count", h.Featured)
	admin.POST("/products", h.Create)
	admin.PUT("/products/:id", h.Update)
	admin.DELETE("/products/:id", h.Delete)
	admin.POST("/products/image/:id", h.UploadImage)
	admin.PUT("/products/gallery-images/:id", h.UploadGallery)
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	RichDescription string  `json:"richDescription"`
	Image           string  `json:"image"`
	Brand           string  `json:"brand"`
	Price           float64 `json:"price"`
	Category        string  `json:"category" binding:"required"`
	CountInStock    int     `json:"countInStock"`
	Rating          float64 `json:"rating"`
	NumReviews      int     `json:"numReviews"`
	IsFeatured      bool    `json:"isFeatured"`
}

// List 获取商品列表，?categories=id1,id2 过滤，?page/?pageSize 分页
func (h *ProductHandler) List(c *gin.Context) {
	var categoryIDs []string
	if raw := c.Query("categories"); raw != "" {
		categoryIDs = strings.Split(raw, ",")
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	result, err := h.query.List(c.Request.Context(), categoryIDs, page, pageSize)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// Get 获取单个商品
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.query.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, product)
}

// Count 商品总数
func (h *ProductHandler) Count(c *gin.Context) {
	count, err := h.query.Count(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to count products", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"count": count})
}

// Featured 精选商品
func (h *ProductHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Param("count"))
	products, err := h.query.Featured(c.Request.Context(), limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list featured products", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, products)
}

// Create 创建商品
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.cmd.Create(c.Request.Context(), application.CreateProductCommand{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           req.Image,
		Brand:           req.Brand,
		Price:           decimal.NewFromFloat(req.Price),
		CategoryID:      req.Category,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	})
	if err != nil {
		if isValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, product)
}

// Update 更新商品
func (h *ProductHandler) Update(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.cmd.Update(c.Request.Context(), application.UpdateProductCommand{
		ID:              c.Param("id"),
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           req.Image,
		Brand:           req.Brand,
		Price:           decimal.NewFromFloat(req.Price),
		CategoryID:      req.Category,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		if isValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to update product", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, product)
}

// Delete 删除商品
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.cmd.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to delete product", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "product deleted", nil)
}

// UploadImage 上传商品主图（multipart 字段 image）
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}

	uri, err := h.storage.Save(c, file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.cmd.SetImage(c.Request.Context(), c.Param("id"), uri)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to set product image", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, product)
}

// UploadGallery 上传商品图集（multipart 字段 images，可多个），保持上传顺序
func (h *ProductHandler) UploadGallery(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		response.BadRequest(c, "at least one image file is required")
		return
	}

	uris := make([]string, 0, len(files))
	for _, file := range files {
		uri, err := h.storage.Save(c, file)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		uris = append(uris, uri)
	}

	product, err := h.cmd.SetGallery(c.Request.Context(), c.Param("id"), uris)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.NotFound(c, "product not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to set product gallery", "id", c.Param("id"), "error", err)
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, product)
}

// isValidationError 判断是否客户端可修正的输入错误
func isValidationError(err error) bool {
	return errors.Is(err, application.ErrInvalidCategory) ||
		errors.Is(err, application.ErrNegativePrice) ||
		errors.Is(err, application.ErrStockOutOfRange) ||
		errors.Is(err, application.ErrMissingFields)
}
