// Package application 提供商品的应用服务（命令/查询分离）
package application

import (
	"context"
	"time"

	"github.com/annaylee/estore-apis/internal/product/domain"
	"github.com/annaylee/estore-apis/pkg/cache"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/utils"
)

// productCacheTTL 商品读缓存有效期
const productCacheTTL = 5 * time.Minute

// ReadCache 商品读缓存，基于 Redis 的 read-through 策略
// cache 为 nil 时所有操作直接穿透到数据库
type ReadCache struct {
	cache *cache.RedisCache
}

// NewReadCache 创建商品读缓存
func NewReadCache(c *cache.RedisCache) *ReadCache {
	return &ReadCache{cache: c}
}

func (rc *ReadCache) key(id string) string { return "product:" + id }

// Get 从缓存获取商品，未命中返回 nil
func (rc *ReadCache) Get(ctx context.Context, id string) *domain.Product {
	if rc == nil || rc.cache == nil {
		return nil
	}
	var product domain.Product
	hit, err := rc.cache.GetJSON(ctx, rc.key(id), &product)
	if err != nil || !hit {
		return nil
	}
	return &product
}

// Put 写入商品缓存，失败仅记录日志
func (rc *ReadCache) Put(ctx context.Context, product *domain.Product) {
	if rc == nil || rc.cache == nil || product == nil {
		return
	}
	if err := rc.cache.SetJSON(ctx, rc.key(product.ID), product, productCacheTTL); err != nil {
		logger.Warn(ctx, "product cache put failed", "id", product.ID, "error", err)
	}
}

// Invalidate 失效商品缓存
func (rc *ReadCache) Invalidate(ctx context.Context, id string) {
	if rc == nil || rc.cache == nil {
		return
	}
	if err := rc.cache.Delete(ctx, rc.key(id)); err != nil {
		logger.Warn(ctx, "product cache invalidate failed", "id", id, "error", err)
	}
}

// ProductListResult 商品列表查询结果
type ProductListResult struct {
	Products   []*domain.Product `json:"products"`
	Pagination *utils.Pagination `json:"pagination"`
}

// ProductQueryService 处理所有商品相关的查询操作
type ProductQueryService struct {
	repo  domain.ProductRepository
	cache *ReadCache
}

// NewProductQueryService 构造函数
func NewProductQueryService(repo domain.ProductRepository, cache *ReadCache) *ProductQueryService {
	return &ProductQueryService{repo: repo, cache: cache}
}

// Get 获取单个商品，优先走读缓存
func (s *ProductQueryService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if cached := s.cache.Get(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	s.cache.Put(ctx, product)
	return product, nil
}

// List 获取商品列表，支持按分类过滤与分页
func (s *ProductQueryService) List(ctx context.Context, categoryIDs []string, page, pageSize int) (*ProductListResult, error) {
	pagination := utils.NewPagination(page, pageSize, 0)
	products, total, err := s.repo.List(ctx, domain.ListFilter{
		CategoryIDs: categoryIDs,
		Limit:       pagination.Limit(),
		Offset:      pagination.Offset(),
	})
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products:   products,
		Pagination: utils.NewPagination(page, pageSize, total),
	}, nil
}

// Count 商品总数
func (s *ProductQueryService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Featured 精选商品
func (s *ProductQueryService) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.Featured(ctx, limit)
}
