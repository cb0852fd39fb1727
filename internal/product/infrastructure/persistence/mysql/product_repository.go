// Package mysql 提供商品仓储接口的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/annaylee/estore-apis/internal/product/domain"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/annaylee/estore-apis/pkg/logger"
	"gorm.io/gorm"
)

// productRepositoryImpl 是 domain.ProductRepository 接口的 GORM 实现
type productRepositoryImpl struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储实例
func NewProductRepository(gdb *gorm.DB) domain.ProductRepository {
	return &productRepositoryImpl{db: gdb}
}

func (r *productRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.FromContext(ctx, r.db).WithContext(ctx)
}

// Save 实现 domain.ProductRepository.Save
func (r *productRepositoryImpl) Save(ctx context.Context, product *domain.Product) error {
	// 只写商品本体，分类由 CategoryID 关联
	if err := r.conn(ctx).Omit("Category").Create(product).Error; err != nil {
		logger.Error(ctx, "product_repository.save failed", "id", product.ID, "error", err)
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Get 实现 domain.ProductRepository.Get
func (r *productRepositoryImpl) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.conn(ctx).Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "product_repository.get failed", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// List 实现 domain.ProductRepository.List
func (r *productRepositoryImpl) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64

	q := r.conn(ctx).Model(&domain.Product{})
	if len(filter.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", filter.CategoryIDs)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := q.Preload("Category").Order("created_at desc").Limit(filter.Limit).Offset(filter.Offset).Find(&products).Error; err != nil {
		logger.Error(ctx, "product_repository.list failed", "error", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Update 实现 domain.ProductRepository.Update
func (r *productRepositoryImpl) Update(ctx context.Context, product *domain.Product) error {
	if err := r.conn(ctx).Omit("Category").Save(product).Error; err != nil {
		logger.Error(ctx, "product_repository.update failed", "id", product.ID, "error", err)
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete 实现 domain.ProductRepository.Delete
func (r *productRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	result := r.conn(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if result.Error != nil {
		logger.Error(ctx, "product_repository.delete failed", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to delete product: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count 实现 domain.ProductRepository.Count
func (r *productRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.conn(ctx).Model(&domain.Product{}).Count(&total).Error; err != nil {
		logger.Error(ctx, "product_repository.count failed", "error", err)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Featured 实现 domain.ProductRepository.Featured
func (r *productRepositoryImpl) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.conn(ctx).Preload("Category").
		Where("is_featured = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error(ctx, "product_repository.featured failed", "error", err)
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}
