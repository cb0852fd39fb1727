// Package mysql 提供分类仓储接口的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/annaylee/estore-apis/internal/category/domain"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/annaylee/estore-apis/pkg/logger"
	"gorm.io/gorm"
)

// categoryRepositoryImpl 是 domain.CategoryRepository 接口的 GORM 实现
type categoryRepositoryImpl struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储实例
func NewCategoryRepository(gdb *gorm.DB) domain.CategoryRepository {
	return &categoryRepositoryImpl{db: gdb}
}

func (r *categoryRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.FromContext(ctx, r.db).WithContext(ctx)
}

// Save 实现 domain.CategoryRepository.Save
func (r *categoryRepositoryImpl) Save(ctx context.Context, category *domain.Category) error {
	if err := r.conn(ctx).Create(category).Error; err != nil {
		logger.Error(ctx, "category_repository.save failed", "id", category.ID, "error", err)
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

// Get 实现 domain.CategoryRepository.Get
func (r *categoryRepositoryImpl) Get(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.conn(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "category_repository.get failed", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// List 实现 domain.CategoryRepository.List
func (r *categoryRepositoryImpl) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := r.conn(ctx).Order("name asc").Find(&categories).Error; err != nil {
		logger.Error(ctx, "category_repository.list failed", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update 实现 domain.CategoryRepository.Update
func (r *categoryRepositoryImpl) Update(ctx context.Context, category *domain.Category) error {
	if err := r.conn(ctx).Save(category).Error; err != nil {
		logger.Error(ctx, "category_repository.update failed", "id", category.ID, "error", err)
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete 实现 domain.CategoryRepository.Delete
func (r *categoryRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	result := r.conn(ctx).Where("id = ?", id).Delete(&domain.Category{})
	if result.Error != nil {
		logger.Error(ctx, "category_repository.delete failed", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to delete category: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
