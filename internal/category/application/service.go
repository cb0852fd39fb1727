// Package application 提供分类的应用服务
package application

import (
	"context"
	"errors"

	"github.com/annaylee/estore-apis/internal/category/domain"
	"github.com/google/uuid"
)

// ErrNotFound 分类不存在
var ErrNotFound = errors.New("category not found")

// ErrNameRequired 分类名称缺失
var ErrNameRequired = errors.New("category name is required")

// CreateCategoryCommand 创建分类命令
type CreateCategoryCommand struct {
	Name  string
	Color string
	Icon  string
}

// UpdateCategoryCommand 更新分类命令
type UpdateCategoryCommand struct {
	ID    string
	Name  string
	Color string
	Icon  string
}

// CategoryService 分类应用服务
type CategoryService struct {
	repo domain.CategoryRepository
}

// NewCategoryService 构造函数
func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	if cmd.Name == "" {
		return nil, ErrNameRequired
	}

	category := &domain.Category{
		ID:    uuid.New().String(),
		Name:  cmd.Name,
		Color: cmd.Color,
		Icon:  cmd.Icon,
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Get 获取分类
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// List 获取全部分类
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, cmd UpdateCategoryCommand) (*domain.Category, error) {
	category, err := s.repo.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	if cmd.Name != "" {
		category.Name = cmd.Name
	}
	category.Color = cmd.Color
	category.Icon = cmd.Icon

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
