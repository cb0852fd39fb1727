// Package mysql 提供用户仓储接口的 MySQL GORM 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/annaylee/estore-apis/internal/user/domain"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/annaylee/estore-apis/pkg/logger"
	"gorm.io/gorm"
)

// userRepositoryImpl 是 domain.UserRepository 接口的 GORM 实现
type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(gdb *gorm.DB) domain.UserRepository {
	return &userRepositoryImpl{db: gdb}
}

func (r *userRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.FromContext(ctx, r.db).WithContext(ctx)
}

// Save 实现 domain.UserRepository.Save
func (r *userRepositoryImpl) Save(ctx context.Context, user *domain.User) error {
	if err := r.conn(ctx).Create(user).Error; err != nil {
		logger.Error(ctx, "user_repository.save failed", "id", user.ID, "error", err)
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Get 实现 domain.UserRepository.Get
func (r *userRepositoryImpl) Get(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "user_repository.get failed", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail 实现 domain.UserRepository.GetByEmail
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "user_repository.get_by_email failed", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// List 实现 domain.UserRepository.List
func (r *userRepositoryImpl) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := r.conn(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		logger.Error(ctx, "user_repository.list failed", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update 实现 domain.UserRepository.Update
func (r *userRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	if err := r.conn(ctx).Save(user).Error; err != nil {
		logger.Error(ctx, "user_repository.update failed", "id", user.ID, "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Delete 实现 domain.UserRepository.Delete
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) (bool, error) {
	result := r.conn(ctx).Where("id = ?", id).Delete(&domain.User{})
	if result.Error != nil {
		logger.Error(ctx, "user_repository.delete failed", "id", id, "error", result.Error)
		return false, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count 实现 domain.UserRepository.Count
func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.conn(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		logger.Error(ctx, "user_repository.count failed", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}
