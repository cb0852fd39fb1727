// Package mysql 实现订单仓储的 MySQL 持久化
package mysql

import (
	"context"
	"fmt"

	"github.com/annaylee/estore-apis/internal/order/domain"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository 订单仓储的 gorm 实现
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(database *gorm.DB) *OrderRepository {
	return &OrderRepository{db: database}
}

// conn 取当前连接；ctx 携带事务时优先使用事务
func (r *OrderRepository) conn(ctx context.Context) *gorm.DB {
	return db.FromContext(ctx, r.db).WithContext(ctx)
}

// Create 创建订单，条目随关联一并写入
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.conn(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Get 获取订单及其条目，条目按下单顺序排列
func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("query order: %w", err)
	}
	return &order, nil
}

// List 获取全部订单，按下单时间倒序
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.conn(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return orders, nil
}

// ListByUser 获取指定用户的订单，按下单时间倒序
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.conn(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("query orders by user: %w", err)
	}
	return orders, nil
}

// UpdateStatus 仅更新 status 列
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	err := r.conn(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Delete 删除订单及其全部条目，先删条目以满足外键约束
func (r *OrderRepository) Delete(ctx context.Context, id string) (bool, error) {
	conn := r.conn(ctx)
	if err := conn.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return false, fmt.Errorf("delete order items: %w", err)
	}
	result := conn.Where("id = ?", id).Delete(&domain.Order{})
	if result.Error != nil {
		return false, fmt.Errorf("delete order: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetItem 获取单个订单条目
func (r *OrderRepository) GetItem(ctx context.Context, itemID string) (*domain.OrderItem, error) {
	var item domain.OrderItem
	err := r.conn(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("query order item: %w", err)
	}
	return &item, nil
}

// Count 订单总数
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&domain.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// TotalSales 全部订单总价之和，空表时 COALESCE 归零
func (r *OrderRepository) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.conn(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum order total_price: %w", err)
	}
	return total, nil
}
