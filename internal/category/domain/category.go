// Package domain 包含商品分类的领域模型
package domain

import (
	"context"
	"time"
)

// Category 商品分类实体
type Category struct {
	// 分类 ID
	ID string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	// 分类名称
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	// 展示颜色（可选，如 #55879a）
	Color string `gorm:"column:color;type:varchar(20)" json:"color,omitempty"`
	// 图标名称（可选）
	Icon string `gorm:"column:icon;type:varchar(50)" json:"icon,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	// 保存分类
	Save(ctx context.Context, category *Category) error
	// 获取分类，不存在时返回 (nil, nil)
	Get(ctx context.Context, id string) (*Category, error)
	// 获取全部分类
	List(ctx context.Context) ([]*Category, error)
	// 更新分类
	Update(ctx context.Context, category *Category) error
	// 删除分类，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
}
