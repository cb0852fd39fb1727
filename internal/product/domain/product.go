// Package domain 包含商品目录的领域模型
package domain

import (
	"context"
	"time"

	categorydomain "github.com/annaylee/estore-apis/internal/category/domain"
	"github.com/shopspring/decimal"
)

// MaxCountInStock 库存数量上限
const MaxCountInStock = 255

// Product 商品实体
type Product struct {
	// 商品 ID
	ID string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	// 商品名称
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// 摘要描述
	Description string `gorm:"column:description;type:text;not null" json:"description"`
	// 详细描述
	RichDescription string `gorm:"column:rich_description;type:text" json:"richDescription,omitempty"`
	// 主图 URI
	Image string `gorm:"column:image;type:varchar(500)" json:"image,omitempty"`
	// 图集 URI 列表（有序）
	Images []string `gorm:"column:images;serializer:json" json:"images,omitempty"`
	// 品牌
	Brand string `gorm:"column:brand;type:varchar(100)" json:"brand,omitempty"`
	// 单价
	Price decimal.Decimal `gorm:"column:price;type:decimal(20,8);not null" json:"price"`
	// 所属分类 ID
	CategoryID string `gorm:"column:category_id;type:varchar(36);index;not null" json:"-"`
	// 所属分类（读取时预加载）
	Category *categorydomain.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	// 库存数量（0-255）
	CountInStock int `gorm:"column:count_in_stock;not null;default:0" json:"countInStock"`
	// 评分
	Rating float64 `gorm:"column:rating;default:0" json:"rating"`
	// 评论数
	NumReviews int `gorm:"column:num_reviews;default:0" json:"numReviews"`
	// 是否精选
	IsFeatured bool `gorm:"column:is_featured;index;default:false" json:"isFeatured"`

	// 创建时间，仅在创建时设置
	CreatedAt time.Time `json:"dateCreated"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 指定表名
func (Product) TableName() string { return "products" }

// ListFilter 商品列表过滤条件
type ListFilter struct {
	// 分类 ID 列表，为空表示不过滤
	CategoryIDs []string
	// 分页
	Limit  int
	Offset int
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 保存商品
	Save(ctx context.Context, product *Product) error
	// 获取商品（含分类），不存在时返回 (nil, nil)
	Get(ctx context.Context, id string) (*Product, error)
	// 获取商品列表
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	// 更新商品
	Update(ctx context.Context, product *Product) error
	// 删除商品，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
	// 商品总数
	Count(ctx context.Context) (int64, error)
	// 精选商品
	Featured(ctx context.Context, limit int) ([]*Product, error)
}
