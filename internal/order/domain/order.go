// Package domain 包含订单服务的领域模型
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 常用订单状态；status 字段为开放字符串，不做枚举校验
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// OrderItem 订单条目实体
// 仅随订单创建而创建，随订单删除而删除，归属唯一订单
type OrderItem struct {
	// 条目 ID
	ID string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	// 所属订单 ID
	OrderID string `gorm:"column:order_id;type:varchar(36);index;not null" json:"-"`
	// 购买数量（正整数）
	Quantity int `gorm:"column:quantity;not null" json:"quantity"`
	// 商品 ID
	ProductID string `gorm:"column:product_id;type:varchar(36);index;not null" json:"product"`
	// 条目在订单内的序号，保证读取顺序与下单顺序一致
	Position int `gorm:"column:position;not null;default:0" json:"-"`

	CreatedAt time.Time `json:"-"`
}

// TableName 指定表名
func (OrderItem) TableName() string { return "order_items" }

// Order 订单实体
type Order struct {
	// 订单 ID
	ID string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	// 订单条目（有序）
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
	// 收货地址
	ShippingAddress1 string `gorm:"column:shipping_address1;type:varchar(255);not null" json:"shippingAddress1"`
	ShippingAddress2 string `gorm:"column:shipping_address2;type:varchar(255)" json:"shippingAddress2,omitempty"`
	City             string `gorm:"column:city;type:varchar(100)" json:"city"`
	Zip              string `gorm:"column:zip;type:varchar(20)" json:"zip"`
	Country          string `gorm:"column:country;type:varchar(100)" json:"country"`
	// 联系电话
	Phone string `gorm:"column:phone;type:varchar(30)" json:"phone"`
	// 订单状态
	Status string `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	// 订单总价，创建时按条目快照计算，之后不随商品价格变动
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(20,8);not null" json:"totalPrice"`
	// 下单用户 ID
	UserID string `gorm:"column:user_id;type:varchar(36);index;not null" json:"user"`

	// 下单时间，仅在创建时设置
	CreatedAt time.Time `json:"dateOrdered"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// OrderRepository 订单仓储接口
// 多写操作（创建、级联删除）须由调用方通过 db.ContextWithTx 提供事务
type OrderRepository interface {
	// 创建订单及其全部条目
	Create(ctx context.Context, order *Order) error
	// 获取订单（含条目，按下单顺序），不存在时返回 (nil, nil)
	Get(ctx context.Context, id string) (*Order, error)
	// 获取全部订单，按下单时间倒序
	List(ctx context.Context) ([]*Order, error)
	// 获取指定用户的订单，按下单时间倒序
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	// 仅更新订单状态
	UpdateStatus(ctx context.Context, id, status string) error
	// 删除订单并级联删除其条目，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
	// 获取单个订单条目，不存在时返回 (nil, nil)
	GetItem(ctx context.Context, itemID string) (*OrderItem, error)
	// 订单总数
	Count(ctx context.Context) (int64, error)
	// 全部订单总价之和，无订单时为 0
	TotalSales(ctx context.Context) (decimal.Decimal, error)
}

// ProductInfo 订单服务所需的商品快照
type ProductInfo struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   string
	CategoryName string
}

// ProductReader 商品目录读取端口，由商品服务实现
type ProductReader interface {
	// 获取商品快照，不存在时返回 (nil, nil)
	GetProduct(ctx context.Context, id string) (*ProductInfo, error)
}

// UserReader 用户读取端口，由用户服务实现
type UserReader interface {
	// 获取用户姓名，用户不存在时返回空串
	GetUserName(ctx context.Context, id string) (string, error)
}
