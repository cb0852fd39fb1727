// Package domain 包含用户的领域模型
package domain

import (
	"context"
	"time"
)

// User 用户实体
type User struct {
	// 用户 ID
	ID string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	// 姓名
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	// 邮箱（唯一）
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	// 密码哈希（bcrypt）
	PasswordHash string `gorm:"column:password_hash;type:varchar(100);not null" json:"-"`
	// 电话
	Phone string `gorm:"column:phone;type:varchar(30)" json:"phone,omitempty"`
	// 是否管理员
	IsAdmin bool `gorm:"column:is_admin;default:false" json:"isAdmin"`
	// 地址
	Street    string `gorm:"column:street;type:varchar(255)" json:"street,omitempty"`
	Apartment string `gorm:"column:apartment;type:varchar(100)" json:"apartment,omitempty"`
	City      string `gorm:"column:city;type:varchar(100)" json:"city,omitempty"`
	Zip       string `gorm:"column:zip;type:varchar(20)" json:"zip,omitempty"`
	Country   string `gorm:"column:country;type:varchar(100)" json:"country,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserRepository 用户仓储接口
type UserRepository interface {
	// 保存用户
	Save(ctx context.Context, user *User) error
	// 获取用户，不存在时返回 (nil, nil)
	Get(ctx context.Context, id string) (*User, error)
	// 按邮箱获取用户，不存在时返回 (nil, nil)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// 获取全部用户
	List(ctx context.Context) ([]*User, error)
	// 更新用户
	Update(ctx context.Context, user *User) error
	// 删除用户，返回是否存在
	Delete(ctx context.Context, id string) (bool, error)
	// 用户总数
	Count(ctx context.Context) (int64, error)
}
