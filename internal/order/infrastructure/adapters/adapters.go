// Package adapters 把商品与用户服务适配为订单服务的读端口
package adapters

import (
	"context"
	"errors"
	"fmt"

	orderdomain "github.com/annaylee/estore-apis/internal/order/domain"
	productapp "github.com/annaylee/estore-apis/internal/product/application"
	userapp "github.com/annaylee/estore-apis/internal/user/application"
)

// ProductCatalogReader 基于商品查询服务实现 ProductReader
type ProductCatalogReader struct {
	products *productapp.ProductQueryService
}

// NewProductCatalogReader 创建商品目录读取适配器
func NewProductCatalogReader(products *productapp.ProductQueryService) *ProductCatalogReader {
	return &ProductCatalogReader{products: products}
}

// GetProduct 获取商品快照，商品不存在时返回 (nil, nil)
func (a *ProductCatalogReader) GetProduct(ctx context.Context, id string) (*orderdomain.ProductInfo, error) {
	product, err := a.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, productapp.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read product %s: %w", id, err)
	}
	info := &orderdomain.ProductInfo{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
	}
	if product.Category != nil {
		info.CategoryName = product.Category.Name
	}
	return info, nil
}

// UserDirectoryReader 基于用户服务实现 UserReader
type UserDirectoryReader struct {
	users *userapp.UserService
}

// NewUserDirectoryReader 创建用户读取适配器
func NewUserDirectoryReader(users *userapp.UserService) *UserDirectoryReader {
	return &UserDirectoryReader{users: users}
}

// GetUserName 获取用户姓名，用户不存在时返回空串
func (a *UserDirectoryReader) GetUserName(ctx context.Context, id string) (string, error) {
	return a.users.GetUserName(ctx, id)
}
