package application

import (
	"context"
	"fmt"
	"time"

	"github.com/annaylee/estore-apis/internal/order/domain"
	"github.com/shopspring/decimal"
)

// CategoryDTO 条目展开中的分类视图
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductDTO 条目展开中的商品视图
type ProductDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *CategoryDTO    `json:"category"`
}

// OrderItemDTO 展开后的订单条目
// 商品已被删除时 Product 为 null，订单仍可读
type OrderItemDTO struct {
	ID       string      `json:"id"`
	Quantity int         `json:"quantity"`
	Product  *ProductDTO `json:"product"`
}

// UserRefDTO 订单归属用户视图
type UserRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderSummaryDTO 订单列表视图：展开条目与用户，不含收货地址
type OrderSummaryDTO struct {
	ID          string          `json:"id"`
	Items       []OrderItemDTO  `json:"orderItems"`
	Status      string          `json:"status"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	User        *UserRefDTO     `json:"user"`
	DateOrdered time.Time       `json:"dateOrdered"`
}

// OrderDetailDTO 订单详情视图：在列表视图基础上附带收货地址
// OwnerID 始终取自订单记录本身；User 为展开视图，归属用户被删除时为 null
type OrderDetailDTO struct {
	OrderSummaryDTO
	OwnerID          string `json:"-"`
	ShippingAddress1 string `json:"shippingAddress1"`
	ShippingAddress2 string `json:"shippingAddress2,omitempty"`
	City             string `json:"city"`
	Zip              string `json:"zip"`
	Country          string `json:"country"`
	Phone            string `json:"phone"`
}

// OrderQueryService 处理订单读操作与销售报表
type OrderQueryService struct {
	repo     domain.OrderRepository
	products domain.ProductReader
	users    domain.UserReader
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(repo domain.OrderRepository, products domain.ProductReader, users domain.UserReader) *OrderQueryService {
	return &OrderQueryService{repo: repo, products: products, users: users}
}

// List 获取全部订单的列表视图，按下单时间倒序
func (s *OrderQueryService) List(ctx context.Context) ([]*OrderSummaryDTO, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	result := make([]*OrderSummaryDTO, 0, len(orders))
	for _, order := range orders {
		summary, err := s.toSummary(ctx, order)
		if err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, nil
}

// Get 获取订单详情视图
func (s *OrderQueryService) Get(ctx context.Context, id string) (*OrderDetailDTO, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	summary, err := s.toSummary(ctx, order)
	if err != nil {
		return nil, err
	}
	return &OrderDetailDTO{
		OrderSummaryDTO:  *summary,
		OwnerID:          order.UserID,
		ShippingAddress1: order.ShippingAddress1,
		ShippingAddress2: order.ShippingAddress2,
		City:             order.City,
		Zip:              order.Zip,
		Country:          order.Country,
		Phone:            order.Phone,
	}, nil
}

// GetItem 获取单个订单条目
func (s *OrderQueryService) GetItem(ctx context.Context, itemID string) (*domain.OrderItem, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get order item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// ListByUser 获取指定用户的订单历史，不做展开
func (s *OrderQueryService) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

// Count 订单总数
func (s *OrderQueryService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// TotalSales 全部订单总价之和，无订单时为 0
func (s *OrderQueryService) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.TotalSales(ctx)
}

// toSummary 展开条目的商品与分类引用，并附上归属用户姓名
// 悬空引用展开为 null，不视为错误
func (s *OrderQueryService) toSummary(ctx context.Context, order *domain.Order) (*OrderSummaryDTO, error) {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, it := range order.Items {
		dto := OrderItemDTO{ID: it.ID, Quantity: it.Quantity}
		info, err := s.products.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("expand product %s: %w", it.ProductID, err)
		}
		if info != nil {
			product := &ProductDTO{
				ID:          info.ID,
				Name:        info.Name,
				Description: info.Description,
				Price:       info.Price,
			}
			if info.CategoryID != "" {
				product.Category = &CategoryDTO{ID: info.CategoryID, Name: info.CategoryName}
			}
			dto.Product = product
		}
		items = append(items, dto)
	}

	name, err := s.users.GetUserName(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user name %s: %w", order.UserID, err)
	}
	var user *UserRefDTO
	if name != "" {
		user = &UserRefDTO{ID: order.UserID, Name: name}
	}

	return &OrderSummaryDTO{
		ID:          order.ID,
		Items:       items,
		Status:      order.Status,
		TotalPrice:  order.TotalPrice,
		User:        user,
		DateOrdered: order.CreatedAt,
	}, nil
}
