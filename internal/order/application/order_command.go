// Package application 实现订单服务的应用层
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annaylee/estore-apis/internal/order/domain"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 订单不存在
	ErrNotFound = errors.New("order not found")
	// ErrItemNotFound 订单条目不存在
	ErrItemNotFound = errors.New("order item not found")
	// ErrNoItems 订单不含任何条目
	ErrNoItems = errors.New("order must contain at least one item")
	// ErrInvalidQuantity 条目数量非正
	ErrInvalidQuantity = errors.New("order item quantity must be positive")
	// ErrProductNotFound 条目引用的商品不存在
	ErrProductNotFound = errors.New("referenced product not found")
	// ErrInvalidStatus 状态取值为空
	ErrInvalidStatus = errors.New("order status must not be empty")
	// ErrMissingFields 必填字段缺失
	ErrMissingFields = errors.New("missing required order fields")
)

// OrderItemInput 下单条目输入
type OrderItemInput struct {
	Quantity  int
	ProductID string
}

// PlaceOrderCommand 下单命令
// 总价由服务端按商品当前价格计算，调用方传入的总价一律忽略
type PlaceOrderCommand struct {
	Items            []OrderItemInput
	ShippingAddress1 string
	ShippingAddress2 string
	City             string
	Zip              string
	Country          string
	Phone            string
	Status           string
	UserID           string
}

// OrderCommandService 处理订单写操作
type OrderCommandService struct {
	repo      domain.OrderRepository
	products  domain.ProductReader
	database  *db.DB
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewOrderCommandService 创建订单命令服务
// publisher 与 m 可为 nil，表示不发事件、不记指标
func NewOrderCommandService(repo domain.OrderRepository, products domain.ProductReader, database *db.DB, publisher domain.EventPublisher, m *metrics.Metrics) *OrderCommandService {
	return &OrderCommandService{repo: repo, products: products, database: database, publisher: publisher, metrics: m}
}

// PlaceOrder 下单
// 按条目顺序并发取商品价格快照，汇总得到总价，订单与全部条目在同一事务内落库；
// 任一商品不存在则整单失败
func (s *OrderCommandService) PlaceOrder(ctx context.Context, cmd *PlaceOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, ErrNoItems
	}
	if cmd.ShippingAddress1 == "" || cmd.UserID == "" {
		return nil, ErrMissingFields
	}
	for _, it := range cmd.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	// 并发拉取商品快照，结果按输入下标落位，保持条目顺序
	snapshots := make([]*domain.ProductInfo, len(cmd.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range cmd.Items {
		i, it := i, it
		g.Go(func() error {
			info, err := s.products.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("get product %s: %w", it.ProductID, err)
			}
			if info == nil {
				return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
			}
			snapshots[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(cmd.Items))
	orderID := uuid.New().String()
	for i, it := range cmd.Items {
		total = total.Add(snapshots[i].Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		items = append(items, domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Quantity:  it.Quantity,
			ProductID: it.ProductID,
			Position:  i,
		})
	}

	status := cmd.Status
	if status == "" {
		status = domain.StatusPending
	}

	order := &domain.Order{
		ID:               orderID,
		Items:            items,
		ShippingAddress1: cmd.ShippingAddress1,
		ShippingAddress2: cmd.ShippingAddress2,
		City:             cmd.City,
		Zip:              cmd.Zip,
		Country:          cmd.Country,
		Phone:            cmd.Phone,
		Status:           status,
		TotalPrice:       total,
		UserID:           cmd.UserID,
	}

	err := s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if s.publisher != nil {
			evt := &domain.OrderPlacedEvent{
				OrderID:    order.ID,
				UserID:     order.UserID,
				TotalPrice: order.TotalPrice.String(),
				ItemCount:  len(order.Items),
				Status:     order.Status,
				OccurredAt: time.Now(),
			}
			if err := s.publisher.PublishOrderPlaced(txCtx, evt); err != nil {
				return fmt.Errorf("publish order placed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
		s.metrics.RevenueTotal.Add(total.InexactFloat64())
	}
	logger.Info(ctx, "order placed", "order_id", order.ID, "user_id", order.UserID, "total_price", total.String())
	return order, nil
}

// UpdateStatus 更新订单状态，仅触碰 status 字段
func (s *OrderCommandService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if status == "" {
		return nil, ErrInvalidStatus
	}
	var updated *domain.Order
	err := s.inTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.Get(txCtx, id)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if order == nil {
			return ErrNotFound
		}
		oldStatus := order.Status
		if err := s.repo.UpdateStatus(txCtx, id, status); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		order.Status = status
		if s.publisher != nil {
			evt := &domain.OrderStatusChangedEvent{
				OrderID:    id,
				OldStatus:  oldStatus,
				NewStatus:  status,
				OccurredAt: time.Now(),
			}
			if err := s.publisher.PublishOrderStatusChanged(txCtx, evt); err != nil {
				return fmt.Errorf("publish status changed: %w", err)
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "order status updated", "order_id", id, "status", status)
	return updated, nil
}

// Delete 删除订单并在同一事务内级联删除其全部条目
func (s *OrderCommandService) Delete(ctx context.Context, id string) (*domain.Order, error) {
	var deleted *domain.Order
	err := s.inTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.Get(txCtx, id)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if order == nil {
			return ErrNotFound
		}
		found, err := s.repo.Delete(txCtx, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if s.publisher != nil {
			evt := &domain.OrderDeletedEvent{
				OrderID:    id,
				UserID:     order.UserID,
				OccurredAt: time.Now(),
			}
			if err := s.publisher.PublishOrderDeleted(txCtx, evt); err != nil {
				return fmt.Errorf("publish order deleted: %w", err)
			}
		}
		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrdersDeletedTotal.Inc()
	}
	logger.Info(ctx, "order deleted", "order_id", id)
	return deleted, nil
}

// inTx 在数据库事务内执行 fn；测试场景下 database 可为 nil，直接透传 ctx
func (s *OrderCommandService) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.database == nil {
		return fn(ctx)
	}
	return s.database.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(db.ContextWithTx(ctx, tx))
	})
}
