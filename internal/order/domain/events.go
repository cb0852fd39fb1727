package domain

import (
	"context"
	"time"
)

// 订单领域事件类型
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderPlacedEvent 订单创建事件
type OrderPlacedEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	TotalPrice string    `json:"totalPrice"`
	ItemCount  int       `json:"itemCount"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID    string    `json:"orderId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
	OccurredAt time.Time `json:"occurredAt"`
}

// OrderDeletedEvent 订单删除事件
type OrderDeletedEvent struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher 订单事件发布端口
// 实现方须与业务写操作共用同一事务（通过 ctx 传递）
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt *OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, evt *OrderStatusChangedEvent) error
	PublishOrderDeleted(ctx context.Context, evt *OrderDeletedEvent) error
}
