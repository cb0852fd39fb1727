// Package messaging 提供订单事件的事务性发件箱与 Kafka 投递
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annaylee/estore-apis/internal/order/domain"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 发件箱消息状态
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
)

// OutboxMessage 发件箱消息，与业务写操作同事务落库
type OutboxMessage struct {
	ID        string `gorm:"column:id;type:varchar(36);primaryKey"`
	EventType string `gorm:"column:event_type;type:varchar(100);not null"`
	Key       string `gorm:"column:message_key;type:varchar(100);not null"`
	Payload   string `gorm:"column:payload;type:text;not null"`
	Status    string `gorm:"column:status;type:varchar(20);index;not null;default:'pending'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (OutboxMessage) TableName() string { return "order_outbox_messages" }

// OutboxPublisher 把订单事件写入发件箱表，由 Relay 异步投递到 Kafka
type OutboxPublisher struct {
	db *gorm.DB
}

// NewOutboxPublisher 创建发件箱发布器
func NewOutboxPublisher(database *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{db: database}
}

// PublishOrderPlaced 记录订单创建事件
func (p *OutboxPublisher) PublishOrderPlaced(ctx context.Context, evt *domain.OrderPlacedEvent) error {
	return p.insert(ctx, domain.EventOrderPlaced, evt.OrderID, evt)
}

// PublishOrderStatusChanged 记录订单状态变更事件
func (p *OutboxPublisher) PublishOrderStatusChanged(ctx context.Context, evt *domain.OrderStatusChangedEvent) error {
	return p.insert(ctx, domain.EventOrderStatusChanged, evt.OrderID, evt)
}

// PublishOrderDeleted 记录订单删除事件
func (p *OutboxPublisher) PublishOrderDeleted(ctx context.Context, evt *domain.OrderDeletedEvent) error {
	return p.insert(ctx, domain.EventOrderDeleted, evt.OrderID, evt)
}

// insert 序列化事件并落入发件箱；ctx 携带事务时随事务提交
func (p *OutboxPublisher) insert(ctx context.Context, eventType, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	msg := &OutboxMessage{
		ID:        uuid.New().String(),
		EventType: eventType,
		Key:       key,
		Payload:   string(data),
		Status:    OutboxStatusPending,
	}
	conn := db.FromContext(ctx, p.db).WithContext(ctx)
	if err := conn.Create(msg).Error; err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}
	return nil
}
