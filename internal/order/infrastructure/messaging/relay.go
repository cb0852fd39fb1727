package messaging

import (
	"context"
	"time"

	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/mq"
	"gorm.io/gorm"
)

// relayBatchSize 每轮投递的最大消息数
const relayBatchSize = 100

// OutboxRelay 轮询发件箱并把待投递消息发往 Kafka
type OutboxRelay struct {
	db       *gorm.DB
	producer *mq.KafkaProducer
	topic    string
	interval time.Duration
}

// NewOutboxRelay 创建发件箱投递器
func NewOutboxRelay(database *gorm.DB, producer *mq.KafkaProducer, topic string, interval time.Duration) *OutboxRelay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &OutboxRelay{db: database, producer: producer, topic: topic, interval: interval}
}

// Start 启动轮询循环，阻塞直到 ctx 取消
func (r *OutboxRelay) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	logger.Info(ctx, "outbox relay started", "topic", r.topic, "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.relayOnce(ctx); err != nil {
				logger.Error(ctx, "outbox relay round failed", "error", err)
			}
		}
	}
}

// relayOnce 投递一批待发消息；单条失败只记日志，留待下轮重试
func (r *OutboxRelay) relayOnce(ctx context.Context) error {
	var messages []OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", OutboxStatusPending).
		Order("created_at ASC").
		Limit(relayBatchSize).
		Find(&messages).Error
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if err := r.producer.SendRaw(ctx, r.topic, msg.Key, []byte(msg.Payload)); err != nil {
			logger.Error(ctx, "send outbox message failed", "message_id", msg.ID, "event_type", msg.EventType, "error", err)
			continue
		}
		err := r.db.WithContext(ctx).
			Model(&OutboxMessage{}).
			Where("id = ?", msg.ID).
			Update("status", OutboxStatusSent).Error
		if err != nil {
			logger.Error(ctx, "mark outbox message sent failed", "message_id", msg.ID, "error", err)
		}
	}
	return nil
}
