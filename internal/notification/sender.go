package notification

import (
	"context"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/queue"
	"go-gin-seat-reservation/pkg/logger"

	"go.uber.org/zap"
)

// Sender 訂位通知的投遞介面
type Sender interface {
	Send(ctx context.Context, n *model.BookingNotification) error
}

// NopSender 丟棄所有通知
type NopSender struct{}

func (NopSender) Send(context.Context, *model.BookingNotification) error { return nil }

// LogSender 只記錄 log，開發環境使用
type LogSender struct {
	log *zap.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.WithComponent("notification")}
}

func (s *LogSender) Send(ctx context.Context, n *model.BookingNotification) error {
	s.log.Info("booking notification",
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.Int("booking_id", n.BookingID),
		zap.Int("user_id", n.UserID),
		zap.String("status", string(n.Status)),
		zap.Strings("seat_labels", n.SeatLabels),
	)
	return nil
}

// QueueSender 將通知寫入隊列，由 NotificationWorker 非同步投遞
type QueueSender struct {
	queue queue.NotificationQueue
}

func NewQueueSender(q queue.NotificationQueue) *QueueSender {
	return &QueueSender{queue: q}
}

func (s *QueueSender) Send(ctx context.Context, n *model.BookingNotification) error {
	return s.queue.Publish(ctx, n)
}
