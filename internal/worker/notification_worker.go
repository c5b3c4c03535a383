package worker

import (
	"context"
	"go-gin-seat-reservation/internal/notification"
	"go-gin-seat-reservation/internal/queue"
	"go-gin-seat-reservation/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// 訂閱通知隊列，在背景投遞直到 ctx 結束
	Start(ctx context.Context) error
	// Done 在隊列關閉、背景迴圈結束後關閉
	Done() <-chan struct{}
}

type NotificationWorkerImpl struct {
	sender notification.Sender
	queue  queue.NotificationQueue
	done   chan struct{}
	log    *zap.Logger
}

func NewNotificationWorker(sender notification.Sender, queue queue.NotificationQueue) NotificationWorker {
	return &NotificationWorkerImpl{
		sender: sender,
		queue:  queue,
		done:   make(chan struct{}),
		log:    logger.WithComponent("mq"),
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			if err := w.sender.Send(ctx, msg.Data); err != nil {
				// 下游暫時無法投遞，交回隊列稍後重試
				w.log.Warn("notification delivery failed, requeue",
					zap.String("notification_id", msg.Data.ID),
					zap.Int("booking_id", msg.Data.BookingID),
					zap.Error(err),
				)
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (w *NotificationWorkerImpl) Done() <-chan struct{} {
	return w.done
}
