package queue

import (
	"context"
	"go-gin-seat-reservation/internal/model"
)

type Delivery struct {
	Data *model.BookingNotification
	Ack  func()
	Nack func(requeue bool)
}

type NotificationQueue interface {
	// 發送通知到隊列
	Publish(ctx context.Context, n *model.BookingNotification) error
	// 訂閱通知隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

type MemoryNotificationQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.BookingNotification
}

func NewMemoryNotificationQueue(bufferSize int) NotificationQueue {
	return &MemoryNotificationQueueImpl{
		ch: make(chan *model.BookingNotification, bufferSize),
	}
}

func (q *MemoryNotificationQueueImpl) Publish(ctx context.Context, n *model.BookingNotification) error {
	select {
	case q.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryNotificationQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: n,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							// 簡單模擬重回隊列，隊列已滿時丟棄
							select {
							case q.ch <- n:
							default:
							}
						}
					},
				}

				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
