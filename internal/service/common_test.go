package service_test

import (
	"context"
	"sync"

	"go-gin-seat-reservation/internal/model"
)

// recordingSender 記錄送出的通知，err 不為 nil 時模擬投遞失敗
type recordingSender struct {
	mu   sync.Mutex
	sent []*model.BookingNotification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n *model.BookingNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *recordingSender) types() []model.NotificationType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.NotificationType, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.Type)
	}
	return out
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
