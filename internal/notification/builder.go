package notification

import (
	"go-gin-seat-reservation/internal/model"
	"time"

	"github.com/google/uuid"
)

// NewBookingNotification 依訂位目前狀態組出通知
func NewBookingNotification(t model.NotificationType, b *model.Booking, occurredAt time.Time) *model.BookingNotification {
	labels := make([]string, len(b.SeatLabels))
	copy(labels, b.SeatLabels)

	return &model.BookingNotification{
		ID:          uuid.New().String(),
		Type:        t,
		BookingID:   b.ID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		ShowtimeID:  b.ShowtimeID,
		TicketCount: b.TicketCount,
		SeatLabels:  labels,
		TotalPrice:  b.TotalPrice,
		Status:      b.Status,
		OccurredAt:  occurredAt,
	}
}
