package model

import "time"

type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking.created"
	NotificationBookingConfirmed NotificationType = "booking.confirmed"
	NotificationBookingCancelled NotificationType = "booking.cancelled"
)

// BookingNotification 訂位狀態變更後送出的通知內容
type BookingNotification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	BookingID   int              `json:"booking_id"`
	UserID      int              `json:"user_id"`
	EventID     int              `json:"event_id"`
	ShowtimeID  *int             `json:"showtime_id,omitempty"`
	TicketCount int              `json:"ticket_count"`
	SeatLabels  []string         `json:"seat_labels"`
	TotalPrice  float64          `json:"total_price"`
	Status      BookingStatus    `json:"status"`
	OccurredAt  time.Time        `json:"occurred_at"`
}
