package model

import "time"

// BookingStatus 訂位狀態類型
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// IsValid 驗證狀態是否有效
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
		BookingStatusConfirmed: {BookingStatusCancelled},
		BookingStatusCancelled: {}, // 不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Booking 訂位模型
type Booking struct {
	ID          int           `json:"id" db:"id"`
	UserID      int           `json:"user_id" db:"user_id"`
	EventID     int           `json:"event_id" db:"event_id"`
	ShowtimeID  *int          `json:"showtime_id,omitempty" db:"showtime_id"`
	TicketCount int           `json:"ticket_count" db:"ticket_count"`
	SeatLabels  []string      `json:"seat_labels" db:"seat_labels"`
	TotalPrice  float64       `json:"total_price" db:"total_price"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// CapacityMode 決定訂位佔用的是座位還是活動的一般入場容量
type CapacityMode interface {
	isCapacityMode()
}

// Seated 劃位：容量由場次的座位控制
type Seated struct {
	ShowtimeID int
}

// GeneralAdmission 一般入場：容量由活動的計數器控制
type GeneralAdmission struct {
	EventID int
}

func (Seated) isCapacityMode()           {}
func (GeneralAdmission) isCapacityMode() {}

// CapacityMode 有場次的訂位一律為劃位
func (b *Booking) CapacityMode() CapacityMode {
	if b.ShowtimeID != nil {
		return Seated{ShowtimeID: *b.ShowtimeID}
	}
	return GeneralAdmission{EventID: b.EventID}
}

func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// CreateBookingRequest 建立訂位請求，使用者身分由呼叫端另外傳入
type CreateBookingRequest struct {
	EventID     int      `json:"event_id" binding:"required"`
	ShowtimeID  *int     `json:"showtime_id"`
	TicketCount *int     `json:"ticket_count"`
	SeatLabels  []string `json:"seat_labels"`
	TotalPrice  *float64 `json:"total_price"`
}

// Actor 執行操作的身分。Privileged 為排程或管理員，可略過擁有者檢查
type Actor struct {
	UserID     int
	Privileged bool
}

var SystemActor = Actor{Privileged: true}

func UserActor(userID int) Actor {
	return Actor{UserID: userID}
}

// CanAccess 是否可以操作該筆訂位
func (a Actor) CanAccess(b *Booking) bool {
	return a.Privileged || a.UserID == b.UserID
}
