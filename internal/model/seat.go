package model

import (
	"fmt"
	"time"
)

type SeatState string

const (
	SeatStateAvailable SeatState = "AVAILABLE"
	SeatStateLocked    SeatState = "LOCKED"
	SeatStateBooked    SeatState = "BOOKED"
)

func (s SeatState) IsValid() bool {
	switch s {
	case SeatStateAvailable, SeatStateLocked, SeatStateBooked:
		return true
	}
	return false
}

// Seat 場次中的單一座位。LockedBy 與 LockExpiresAt 只在 LOCKED 時有值
type Seat struct {
	ID            int        `json:"id" db:"id"`
	ShowtimeID    int        `json:"showtime_id" db:"showtime_id"`
	Label         string     `json:"label" db:"label"`
	State         SeatState  `json:"state" db:"state"`
	LockedBy      *int       `json:"locked_by,omitempty" db:"locked_by"`
	LockExpiresAt *time.Time `json:"lock_expires_at,omitempty" db:"lock_expires_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLockedBy 座位是否由指定使用者鎖定
func (s *Seat) IsLockedBy(userID int) bool {
	return s.State == SeatStateLocked && s.LockedBy != nil && *s.LockedBy == userID
}

// MaxSeatRows 排號使用單一英文字母 A-Z
const MaxSeatRows = 26

// SeatLabel 產生座位編號，例如 row=1, col=12 -> "A12"
func SeatLabel(row, col int) string {
	return fmt.Sprintf("%c%d", rune('A'+row-1), col)
}

// SeatLabels 依排數與列數產生整個場次的座位編號
func SeatLabels(rows, cols int) []string {
	labels := make([]string, 0, rows*cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			labels = append(labels, SeatLabel(r, c))
		}
	}
	return labels
}

// LockSeatsRequest 鎖位請求，HolderID 由呼叫端依登入身分帶入
type LockSeatsRequest struct {
	ShowtimeID int
	HolderID   int
	SeatLabels []string
}

type LockResult struct {
	ShowtimeID int       `json:"showtime_id"`
	HolderID   int       `json:"holder_id"`
	SeatLabels []string  `json:"seat_labels"`
	ExpiresAt  time.Time `json:"expires_at"`
}
