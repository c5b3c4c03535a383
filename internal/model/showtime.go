package model

import "time"

// Showtime 劃位活動的場次，建立時一併產生 SeatRows x SeatCols 的座位
type Showtime struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	SeatRows  int       `json:"seat_rows" db:"seat_rows"`
	SeatCols  int       `json:"seat_cols" db:"seat_cols"`
	Price     *float64  `json:"price,omitempty" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UnitPrice 場次有自訂票價時優先使用
func (s *Showtime) UnitPrice(event *Event) float64 {
	if s.Price != nil {
		return *s.Price
	}
	return event.Price
}

type CreateShowtimeParams struct {
	StartsAt time.Time
	SeatRows int
	SeatCols int
	Price    *float64
}
