package model

import (
	"time"

	"github.com/google/uuid"
)

// Event 活動模型。非劃位活動的容量直接記在活動上 (TotalCapacity / AvailableCount)
type Event struct {
	ID             int       `json:"id" db:"id"`
	EventID        uuid.UUID `json:"event_id" db:"event_id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	Price          float64   `json:"price" db:"price"`
	Seated         bool      `json:"seated" db:"seated"`
	TotalCapacity  int       `json:"total_capacity" db:"total_capacity"`
	AvailableCount int       `json:"available_count" db:"available_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// SoldCount 已售出（含待付款）的一般入場票數
func (e *Event) SoldCount() int {
	return e.TotalCapacity - e.AvailableCount
}

type CreateEventParams struct {
	Name          string
	Description   *string
	Price         float64
	Seated        bool
	TotalCapacity int
}
