package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// validation
	ErrInvalidInput        = errors.New("invalid input")
	ErrTicketLimitExceeded = errors.New("ticket limit exceeded")

	// conflict
	ErrSeatTaken               = errors.New("seat already taken")
	ErrSoldOut                 = errors.New("sold out")
	ErrDuplicatePendingBooking = errors.New("user already has a pending booking")
	ErrAlreadyCancelled        = errors.New("booking already cancelled")
	ErrBookingNotExpired       = errors.New("booking is no longer eligible for expiry")

	// authorization
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserBlocked  = errors.New("user is blocked")

	// not found
	ErrUserNotFound     = errors.New("user not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSeatNotFound     = errors.New("seat not found")

	ErrInternalServerError = errors.New("internal server error")
)

// SeatFailureReason 鎖位失敗原因
type SeatFailureReason string

const (
	SeatFailureNotFound SeatFailureReason = "SEAT_NOT_FOUND"
	SeatFailureTaken    SeatFailureReason = "SEAT_TAKEN"
)

type SeatFailure struct {
	Label  string            `json:"label"`
	Reason SeatFailureReason `json:"reason"`
}

// SeatLockError 列出每個無法鎖定的座位，整批請求不會部分成功
type SeatLockError struct {
	Failures []SeatFailure
}

func (e *SeatLockError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Label, f.Reason))
	}
	return "seat lock failed (" + strings.Join(parts, ", ") + ")"
}

// Is 讓 errors.Is(err, ErrSeatTaken) / errors.Is(err, ErrSeatNotFound) 可以直接判斷
func (e *SeatLockError) Is(target error) bool {
	for _, f := range e.Failures {
		switch {
		case target == ErrSeatTaken && f.Reason == SeatFailureTaken:
			return true
		case target == ErrSeatNotFound && f.Reason == SeatFailureNotFound:
			return true
		}
	}
	return false
}
