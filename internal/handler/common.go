package handler

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParamID 解析路徑上的數字 ID，失敗時已回應 400
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// handleError 把 service 錯誤對應到 HTTP 狀態碼
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var lockErr *apperrors.SeatLockError
	if errors.As(err, &lockErr) {
		log.Warn("Seats unavailable")
		c.JSON(http.StatusConflict, gin.H{
			"error":    "Seats unavailable",
			"failures": lockErr.Failures,
		})
		return
	}

	switch {
	// 400
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrTicketLimitExceeded):
		log.Warn("Ticket limit exceeded")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticket limit exceeded"})

	// 409
	case errors.Is(err, apperrors.ErrSeatTaken):
		log.Warn("Seat taken")
		c.JSON(http.StatusConflict, gin.H{"error": "Seat taken"})
	case errors.Is(err, apperrors.ErrSoldOut):
		log.Warn("Sold out")
		c.JSON(http.StatusConflict, gin.H{"error": "Sold out"})
	case errors.Is(err, apperrors.ErrDuplicatePendingBooking):
		log.Warn("Duplicate pending booking")
		c.JSON(http.StatusConflict, gin.H{"error": "Pending booking already exists"})
	case errors.Is(err, apperrors.ErrAlreadyCancelled):
		log.Warn("Already cancelled")
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already cancelled"})
	case errors.Is(err, apperrors.ErrBookingNotExpired):
		log.Warn("Booking not expired")
		c.JSON(http.StatusConflict, gin.H{"error": "Booking not expired"})

	// 403
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("Unauthorized")
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrUserBlocked):
		log.Warn("User blocked")
		c.JSON(http.StatusForbidden, gin.H{"error": "User blocked"})

	// 404
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrShowtimeNotFound):
		log.Warn("Showtime not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Showtime not found"})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		log.Warn("Booking not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, apperrors.ErrSeatNotFound):
		log.Warn("Seat not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Seat not found"})

	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
