package worker

import (
	"context"
	"errors"
	"time"

	"go-gin-seat-reservation/internal/repository"
	"go-gin-seat-reservation/internal/service"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"
)

// BookingExpiryJob 取消超過寬限時間仍未付款的訂位
type BookingExpiryJob struct {
	bookings  repository.BookingRepository
	service   service.BookingService
	clock     clock.Clock
	interval  time.Duration
	grace     time.Duration
	batchSize int
	log       *zap.Logger
}

func NewBookingExpiryJob(
	bookings repository.BookingRepository,
	bookingService service.BookingService,
	clk clock.Clock,
	interval time.Duration,
	grace time.Duration,
	batchSize int,
) *BookingExpiryJob {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &BookingExpiryJob{
		bookings:  bookings,
		service:   bookingService,
		clock:     clk,
		interval:  interval,
		grace:     grace,
		batchSize: batchSize,
		log:       logger.WithComponent("scheduler").With(zap.String("job", "booking-expiry")),
	}
}

func (j *BookingExpiryJob) Name() string            { return "booking-expiry" }
func (j *BookingExpiryJob) Interval() time.Duration { return j.interval }

func (j *BookingExpiryJob) Run(ctx context.Context) error {
	_, err := j.RunOnce(ctx)
	return err
}

// RunOnce 單筆失敗只記錄，留到下一輪重試；回傳成功取消的筆數
func (j *BookingExpiryJob) RunOnce(ctx context.Context) (int, error) {
	cutoff := j.clock.Now().UTC().Add(-j.grace)

	expired, err := j.bookings.ListExpiredPending(ctx, cutoff, j.batchSize)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, b := range expired {
		if err := ctx.Err(); err != nil {
			return cancelled, err
		}

		_, err := j.service.ExpireBooking(ctx, b.ID, cutoff)
		switch {
		case err == nil:
			cancelled++
		case errors.Is(err, apperrors.ErrBookingNotExpired), errors.Is(err, apperrors.ErrAlreadyCancelled):
			j.log.Debug("booking changed before expiry", zap.Int("booking_id", b.ID), zap.Error(err))
		default:
			j.log.Error("failed to expire booking", zap.Int("booking_id", b.ID), zap.Error(err))
		}
	}

	if cancelled > 0 {
		j.log.Info("expired bookings cancelled", zap.Int("count", cancelled), zap.Time("cutoff", cutoff))
	}
	return cancelled, nil
}
