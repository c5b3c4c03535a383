package worker

import (
	"context"
	"time"

	"go-gin-seat-reservation/internal/cache"
	"go-gin-seat-reservation/internal/repository"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"
)

// SeatUnlockJob 把過期的鎖位放回 AVAILABLE
type SeatUnlockJob struct {
	seats     repository.SeatRepository
	seatCache cache.SeatMapCache
	clock     clock.Clock
	interval  time.Duration
	batchSize int
	log       *zap.Logger
}

func NewSeatUnlockJob(
	seats repository.SeatRepository,
	seatCache cache.SeatMapCache,
	clk clock.Clock,
	interval time.Duration,
	batchSize int,
) *SeatUnlockJob {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &SeatUnlockJob{
		seats:     seats,
		seatCache: seatCache,
		clock:     clk,
		interval:  interval,
		batchSize: batchSize,
		log:       logger.WithComponent("scheduler").With(zap.String("job", "seat-unlock")),
	}
}

func (j *SeatUnlockJob) Name() string            { return "seat-unlock" }
func (j *SeatUnlockJob) Interval() time.Duration { return j.interval }

func (j *SeatUnlockJob) Run(ctx context.Context) error {
	_, err := j.RunOnce(ctx)
	return err
}

// RunOnce 分批釋放直到沒有過期鎖位，回傳釋放的座位數
func (j *SeatUnlockJob) RunOnce(ctx context.Context) (int, error) {
	now := j.clock.Now().UTC()
	total := 0
	touched := make(map[int]struct{})

	defer func() {
		if len(touched) == 0 {
			return
		}
		ids := make([]int, 0, len(touched))
		for id := range touched {
			ids = append(ids, id)
		}
		if err := j.seatCache.Invalidate(ctx, ids...); err != nil {
			j.log.Warn("seat map cache invalidate failed", zap.Ints("showtime_ids", ids), zap.Error(err))
		}
	}()

	for {
		released, err := j.seats.ReleaseExpiredLocks(ctx, now, j.batchSize)
		if err != nil {
			return total, err
		}
		for _, seat := range released {
			touched[seat.ShowtimeID] = struct{}{}
		}
		total += len(released)
		if len(released) < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.log.Info("expired seat locks released", zap.Int("count", total))
	}
	return total, nil
}
