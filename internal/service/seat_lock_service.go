package service

import (
	"context"
	"fmt"
	"time"

	"go-gin-seat-reservation/internal/cache"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/repository"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DefaultSeatLockTTL 鎖位保留時間
const DefaultSeatLockTTL = 10 * time.Minute

type SeatLockService interface {
	// LockSeats 全部座位都可用才會鎖定，否則回傳 *apperrors.SeatLockError
	LockSeats(ctx context.Context, req model.LockSeatsRequest) (*model.LockResult, error)
	SeatMap(ctx context.Context, showtimeID int) ([]*model.Seat, error)
	OccupiedSeatsByShowtime(ctx context.Context, showtimeID int) ([]string, error)
	OccupiedSeatsByEvent(ctx context.Context, eventID uuid.UUID) ([]string, error)
}

type SeatLockServiceImpl struct {
	tx         repository.Transactor
	seats      repository.SeatRepository
	showtimes  repository.ShowtimeRepository
	events     repository.EventRepository
	bookings   repository.BookingRepository
	seatCache  cache.SeatMapCache
	clock      clock.Clock
	lockTTL    time.Duration
	maxTickets int
	log        *zap.Logger
}

type SeatLockServiceConfig struct {
	LockTTL    time.Duration
	MaxTickets int
}

func NewSeatLockService(
	tx repository.Transactor,
	seats repository.SeatRepository,
	showtimes repository.ShowtimeRepository,
	events repository.EventRepository,
	bookings repository.BookingRepository,
	seatCache cache.SeatMapCache,
	clk clock.Clock,
	cfg SeatLockServiceConfig,
) SeatLockService {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultSeatLockTTL
	}
	if cfg.MaxTickets <= 0 {
		cfg.MaxTickets = DefaultMaxTicketsPerBooking
	}
	return &SeatLockServiceImpl{
		tx:         tx,
		seats:      seats,
		showtimes:  showtimes,
		events:     events,
		bookings:   bookings,
		seatCache:  seatCache,
		clock:      clk,
		lockTTL:    cfg.LockTTL,
		maxTickets: cfg.MaxTickets,
		log:        logger.WithComponent("service"),
	}
}

func (s *SeatLockServiceImpl) LockSeats(ctx context.Context, req model.LockSeatsRequest) (*model.LockResult, error) {
	if req.HolderID <= 0 {
		return nil, fmt.Errorf("holder id required: %w", apperrors.ErrInvalidInput)
	}
	labels, err := normalizeLabels(req.SeatLabels)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no seats requested: %w", apperrors.ErrInvalidInput)
	}
	if len(labels) > s.maxTickets {
		return nil, fmt.Errorf("%d seats requested, at most %d allowed: %w", len(labels), s.maxTickets, apperrors.ErrTicketLimitExceeded)
	}

	now := s.clock.Now().UTC()
	expiresAt := now.Add(s.lockTTL)

	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.showtimes.FindByIDTx(ctx, tx, req.ShowtimeID); err != nil {
			return err
		}

		// 1. 依編號順序鎖住座位資料列
		seats, err := s.seats.FindByLabelsWithLock(ctx, tx, req.ShowtimeID, labels)
		if err != nil {
			return err
		}

		// 2. 逐一檢查，任何一個不可用整批失敗
		byLabel := make(map[string]*model.Seat, len(seats))
		for _, seat := range seats {
			byLabel[seat.Label] = seat
		}
		var failures []apperrors.SeatFailure
		ids := make([]int, 0, len(labels))
		for _, label := range labels {
			seat, ok := byLabel[label]
			switch {
			case !ok:
				failures = append(failures, apperrors.SeatFailure{Label: label, Reason: apperrors.SeatFailureNotFound})
			case seat.State != model.SeatStateAvailable:
				failures = append(failures, apperrors.SeatFailure{Label: label, Reason: apperrors.SeatFailureTaken})
			default:
				ids = append(ids, seat.ID)
			}
		}
		if len(failures) > 0 {
			return &apperrors.SeatLockError{Failures: failures}
		}

		// 3. AVAILABLE -> LOCKED
		return s.seats.Lock(ctx, tx, ids, req.HolderID, expiresAt, now)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.ShowtimeID)

	s.log.Info("seats locked",
		zap.Int("showtime_id", req.ShowtimeID),
		zap.Int("holder_id", req.HolderID),
		zap.Strings("seat_labels", labels),
		zap.Time("expires_at", expiresAt),
	)

	return &model.LockResult{
		ShowtimeID: req.ShowtimeID,
		HolderID:   req.HolderID,
		SeatLabels: labels,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *SeatLockServiceImpl) SeatMap(ctx context.Context, showtimeID int) ([]*model.Seat, error) {
	seats, ok, err := s.seatCache.Get(ctx, showtimeID)
	if err != nil {
		s.log.Warn("seat map cache read failed", zap.Int("showtime_id", showtimeID), zap.Error(err))
	}
	if ok {
		return seats, nil
	}

	if _, err := s.showtimes.FindByID(ctx, showtimeID); err != nil {
		return nil, err
	}

	seats, err = s.seats.ListByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	if err := s.seatCache.Set(ctx, showtimeID, seats); err != nil {
		s.log.Warn("seat map cache write failed", zap.Int("showtime_id", showtimeID), zap.Error(err))
	}
	return seats, nil
}

func (s *SeatLockServiceImpl) OccupiedSeatsByShowtime(ctx context.Context, showtimeID int) ([]string, error) {
	if _, err := s.showtimes.FindByID(ctx, showtimeID); err != nil {
		return nil, err
	}
	return s.bookings.OccupiedLabelsByShowtime(ctx, showtimeID)
}

func (s *SeatLockServiceImpl) OccupiedSeatsByEvent(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	event, err := s.events.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.bookings.OccupiedLabelsByEvent(ctx, event.ID)
}

func (s *SeatLockServiceImpl) invalidate(ctx context.Context, showtimeIDs ...int) {
	if err := s.seatCache.Invalidate(ctx, showtimeIDs...); err != nil {
		s.log.Warn("seat map cache invalidate failed", zap.Ints("showtime_ids", showtimeIDs), zap.Error(err))
	}
}
