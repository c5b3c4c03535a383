package service

import (
	"context"
	"fmt"
	"time"

	"go-gin-seat-reservation/internal/cache"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/notification"
	"go-gin-seat-reservation/internal/repository"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingService interface {
	// 建立訂位：檢查並扣除座位或一般入場容量，成功後為 PENDING
	CreateBooking(ctx context.Context, userID int, req model.CreateBookingRequest) (*model.Booking, error)
	// 取消訂位並在同一交易內歸還容量
	CancelBooking(ctx context.Context, bookingID int, actor model.Actor) (*model.Booking, error)
	// 逾時未付款的取消，只處理仍為 PENDING 且建立時間早於 cutoff 的訂位
	ExpireBooking(ctx context.Context, bookingID int, cutoff time.Time) (*model.Booking, error)
	// 付款成功：PENDING -> CONFIRMED，其他狀態原樣回傳
	ConfirmBooking(ctx context.Context, bookingID int) (*model.Booking, error)
	GetBooking(ctx context.Context, bookingID int, actor model.Actor) (*model.Booking, error)
	ListUserBookings(ctx context.Context, userID int) ([]*model.Booking, error)
}

type BookingServiceConfig struct {
	MaxTickets    int
	NotifyTimeout time.Duration
}

type BookingServiceImpl struct {
	tx            repository.Transactor
	users         repository.UserRepository
	events        repository.EventRepository
	showtimes     repository.ShowtimeRepository
	seats         repository.SeatRepository
	bookings      repository.BookingRepository
	seatCache     cache.SeatMapCache
	sender        notification.Sender
	clock         clock.Clock
	maxTickets    int
	notifyTimeout time.Duration
	log           *zap.Logger
}

func NewBookingService(
	tx repository.Transactor,
	users repository.UserRepository,
	events repository.EventRepository,
	showtimes repository.ShowtimeRepository,
	seats repository.SeatRepository,
	bookings repository.BookingRepository,
	seatCache cache.SeatMapCache,
	sender notification.Sender,
	clk clock.Clock,
	cfg BookingServiceConfig,
) BookingService {
	if cfg.MaxTickets <= 0 {
		cfg.MaxTickets = DefaultMaxTicketsPerBooking
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	return &BookingServiceImpl{
		tx:            tx,
		users:         users,
		events:        events,
		showtimes:     showtimes,
		seats:         seats,
		bookings:      bookings,
		seatCache:     seatCache,
		sender:        sender,
		clock:         clk,
		maxTickets:    cfg.MaxTickets,
		notifyTimeout: cfg.NotifyTimeout,
		log:           logger.WithComponent("service"),
	}
}

func (s *BookingServiceImpl) CreateBooking(ctx context.Context, userID int, req model.CreateBookingRequest) (*model.Booking, error) {
	labels, err := normalizeLabels(req.SeatLabels)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	var created *model.Booking

	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		// 1. 鎖住使用者，同一使用者的訂位請求在此排隊
		user, err := s.users.FindByIDWithLock(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.Blocked {
			return apperrors.ErrUserBlocked
		}

		// 2. 每位使用者最多一筆未付款訂位
		pending, err := s.bookings.CountByUserAndStatus(ctx, tx, userID, model.BookingStatusPending)
		if err != nil {
			return err
		}
		if pending > 0 {
			return apperrors.ErrDuplicatePendingBooking
		}

		booking := &model.Booking{
			UserID:     userID,
			EventID:    req.EventID,
			ShowtimeID: req.ShowtimeID,
			Status:     model.BookingStatusPending,
			CreatedAt:  now,
		}

		// 3. 依容量模式扣除座位或一般入場名額
		switch mode := booking.CapacityMode().(type) {
		case model.Seated:
			err = s.reserveSeats(ctx, tx, booking, mode, req, labels, now)
		case model.GeneralAdmission:
			err = s.reserveGeneralAdmission(ctx, tx, booking, mode, req, labels, now)
		default:
			err = fmt.Errorf("unsupported capacity mode %T", mode)
		}
		if err != nil {
			return err
		}

		// 4. 寫入 PENDING 訂位
		created, err = s.bookings.Create(ctx, tx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created.ShowtimeID != nil {
		s.invalidate(ctx, *created.ShowtimeID)
	}

	s.log.Info("booking created",
		zap.Int("booking_id", created.ID),
		zap.Int("user_id", created.UserID),
		zap.Int("event_id", created.EventID),
		zap.Int("ticket_count", created.TicketCount),
	)

	// 通知失敗不影響訂位結果
	s.notify(ctx, model.NotificationBookingCreated, created)

	return created, nil
}

func (s *BookingServiceImpl) reserveSeats(
	ctx context.Context,
	tx pgx.Tx,
	booking *model.Booking,
	mode model.Seated,
	req model.CreateBookingRequest,
	labels []string,
	now time.Time,
) error {
	event, err := s.events.FindByIDTx(ctx, tx, booking.EventID)
	if err != nil {
		return err
	}
	showtime, err := s.showtimes.FindByIDTx(ctx, tx, mode.ShowtimeID)
	if err != nil {
		return err
	}
	if showtime.EventID != event.ID {
		return apperrors.ErrShowtimeNotFound
	}
	if len(labels) == 0 {
		return fmt.Errorf("seat labels required for showtime booking: %w", apperrors.ErrInvalidInput)
	}

	unitPrice := showtime.UnitPrice(event)
	count, err := resolveTicketCount(req, labels, unitPrice, s.maxTickets)
	if err != nil {
		return err
	}

	seats, err := s.seats.FindByLabelsWithLock(ctx, tx, showtime.ID, labels)
	if err != nil {
		return err
	}
	if len(seats) != len(labels) {
		return apperrors.ErrSeatNotFound
	}

	// 座位必須可用，或是由本人鎖定
	ids := make([]int, 0, len(seats))
	for _, seat := range seats {
		if seat.State != model.SeatStateAvailable && !seat.IsLockedBy(booking.UserID) {
			return fmt.Errorf("seat %s is %s: %w", seat.Label, seat.State, apperrors.ErrSeatTaken)
		}
		ids = append(ids, seat.ID)
	}

	if err := s.seats.MarkBooked(ctx, tx, ids, booking.UserID, now); err != nil {
		return err
	}

	booking.TicketCount = count
	booking.SeatLabels = labels
	booking.TotalPrice = resolveTotalPrice(req, unitPrice, count)
	return nil
}

func (s *BookingServiceImpl) reserveGeneralAdmission(
	ctx context.Context,
	tx pgx.Tx,
	booking *model.Booking,
	mode model.GeneralAdmission,
	req model.CreateBookingRequest,
	labels []string,
	now time.Time,
) error {
	event, err := s.events.FindByIDWithLock(ctx, tx, mode.EventID)
	if err != nil {
		return err
	}
	if event.Seated {
		return fmt.Errorf("showtime required for seated event: %w", apperrors.ErrInvalidInput)
	}

	count, err := resolveTicketCount(req, labels, event.Price, s.maxTickets)
	if err != nil {
		return err
	}
	if event.AvailableCount < count {
		return apperrors.ErrSoldOut
	}

	first, err := s.events.ReserveGeneralAdmission(ctx, tx, event.ID, count, now)
	if err != nil {
		return err
	}

	if len(labels) == 0 {
		labels = placeholderLabels(first, count)
	}

	booking.TicketCount = count
	booking.SeatLabels = labels
	booking.TotalPrice = resolveTotalPrice(req, event.Price, count)
	return nil
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, bookingID int, actor model.Actor) (*model.Booking, error) {
	return s.cancel(ctx, bookingID, actor, nil)
}

func (s *BookingServiceImpl) ExpireBooking(ctx context.Context, bookingID int, cutoff time.Time) (*model.Booking, error) {
	return s.cancel(ctx, bookingID, model.SystemActor, &cutoff)
}

func (s *BookingServiceImpl) cancel(ctx context.Context, bookingID int, actor model.Actor, expireBefore *time.Time) (*model.Booking, error) {
	now := s.clock.Now().UTC()
	var cancelled *model.Booking

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		// 1. 鎖住訂位
		booking, err := s.bookings.FindByIDWithLock(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanAccess(booking) {
			return apperrors.ErrUnauthorized
		}
		if booking.Status == model.BookingStatusCancelled {
			return apperrors.ErrAlreadyCancelled
		}
		// 排程列出後才付款的訂位不能被取消
		if expireBefore != nil && (!booking.IsPending() || !booking.CreatedAt.Before(*expireBefore)) {
			return apperrors.ErrBookingNotExpired
		}

		// 2. 更新狀態
		updated, err := s.bookings.UpdateStatus(ctx, tx, booking.ID, booking.Status, model.BookingStatusCancelled, now)
		if err != nil {
			return err
		}

		// 3. 歸還容量
		if err := s.releaseCapacity(ctx, tx, updated, now); err != nil {
			return err
		}

		cancelled = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled.ShowtimeID != nil {
		s.invalidate(ctx, *cancelled.ShowtimeID)
	}

	s.log.Info("booking cancelled",
		zap.Int("booking_id", cancelled.ID),
		zap.Int("user_id", cancelled.UserID),
		zap.Bool("privileged", actor.Privileged),
		zap.Bool("expired", expireBefore != nil),
	)

	s.notify(ctx, model.NotificationBookingCancelled, cancelled)

	return cancelled, nil
}

func (s *BookingServiceImpl) releaseCapacity(ctx context.Context, tx pgx.Tx, booking *model.Booking, now time.Time) error {
	switch mode := booking.CapacityMode().(type) {
	case model.Seated:
		released, err := s.seats.ReleaseBooked(ctx, tx, mode.ShowtimeID, booking.SeatLabels, now)
		if err != nil {
			return err
		}
		if int(released) != len(booking.SeatLabels) {
			s.log.Warn("released seat count mismatch",
				zap.Int("booking_id", booking.ID),
				zap.Int64("released", released),
				zap.Int("expected", len(booking.SeatLabels)),
			)
		}
		return nil
	case model.GeneralAdmission:
		return s.events.ReleaseGeneralAdmission(ctx, tx, mode.EventID, booking.TicketCount, now)
	default:
		return fmt.Errorf("unsupported capacity mode %T", mode)
	}
}

func (s *BookingServiceImpl) ConfirmBooking(ctx context.Context, bookingID int) (*model.Booking, error) {
	now := s.clock.Now().UTC()
	var result *model.Booking
	confirmed := false

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		booking, err := s.bookings.FindByIDWithLock(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.IsPending() {
			result = booking
			return nil
		}

		updated, err := s.bookings.UpdateStatus(ctx, tx, booking.ID, model.BookingStatusPending, model.BookingStatusConfirmed, now)
		if err != nil {
			return err
		}
		result = updated
		confirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed {
		s.log.Info("booking confirmed", zap.Int("booking_id", result.ID), zap.Int("user_id", result.UserID))
		s.notify(ctx, model.NotificationBookingConfirmed, result)
	}

	return result, nil
}

func (s *BookingServiceImpl) GetBooking(ctx context.Context, bookingID int, actor model.Actor) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(booking) {
		return nil, apperrors.ErrUnauthorized
	}
	return booking, nil
}

func (s *BookingServiceImpl) ListUserBookings(ctx context.Context, userID int) ([]*model.Booking, error) {
	return s.bookings.FindByUserID(ctx, userID)
}

func (s *BookingServiceImpl) notify(ctx context.Context, t model.NotificationType, booking *model.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	n := notification.NewBookingNotification(t, booking, s.clock.Now().UTC())
	if err := s.sender.Send(ctx, n); err != nil {
		s.log.Warn("failed to send booking notification",
			zap.String("type", string(t)),
			zap.Int("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

func (s *BookingServiceImpl) invalidate(ctx context.Context, showtimeID int) {
	if err := s.seatCache.Invalidate(ctx, showtimeID); err != nil {
		s.log.Warn("seat map cache invalidate failed", zap.Int("showtime_id", showtimeID), zap.Error(err))
	}
}
