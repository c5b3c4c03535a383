package service

import (
	"context"
	"fmt"
	"strings"

	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/repository"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MaxSeatCols 每排座位數上限
const MaxSeatCols = 100

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error)
	// CreateShowtime 建立場次並一次產生整個座位圖
	CreateShowtime(ctx context.Context, eventID uuid.UUID, params model.CreateShowtimeParams) (*model.Showtime, error)
	ListShowtimes(ctx context.Context, eventID uuid.UUID) ([]*model.Showtime, error)
}

type EventServiceImpl struct {
	tx        repository.Transactor
	repo      repository.EventRepository
	showtimes repository.ShowtimeRepository
	seats     repository.SeatRepository
	clock     clock.Clock
	log       *zap.Logger
}

func NewEventService(
	tx repository.Transactor,
	repo repository.EventRepository,
	showtimes repository.ShowtimeRepository,
	seats repository.SeatRepository,
	clk clock.Clock,
) EventService {
	return &EventServiceImpl{
		tx:        tx,
		repo:      repo,
		showtimes: showtimes,
		seats:     seats,
		clock:     clk,
		log:       logger.WithComponent("service"),
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" || params.Price < 0 || params.TotalCapacity < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	event := &model.Event{
		EventID:     uuid.New(),
		Name:        name,
		Description: params.Description,
		Price:       params.Price,
		Seated:      params.Seated,
	}
	// 劃位活動的容量由場次座位決定
	if !params.Seated {
		event.TotalCapacity = params.TotalCapacity
		event.AvailableCount = params.TotalCapacity
	}

	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) CreateShowtime(ctx context.Context, eventID uuid.UUID, params model.CreateShowtimeParams) (*model.Showtime, error) {
	if params.SeatRows < 1 || params.SeatRows > model.MaxSeatRows || params.SeatCols < 1 || params.SeatCols > MaxSeatCols {
		return nil, fmt.Errorf("seat map %dx%d out of range: %w", params.SeatRows, params.SeatCols, apperrors.ErrInvalidInput)
	}
	if params.Price != nil && *params.Price < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Seated {
		return nil, fmt.Errorf("event %s is general admission: %w", eventID, apperrors.ErrInvalidInput)
	}

	now := s.clock.Now().UTC()
	var created *model.Showtime

	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		showtime, err := s.showtimes.Create(ctx, tx, &model.Showtime{
			EventID:  event.ID,
			StartsAt: params.StartsAt,
			SeatRows: params.SeatRows,
			SeatCols: params.SeatCols,
			Price:    params.Price,
		})
		if err != nil {
			return err
		}

		labels := model.SeatLabels(params.SeatRows, params.SeatCols)
		if _, err := s.seats.CreateBulk(ctx, tx, showtime.ID, labels, now); err != nil {
			return err
		}

		created = showtime
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("showtime created",
		zap.Int("showtime_id", created.ID),
		zap.Int("event_id", event.ID),
		zap.Int("seats", params.SeatRows*params.SeatCols),
	)
	return created, nil
}

func (s *EventServiceImpl) ListShowtimes(ctx context.Context, eventID uuid.UUID) ([]*model.Showtime, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.showtimes.ListByEventID(ctx, event.ID)
}
