package service_test

import (
	"context"
	"testing"
	"time"

	"go-gin-seat-reservation/internal/model"
	repomocks "go-gin-seat-reservation/internal/repository/mocks"
	"go-gin-seat-reservation/internal/service"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventService_Create(t *testing.T) {
	t.Run("General admission starts fully available", func(t *testing.T) {
		events := repomocks.NewEventRepositoryMock()
		svc := service.NewEventService(repomocks.NewTransactorMock(), events, repomocks.NewShowtimeRepositoryMock(), repomocks.NewSeatRepositoryMock(), clock.NewMock())

		events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.Name == "Concert" && e.TotalCapacity == 500 && e.AvailableCount == 500 && e.EventID != uuid.Nil
		})).Return(&model.Event{ID: 1, Name: "Concert", TotalCapacity: 500, AvailableCount: 500}, nil).Once()

		event, err := svc.Create(context.Background(), model.CreateEventParams{Name: " Concert ", Price: 50, TotalCapacity: 500})

		require.NoError(t, err)
		assert.Equal(t, 500, event.AvailableCount)
		events.AssertExpectations(t)
	})

	t.Run("Seated event has no counter", func(t *testing.T) {
		events := repomocks.NewEventRepositoryMock()
		svc := service.NewEventService(repomocks.NewTransactorMock(), events, repomocks.NewShowtimeRepositoryMock(), repomocks.NewSeatRepositoryMock(), clock.NewMock())

		events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.Seated && e.TotalCapacity == 0 && e.AvailableCount == 0
		})).Return(&model.Event{ID: 2, Seated: true}, nil).Once()

		_, err := svc.Create(context.Background(), model.CreateEventParams{Name: "Play", Seated: true, TotalCapacity: 300})

		require.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("Invalid input", func(t *testing.T) {
		svc := service.NewEventService(repomocks.NewTransactorMock(), repomocks.NewEventRepositoryMock(), repomocks.NewShowtimeRepositoryMock(), repomocks.NewSeatRepositoryMock(), clock.NewMock())

		_, err := svc.Create(context.Background(), model.CreateEventParams{Name: "  "})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = svc.Create(context.Background(), model.CreateEventParams{Name: "X", Price: -1})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestEventService_CreateShowtime(t *testing.T) {
	eventID := uuid.New()
	startsAt := time.Date(2026, 12, 1, 19, 30, 0, 0, time.UTC)

	t.Run("Success - creates full seat map", func(t *testing.T) {
		tx := repomocks.NewTransactorMock()
		events := repomocks.NewEventRepositoryMock()
		showtimes := repomocks.NewShowtimeRepositoryMock()
		seats := repomocks.NewSeatRepositoryMock()
		svc := service.NewEventService(tx, events, showtimes, seats, clock.NewMock())

		events.On("FindByEventID", mock.Anything, eventID).Return(&model.Event{ID: 7, EventID: eventID, Seated: true}, nil).Once()
		showtimes.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(s *model.Showtime) bool {
			return s.EventID == 7 && s.SeatRows == 2 && s.SeatCols == 3 && s.StartsAt.Equal(startsAt)
		})).Return(&model.Showtime{ID: 3, EventID: 7, SeatRows: 2, SeatCols: 3, StartsAt: startsAt}, nil).Once()
		seats.On("CreateBulk", mock.Anything, mock.Anything, 3, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, mock.Anything).
			Return(int64(6), nil).Once()

		showtime, err := svc.CreateShowtime(context.Background(), eventID, model.CreateShowtimeParams{
			StartsAt: startsAt, SeatRows: 2, SeatCols: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, showtime.ID)
		assert.Equal(t, 1, tx.Calls)
		seats.AssertExpectations(t)
	})

	t.Run("Failed - general admission event", func(t *testing.T) {
		events := repomocks.NewEventRepositoryMock()
		svc := service.NewEventService(repomocks.NewTransactorMock(), events, repomocks.NewShowtimeRepositoryMock(), repomocks.NewSeatRepositoryMock(), clock.NewMock())

		events.On("FindByEventID", mock.Anything, eventID).Return(&model.Event{ID: 7, EventID: eventID}, nil).Once()

		_, err := svc.CreateShowtime(context.Background(), eventID, model.CreateShowtimeParams{StartsAt: startsAt, SeatRows: 2, SeatCols: 3})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - seat map out of range", func(t *testing.T) {
		svc := service.NewEventService(repomocks.NewTransactorMock(), repomocks.NewEventRepositoryMock(), repomocks.NewShowtimeRepositoryMock(), repomocks.NewSeatRepositoryMock(), clock.NewMock())

		_, err := svc.CreateShowtime(context.Background(), eventID, model.CreateShowtimeParams{SeatRows: model.MaxSeatRows + 1, SeatCols: 3})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = svc.CreateShowtime(context.Background(), eventID, model.CreateShowtimeParams{SeatRows: 1, SeatCols: 0})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
