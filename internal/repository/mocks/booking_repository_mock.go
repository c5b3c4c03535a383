package mocks

import (
	"context"
	"time"

	"go-gin-seat-reservation/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type BookingRepositoryMock struct {
	mock.Mock
}

func NewBookingRepositoryMock() *BookingRepositoryMock {
	return &BookingRepositoryMock{}
}

func (m *BookingRepositoryMock) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) FindByUserID(ctx context.Context, userID int) ([]*model.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]*model.Booking, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) OccupiedLabelsByShowtime(ctx context.Context, showtimeID int) ([]string, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *BookingRepositoryMock) OccupiedLabelsByEvent(ctx context.Context, eventID int) ([]string, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *BookingRepositoryMock) Create(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, error) {
	args := m.Called(ctx, tx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Booking, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingRepositoryMock) CountByUserAndStatus(ctx context.Context, tx pgx.Tx, userID int, status model.BookingStatus) (int, error) {
	args := m.Called(ctx, tx, userID, status)
	return args.Int(0), args.Error(1)
}

func (m *BookingRepositoryMock) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, from, to model.BookingStatus, now time.Time) (*model.Booking, error) {
	args := m.Called(ctx, tx, id, from, to, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}
