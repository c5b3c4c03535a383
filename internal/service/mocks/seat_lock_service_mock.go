package mocks

import (
	"context"

	"go-gin-seat-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type SeatLockServiceMock struct {
	mock.Mock
}

func NewSeatLockServiceMock() *SeatLockServiceMock {
	return &SeatLockServiceMock{}
}

func (m *SeatLockServiceMock) LockSeats(ctx context.Context, req model.LockSeatsRequest) (*model.LockResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LockResult), args.Error(1)
}

func (m *SeatLockServiceMock) SeatMap(ctx context.Context, showtimeID int) ([]*model.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Seat), args.Error(1)
}

func (m *SeatLockServiceMock) OccupiedSeatsByShowtime(ctx context.Context, showtimeID int) ([]string, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *SeatLockServiceMock) OccupiedSeatsByEvent(ctx context.Context, eventID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
