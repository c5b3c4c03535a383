package mocks

import (
	"context"

	"go-gin-seat-reservation/internal/model"

	"github.com/stretchr/testify/mock"
)

type SeatMapCacheMock struct {
	mock.Mock
}

func NewSeatMapCacheMock() *SeatMapCacheMock {
	return &SeatMapCacheMock{}
}

func (m *SeatMapCacheMock) Get(ctx context.Context, showtimeID int) ([]*model.Seat, bool, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*model.Seat), args.Bool(1), args.Error(2)
}

func (m *SeatMapCacheMock) Set(ctx context.Context, showtimeID int, seats []*model.Seat) error {
	args := m.Called(ctx, showtimeID, seats)
	return args.Error(0)
}

func (m *SeatMapCacheMock) Invalidate(ctx context.Context, showtimeIDs ...int) error {
	args := m.Called(ctx, showtimeIDs)
	return args.Error(0)
}
