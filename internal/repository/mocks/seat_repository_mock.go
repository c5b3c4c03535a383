package mocks

import (
	"context"
	"time"

	"go-gin-seat-reservation/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type SeatRepositoryMock struct {
	mock.Mock
}

func NewSeatRepositoryMock() *SeatRepositoryMock {
	return &SeatRepositoryMock{}
}

func (m *SeatRepositoryMock) ListByShowtime(ctx context.Context, showtimeID int) ([]*model.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Seat), args.Error(1)
}

func (m *SeatRepositoryMock) ReleaseExpiredLocks(ctx context.Context, now time.Time, limit int) ([]*model.Seat, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Seat), args.Error(1)
}

func (m *SeatRepositoryMock) CreateBulk(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, showtimeID, labels, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SeatRepositoryMock) FindByLabelsWithLock(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string) ([]*model.Seat, error) {
	args := m.Called(ctx, tx, showtimeID, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Seat), args.Error(1)
}

func (m *SeatRepositoryMock) Lock(ctx context.Context, tx pgx.Tx, seatIDs []int, holderID int, expiresAt time.Time, now time.Time) error {
	args := m.Called(ctx, tx, seatIDs, holderID, expiresAt, now)
	return args.Error(0)
}

func (m *SeatRepositoryMock) MarkBooked(ctx context.Context, tx pgx.Tx, seatIDs []int, holderID int, now time.Time) error {
	args := m.Called(ctx, tx, seatIDs, holderID, now)
	return args.Error(0)
}

func (m *SeatRepositoryMock) ReleaseBooked(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, showtimeID, labels, now)
	return args.Get(0).(int64), args.Error(1)
}
