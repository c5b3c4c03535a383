package mocks

import (
	"context"

	"go-gin-seat-reservation/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type ShowtimeRepositoryMock struct {
	mock.Mock
}

func NewShowtimeRepositoryMock() *ShowtimeRepositoryMock {
	return &ShowtimeRepositoryMock{}
}

func (m *ShowtimeRepositoryMock) FindByID(ctx context.Context, id int) (*model.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Showtime), args.Error(1)
}

func (m *ShowtimeRepositoryMock) ListByEventID(ctx context.Context, eventID int) ([]*model.Showtime, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Showtime), args.Error(1)
}

func (m *ShowtimeRepositoryMock) Create(ctx context.Context, tx pgx.Tx, showtime *model.Showtime) (*model.Showtime, error) {
	args := m.Called(ctx, tx, showtime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Showtime), args.Error(1)
}

func (m *ShowtimeRepositoryMock) FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Showtime, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Showtime), args.Error(1)
}
