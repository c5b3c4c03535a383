package mocks

import (
	"context"
	"time"

	"go-gin-seat-reservation/internal/model"

	"github.com/stretchr/testify/mock"
)

type BookingServiceMock struct {
	mock.Mock
}

func NewBookingServiceMock() *BookingServiceMock {
	return &BookingServiceMock{}
}

func (m *BookingServiceMock) CreateBooking(ctx context.Context, userID int, req model.CreateBookingRequest) (*model.Booking, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) CancelBooking(ctx context.Context, bookingID int, actor model.Actor) (*model.Booking, error) {
	args := m.Called(ctx, bookingID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) ExpireBooking(ctx context.Context, bookingID int, cutoff time.Time) (*model.Booking, error) {
	args := m.Called(ctx, bookingID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) ConfirmBooking(ctx context.Context, bookingID int) (*model.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) GetBooking(ctx context.Context, bookingID int, actor model.Actor) (*model.Booking, error) {
	args := m.Called(ctx, bookingID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *BookingServiceMock) ListUserBookings(ctx context.Context, userID int) ([]*model.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Booking), args.Error(1)
}
