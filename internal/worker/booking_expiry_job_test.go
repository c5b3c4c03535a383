package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-gin-seat-reservation/internal/model"
	repomocks "go-gin-seat-reservation/internal/repository/mocks"
	servicemocks "go-gin-seat-reservation/internal/service/mocks"
	"go-gin-seat-reservation/internal/worker"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingExpiryJob_CancelsStaleBookings(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(time.Hour)
	grace := 10 * time.Minute
	cutoff := clk.Now().UTC().Add(-grace)

	bookings := repomocks.NewBookingRepositoryMock()
	svc := servicemocks.NewBookingServiceMock()
	job := worker.NewBookingExpiryJob(bookings, svc, clk, time.Minute, grace, 50)

	bookings.On("ListExpiredPending", mock.Anything, cutoff, 50).Return([]*model.Booking{
		{ID: 1, Status: model.BookingStatusPending},
		{ID: 2, Status: model.BookingStatusPending},
		{ID: 3, Status: model.BookingStatusPending},
		{ID: 4, Status: model.BookingStatusPending},
	}, nil).Once()
	svc.On("ExpireBooking", mock.Anything, 1, cutoff).Return(&model.Booking{ID: 1, Status: model.BookingStatusCancelled}, nil).Once()
	// 列出後才付款
	svc.On("ExpireBooking", mock.Anything, 2, cutoff).Return(nil, apperrors.ErrBookingNotExpired).Once()
	// 單筆失敗不中斷整輪
	svc.On("ExpireBooking", mock.Anything, 3, cutoff).Return(nil, errors.New("deadlock detected")).Once()
	svc.On("ExpireBooking", mock.Anything, 4, cutoff).Return(&model.Booking{ID: 4, Status: model.BookingStatusCancelled}, nil).Once()

	cancelled, err := job.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)
	svc.AssertExpectations(t)
}

func TestBookingExpiryJob_ListError(t *testing.T) {
	clk := clock.NewMock()
	bookings := repomocks.NewBookingRepositoryMock()
	svc := servicemocks.NewBookingServiceMock()
	job := worker.NewBookingExpiryJob(bookings, svc, clk, time.Minute, 10*time.Minute, 0)

	bookings.On("ListExpiredPending", mock.Anything, mock.Anything, 100).Return(nil, errors.New("connection refused")).Once()

	err := job.Run(context.Background())

	assert.Error(t, err)
	svc.AssertNotCalled(t, "ExpireBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingExpiryJob_StopsOnCancelledContext(t *testing.T) {
	clk := clock.NewMock()
	bookings := repomocks.NewBookingRepositoryMock()
	svc := servicemocks.NewBookingServiceMock()
	job := worker.NewBookingExpiryJob(bookings, svc, clk, time.Minute, 10*time.Minute, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bookings.On("ListExpiredPending", mock.Anything, mock.Anything, 100).Return([]*model.Booking{{ID: 1}}, nil).Once()

	cancelled, err := job.RunOnce(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, cancelled)
	svc.AssertNotCalled(t, "ExpireBooking", mock.Anything, mock.Anything, mock.Anything)
}
