package worker_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	cachemocks "go-gin-seat-reservation/internal/cache/mocks"
	"go-gin-seat-reservation/internal/model"
	repomocks "go-gin-seat-reservation/internal/repository/mocks"
	"go-gin-seat-reservation/internal/worker"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeatUnlockJob_ReleasesInBatches(t *testing.T) {
	clk := clock.NewMock()
	clk.Add(time.Hour)
	now := clk.Now().UTC()

	seats := repomocks.NewSeatRepositoryMock()
	seatCache := cachemocks.NewSeatMapCacheMock()
	job := worker.NewSeatUnlockJob(seats, seatCache, clk, time.Minute, 2)

	seats.On("ReleaseExpiredLocks", mock.Anything, now, 2).Return([]*model.Seat{
		{ID: 1, ShowtimeID: 3, Label: "A1", State: model.SeatStateAvailable},
		{ID: 9, ShowtimeID: 4, Label: "C2", State: model.SeatStateAvailable},
	}, nil).Once()
	seats.On("ReleaseExpiredLocks", mock.Anything, now, 2).Return([]*model.Seat{
		{ID: 2, ShowtimeID: 3, Label: "A2", State: model.SeatStateAvailable},
	}, nil).Once()
	seatCache.On("Invalidate", mock.Anything, mock.MatchedBy(func(ids []int) bool {
		got := append([]int(nil), ids...)
		sort.Ints(got)
		return assert.ObjectsAreEqual([]int{3, 4}, got)
	})).Return(nil).Once()

	released, err := job.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, released)
	seats.AssertExpectations(t)
	seatCache.AssertExpectations(t)
}

func TestSeatUnlockJob_NothingExpired(t *testing.T) {
	clk := clock.NewMock()
	seats := repomocks.NewSeatRepositoryMock()
	seatCache := cachemocks.NewSeatMapCacheMock()
	job := worker.NewSeatUnlockJob(seats, seatCache, clk, time.Minute, 100)

	seats.On("ReleaseExpiredLocks", mock.Anything, mock.Anything, 100).Return([]*model.Seat{}, nil).Once()

	released, err := job.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, released)
	seatCache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestSeatUnlockJob_StoreError(t *testing.T) {
	clk := clock.NewMock()
	seats := repomocks.NewSeatRepositoryMock()
	job := worker.NewSeatUnlockJob(seats, cachemocks.NewSeatMapCacheMock(), clk, time.Minute, 100)

	seats.On("ReleaseExpiredLocks", mock.Anything, mock.Anything, 100).Return(nil, errors.New("connection refused")).Once()

	err := job.Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, "seat-unlock", job.Name())
	assert.Equal(t, time.Minute, job.Interval())
}
